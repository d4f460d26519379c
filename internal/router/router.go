package router

import (
	"net/http"

	"nirvana-heritage/internal/config"
	"nirvana-heritage/internal/filestore"
	"nirvana-heritage/internal/handler"
	"nirvana-heritage/internal/middleware"
	"nirvana-heritage/internal/notify"
	"nirvana-heritage/internal/store"
	"nirvana-heritage/internal/vision"

	"github.com/gin-gonic/gin"
)

// Deps bundles the backends selected in main.
type Deps struct {
	Users    store.UserDirectory
	Logs     store.AdminLog
	Files    filestore.Store
	Notifier notify.Notifier
	Mailer   handler.ResetMailer
}

// SetupRouter configures the Gin engine, templates and all routes.
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.MaxMultipartMemory = cfg.Upload.MaxSizeMB << 20

	// static files and templates
	r.Static("/assets", "./web/static")
	if cfg.Storage.Driver == "local" {
		r.Static("/static/uploads", cfg.Storage.UploadDir)
		r.Static("/static/processed", cfg.Storage.ProcessedDir)
	}
	r.LoadHTMLGlob("web/templates/*")

	// HTML shells
	pages := map[string]string{
		"/":                "splash.html",
		"/index":           "index.html",
		"/home":            "home.html",
		"/about":           "about.html",
		"/mission":         "mission.html",
		"/pricing":         "pricing.html",
		"/contact":         "contact.html",
		"/signup":          "signup.html",
		"/login":           "login.html",
		"/reset_password":  "reset_request.html",
		"/create":          "create.html",
		"/admin":           "admin.html",
		"/admin_dashboard": "admin_dashboard.html",
	}
	for route, tmpl := range pages {
		tmpl := tmpl
		r.GET(route, func(c *gin.Context) {
			c.HTML(http.StatusOK, tmpl, gin.H{"title": "Nirvana Heritage"})
		})
	}
	r.GET("/reset_password/:token", func(c *gin.Context) {
		c.HTML(http.StatusOK, "reset_token.html", gin.H{
			"title": "Nirvana Heritage",
			"token": c.Param("token"),
		})
	})

	jwtSecret := cfg.JWT.Secret

	authHandler := handler.NewAuthHandler(deps.Users, deps.Notifier, deps.Mailer,
		jwtSecret, cfg.JWT.ExpireHours, cfg.Server.BaseURL)
	contactHandler := handler.NewContactHandler(deps.Notifier)

	// public actions
	r.POST("/signup", authHandler.Signup)
	r.POST("/login", middleware.LoginRateLimit(), authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.POST("/reset_password", authHandler.ResetRequest)
	r.POST("/reset_password/:token", authHandler.ResetToken)
	r.POST("/contact", contactHandler.Send)

	// routes that need a session
	authed := r.Group("")
	authed.Use(middleware.AuthMiddleware(jwtSecret, deps.Users))

	authed.GET("/me", handler.GetMe)

	dispatcher := vision.NewDispatcher(deps.Files)
	imageHandler := handler.NewImageHandler(deps.Files, dispatcher, deps.Notifier,
		cfg.Upload.MaxSizeMB<<20)
	authed.POST("/create", imageHandler.Create)
	authed.POST("/process_artisan", imageHandler.ProcessArtisan)
	authed.POST("/process_advanced", imageHandler.ProcessAdvanced)
	authed.GET("/download/:filename", imageHandler.Download)

	// admin console; mutations are audited
	adminHandler := handler.NewAdminHandler(deps.Users, deps.Logs)
	admin := authed.Group("")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/admin/users", adminHandler.ListUsers)

	audited := admin.Group("")
	audited.Use(middleware.AdminAudit(deps.Logs))
	audited.POST("/make_admin/:id", adminHandler.MakeAdmin)
	audited.POST("/remove_admin/:id", adminHandler.RemoveAdmin)
	audited.POST("/delete_user/:id", adminHandler.DeleteUser)

	return r
}
