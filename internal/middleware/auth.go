package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"nirvana-heritage/internal/models"
	"nirvana-heritage/internal/store"
	"nirvana-heritage/internal/util"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "nh_token"

// AuthMiddleware verifies the session JWT and puts the current user into the
// request context.
func AuthMiddleware(jwtSecret string, users store.UserDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// 2) URL query ?token=xxx (downloads and other no-header cases)
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		// 3) session cookie
		if tokenStr == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				tokenStr = cookie
			}
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Please log in to continue.")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Session expired, please log in again.")
			c.Abort()
			return
		}

		user, err := users.ByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "User no longer exists.")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load user.")
			}
			c.Abort()
			return
		}

		c.Set("currentUser", user)
		c.Next()
	}
}

// RequireAdmin gates admin routes; IsAdmin is the sole authorization
// predicate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "Admin access required.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed by AuthMiddleware, or
// nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get("currentUser")
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
