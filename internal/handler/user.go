package handler

import (
	"net/http"

	"nirvana-heritage/internal/middleware"
	"nirvana-heritage/internal/util"

	"github.com/gin-gonic/gin"
)

// GetMe returns the current authenticated user.
func GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Please log in to continue.")
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"is_admin":   user.IsAdmin,
			"created_at": user.CreatedAt,
		},
	})
}
