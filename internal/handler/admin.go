package handler

import (
	"errors"
	"fmt"
	"net/http"

	"nirvana-heritage/internal/middleware"
	"nirvana-heritage/internal/store"
	"nirvana-heritage/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin console: user listing, admin flag toggles
// and user deletion. All routes are behind RequireAdmin.
type AdminHandler struct {
	Users store.UserDirectory
	Logs  store.AdminLog
}

func NewAdminHandler(users store.UserDirectory, logs store.AdminLog) *AdminHandler {
	return &AdminHandler{Users: users, Logs: logs}
}

// ListUsers returns every user plus the recent audit trail.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to list users.")
		return
	}

	list := make([]gin.H, 0, len(users))
	for _, u := range users {
		list = append(list, gin.H{
			"id":         u.ID,
			"username":   u.Username,
			"email":      u.Email,
			"is_admin":   u.IsAdmin,
			"created_at": u.CreatedAt,
		})
	}

	entries, err := h.Logs.Recent(c.Request.Context(), 50)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load audit log.")
		return
	}
	logList := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		logList = append(logList, gin.H{
			"log_id":    e.LogID,
			"message":   e.Message,
			"timestamp": e.CreatedAt,
		})
	}

	util.Success(c, util.Response{
		"users": list,
		"logs":  logList,
	})
}

// MakeAdmin grants the admin flag to the target user.
func (h *AdminHandler) MakeAdmin(c *gin.Context) {
	target, err := h.Users.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.userError(c, err)
		return
	}

	if err := h.Users.SetAdmin(c.Request.Context(), target.ID, true); err != nil {
		h.userError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": fmt.Sprintf("%s has been made an admin.", target.Username),
	})
}

// RemoveAdmin revokes the admin flag. Actors can never demote themselves.
func (h *AdminHandler) RemoveAdmin(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	targetID := c.Param("id")

	if actor != nil && actor.ID == targetID {
		util.Error(c, http.StatusBadRequest, util.CodeSelfDemotion, "You cannot revoke your own admin privileges.")
		return
	}

	target, err := h.Users.ByID(c.Request.Context(), targetID)
	if err != nil {
		h.userError(c, err)
		return
	}

	if err := h.Users.SetAdmin(c.Request.Context(), target.ID, false); err != nil {
		h.userError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": fmt.Sprintf("%s is no longer an admin.", target.Username),
	})
}

// DeleteUser removes the target record. Actors can never delete themselves;
// deleting an already-deleted id reports not found.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	targetID := c.Param("id")

	if actor != nil && actor.ID == targetID {
		util.Error(c, http.StatusBadRequest, util.CodeSelfDeletion, "You cannot delete your own account.")
		return
	}

	target, err := h.Users.ByID(c.Request.Context(), targetID)
	if err != nil {
		h.userError(c, err)
		return
	}

	if err := h.Users.Delete(c.Request.Context(), target.ID); err != nil {
		h.userError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": fmt.Sprintf("%s has been deleted.", target.Username),
	})
}

func (h *AdminHandler) userError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "User not found.")
		return
	}
	util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Operation failed.")
}
