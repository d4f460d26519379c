package handler

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"nirvana-heritage/internal/middleware"
	"nirvana-heritage/internal/models"
	"nirvana-heritage/internal/notify"
	"nirvana-heritage/internal/store"
	"nirvana-heritage/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// ResetMailer delivers password reset links. nil when mail is unconfigured.
type ResetMailer interface {
	SendResetLink(to, link string) error
}

// AuthHandler serves signup, login and the password reset flow.
type AuthHandler struct {
	Users     store.UserDirectory
	Notifier  notify.Notifier
	Mailer    ResetMailer
	JWTSecret string
	TokenTTL  time.Duration
	BaseURL   string
}

func NewAuthHandler(users store.UserDirectory, notifier notify.Notifier, mailer ResetMailer, jwtSecret string, ttlHours int, baseURL string) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		Users:     users,
		Notifier:  notifier,
		Mailer:    mailer,
		JWTSecret: jwtSecret,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
		BaseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// ---------- Signup ----------

type signupReq struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=64"`
}

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid signup details.")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if !usernameRe.MatchString(req.Username) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Username must be 3-20 letters, digits or underscores.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to secure password.")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := h.Users.Create(c.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicateIdentity) {
			// one generic message whichever field clashed
			util.Error(c, http.StatusBadRequest, util.CodeDuplicate, "Username or Email already exists.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to create account.")
		}
		return
	}

	notify.Fire(h.Notifier, "New Signup", fmt.Sprintf("New artisan joined: %s <%s>", user.Username, user.Email))

	util.Success(c, util.Response{
		"message": "Account created! Welcome to Nirvana Heritage.",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// ---------- Login ----------

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid login details.")
		return
	}

	req.Email = strings.TrimSpace(req.Email)

	// unknown email and wrong password get the same reply, so callers
	// cannot probe which emails exist
	user, err := h.Users.ByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Login Unsuccessful. Please check credentials.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to look up user.")
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Login Unsuccessful. Please check credentials.")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, user.ID, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to create session.")
		return
	}

	c.SetCookie(middleware.SessionCookie, token, int(h.TokenTTL.Seconds()), "/", "", false, true)

	util.Success(c, util.Response{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"is_admin": user.IsAdmin,
		},
	})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	util.Success(c, util.Response{
		"message": "Logged out.",
	})
}

// ---------- Password reset ----------

type resetRequestReq struct {
	Email string `json:"email" binding:"required"`
}

// ResetRequest mails a time-limited reset link if the address exists. The
// reply is identical either way.
func (h *AuthHandler) ResetRequest(c *gin.Context) {
	var req resetRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid request.")
		return
	}

	user, err := h.Users.ByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if err == nil && h.Mailer != nil {
		token, terr := util.GenerateResetToken(h.JWTSecret, user.ID)
		if terr == nil {
			link := fmt.Sprintf("%s/reset_password/%s", h.BaseURL, token)
			// best effort, like every other outbound send
			_ = h.Mailer.SendResetLink(user.Email, link)
		}
	}

	util.Success(c, util.Response{
		"message": "An email has been sent with instructions to reset your password.",
	})
}

type resetTokenReq struct {
	Password string `json:"password" binding:"required,min=6,max=64"`
}

// ResetToken verifies the signed token (1800s window) and stores the new
// password hash.
func (h *AuthHandler) ResetToken(c *gin.Context) {
	claims, err := util.ParseResetToken(h.JWTSecret, c.Param("token"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeAuth, "That is an invalid or expired token.")
		return
	}

	var req resetTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid request.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to secure password.")
		return
	}

	if err := h.Users.UpdatePassword(c.Request.Context(), claims.UserID, string(hash)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusBadRequest, util.CodeAuth, "That is an invalid or expired token.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to update password.")
		}
		return
	}

	util.Success(c, util.Response{
		"message": "Your password has been updated!",
	})
}
