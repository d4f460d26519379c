package handler

import (
	"fmt"
	"net/http"

	"nirvana-heritage/internal/notify"
	"nirvana-heritage/internal/util"

	"github.com/gin-gonic/gin"
)

// ContactHandler forwards visitor inquiries to the operator.
type ContactHandler struct {
	Notifier notify.Notifier
}

func NewContactHandler(notifier notify.Notifier) *ContactHandler {
	return &ContactHandler{Notifier: notifier}
}

type contactReq struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required,max=4000"`
}

func (h *ContactHandler) Send(c *gin.Context) {
	var req contactReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Please fill in all fields.")
		return
	}

	subject := fmt.Sprintf("New Royal Inquiry from %s", req.Name)
	body := fmt.Sprintf("You have received a new inquiry.\n\nName: %s\nEmail: %s\n\nMessage:\n%s",
		req.Name, req.Email, req.Message)
	notify.Fire(h.Notifier, subject, body)

	util.Success(c, util.Response{
		"message": "Your message has been sent to the artisans. We will respond shortly.",
	})
}
