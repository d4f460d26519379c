package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the data payload of a successful reply.
type Response map[string]interface{}

// Business error codes surfaced in the JSON envelope.
const (
	CodeOK            = 0
	CodeInvalidParam  = 40001
	CodeDuplicate     = 40002
	CodeAuth          = 40101
	CodeForbidden     = 40301
	CodeSelfDemotion  = 40302
	CodeSelfDeletion  = 40303
	CodeNotFound      = 40401
	CodeUnreadable    = 42201
	CodeUnknownOp     = 42202
	CodeServerErr     = 50001
)

// Success writes the uniform success envelope.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes the uniform error envelope.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}
