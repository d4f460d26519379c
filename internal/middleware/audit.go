package middleware

import (
	"fmt"

	"nirvana-heritage/internal/store"

	"github.com/gin-gonic/gin"
)

// AdminAudit appends one audit entry per admin console action, after the
// handler has run. Only successful requests are recorded.
func AdminAudit(logStore store.AdminLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		actor := "unknown"
		if user := CurrentUser(c); user != nil {
			actor = user.Username
		}

		message := fmt.Sprintf("%s %s by %s", c.Request.Method, c.Request.URL.Path, actor)
		_ = logStore.Append(c.Request.Context(), message)
	}
}
