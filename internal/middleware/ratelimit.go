package middleware

import (
	"net/http"
	"sync"

	"nirvana-heritage/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var (
	loginVisitors = make(map[string]*rate.Limiter)
	loginMu       sync.Mutex
)

// getLoginVisitor creates a strict rate limiter specifically for login
// attempts. Limits: 1 request/sec, burst 10.
func getLoginVisitor(ip string) *rate.Limiter {
	loginMu.Lock()
	defer loginMu.Unlock()

	limiter, exists := loginVisitors[ip]
	if !exists {
		limiter = rate.NewLimiter(1, 10)
		loginVisitors[ip] = limiter
	}
	return limiter
}

// LoginRateLimit enforces per-IP limits on authentication attempts.
func LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := getLoginVisitor(c.ClientIP())
		if !limiter.Allow() {
			util.Error(c, http.StatusTooManyRequests, util.CodeAuth, "Too many login attempts. Please wait.")
			c.Abort()
			return
		}
		c.Next()
	}
}
