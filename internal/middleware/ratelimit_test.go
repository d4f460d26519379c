package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRateLimitedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", LoginRateLimit(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func loginFrom(r http.Handler, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestLoginRateLimit_BurstThenThrottle(t *testing.T) {
	r := newRateLimitedRouter()

	// burst of 10 passes, the 11th immediate attempt is throttled
	for i := 1; i <= 10; i++ {
		if code := loginFrom(r, "198.51.100.7:4000"); code != http.StatusOK {
			t.Fatalf("attempt %d: status = %d, want 200", i, code)
		}
	}
	if code := loginFrom(r, "198.51.100.7:4000"); code != http.StatusTooManyRequests {
		t.Errorf("attempt 11: status = %d, want 429", code)
	}
}

func TestLoginRateLimit_PerIP(t *testing.T) {
	r := newRateLimitedRouter()

	// exhaust one address
	for i := 0; i < 11; i++ {
		loginFrom(r, "198.51.100.8:4000")
	}
	if code := loginFrom(r, "198.51.100.8:4000"); code != http.StatusTooManyRequests {
		t.Fatalf("exhausted addr: status = %d, want 429", code)
	}

	// a different address still has its own budget
	if code := loginFrom(r, "198.51.100.9:4000"); code != http.StatusOK {
		t.Errorf("fresh addr: status = %d, want 200", code)
	}
}
