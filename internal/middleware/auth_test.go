package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nirvana-heritage/internal/models"
	"nirvana-heritage/internal/store"
	"nirvana-heritage/internal/util"

	"github.com/gin-gonic/gin"
)

const testSecret = "middleware-secret"

// stubDirectory serves a single fixed user.
type stubDirectory struct {
	user *models.User
}

func (s *stubDirectory) Create(ctx context.Context, user *models.User) error { return nil }

func (s *stubDirectory) ByID(ctx context.Context, id string) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, store.ErrNotFound
}

func (s *stubDirectory) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, store.ErrNotFound
}

func (s *stubDirectory) List(ctx context.Context) ([]models.User, error) { return nil, nil }

func (s *stubDirectory) SetAdmin(ctx context.Context, id string, isAdmin bool) error { return nil }

func (s *stubDirectory) UpdatePassword(ctx context.Context, id, hash string) error { return nil }

func (s *stubDirectory) Delete(ctx context.Context, id string) error { return nil }

func newProtectedRouter(users store.UserDirectory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(testSecret, users))
	r.GET("/me", func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func request(r http.Handler, path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_TokenSources(t *testing.T) {
	user := &models.User{ID: "u-1", Username: "nero"}
	r := newProtectedRouter(&stubDirectory{user: user})

	token, err := util.GenerateToken(testSecret, user.ID, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	cases := map[string]func(*http.Request){
		"bearer header": func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token)
		},
		"query param": func(req *http.Request) {
			q := req.URL.Query()
			q.Set("token", token)
			req.URL.RawQuery = q.Encode()
		},
		"cookie": func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		},
	}
	for name, mutate := range cases {
		if w := request(r, "/me", mutate); w.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200 (body %s)", name, w.Code, w.Body.String())
		}
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	user := &models.User{ID: "u-1", Username: "nero"}
	r := newProtectedRouter(&stubDirectory{user: user})

	expired, err := util.GenerateToken(testSecret, user.ID, time.Nanosecond)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	wrongSecret, err := util.GenerateToken("other-secret", user.ID, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	ghost, err := util.GenerateToken(testSecret, "deleted-user", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	cases := map[string]string{
		"expired":      expired,
		"wrong secret": wrongSecret,
		"deleted user": ghost,
		"garbage":      "not.a.jwt",
	}
	for name, token := range cases {
		w := request(r, "/me", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token)
		})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, w.Code)
		}
	}

	if w := request(r, "/me", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	plain := &models.User{ID: "u-1", Username: "nero"}
	r := newProtectedRouter(&stubDirectory{user: plain})

	token, err := util.GenerateToken(testSecret, plain.ID, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	auth := func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if w := request(r, "/admin", auth); w.Code != http.StatusForbidden {
		t.Errorf("plain user: status = %d, want 403", w.Code)
	}

	plain.IsAdmin = true
	if w := request(r, "/admin", auth); w.Code != http.StatusOK {
		t.Errorf("admin user: status = %d, want 200", w.Code)
	}
}
