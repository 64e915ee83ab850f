package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangang/quill/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestManager() *utils.JWTManager {
	return utils.NewJWTManager("test-secret-for-middleware-testing", 30*time.Minute)
}

// jwtVerifier adapts a bare JWTManager to AccessTokenVerifier.
type jwtVerifier struct{ m *utils.JWTManager }

func (v jwtVerifier) VerifyAccessToken(token string) (*utils.Claims, error) {
	return v.m.Parse(token)
}

func newProtectedRouter(m *utils.JWTManager) *gin.Engine {
	router := gin.New()
	router.Use(AuthRequired(jwtVerifier{m}))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(200, gin.H{"user_id": GetUserID(c)})
	})
	return router
}

func TestAuthRequired(t *testing.T) {
	m := newTestManager()
	valid, _, err := m.Generate("user-123")
	if err != nil {
		t.Fatal(err)
	}
	foreign, _, _ := utils.NewJWTManager("another-secret", time.Minute).Generate("user-123")

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"valid cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: valid})
		}, http.StatusOK},
		{"valid bearer", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+valid)
		}, http.StatusOK},
		{"basic scheme", func(r *http.Request) {
			r.Header.Set("Authorization", "Basic "+valid)
		}, http.StatusUnauthorized},
		{"garbage cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "not-a-token"})
		}, http.StatusUnauthorized},
		{"foreign signature", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: foreign})
		}, http.StatusUnauthorized},
		{"cookie wins over header", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: valid})
			r.Header.Set("Authorization", "Bearer garbage")
		}, http.StatusOK},
	}

	router := newProtectedRouter(m)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/protected", nil)
			tt.setup(req)
			router.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
		})
	}
}

func TestAuthRequired_SetsUserID(t *testing.T) {
	m := newTestManager()
	token, _, _ := m.Generate("user-123")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	newProtectedRouter(m).ServeHTTP(w, req)

	if body := w.Body.String(); body != `{"user_id":"user-123"}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestAuthRequired_ExpiredToken(t *testing.T) {
	issued := time.Now().Add(-time.Hour)
	m := newTestManager().WithClock(func() time.Time { return issued })
	token, _, _ := m.Generate("user-123")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	newProtectedRouter(newTestManager()).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expired token: expected 401, got %d", w.Code)
	}
}

func TestGetUserID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := GetUserID(c); got != "" {
		t.Errorf("GetUserID() = %q, expected empty", got)
	}
}
