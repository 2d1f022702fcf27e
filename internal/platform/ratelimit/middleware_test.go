package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubLimiter returns a fixed decision.
type stubLimiter struct {
	decision Decision
	err      error
	keys     []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (Decision, error) {
	s.keys = append(s.keys, key)
	return s.decision, s.err
}

func serve(l Limiter) *httptest.ResponseRecorder {
	r := gin.New()
	r.POST("/signup", Middleware(l), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware_Allowed(t *testing.T) {
	l := &stubLimiter{decision: Decision{Allowed: true, Remaining: 4}}

	w := serve(l)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, []string{"/signup:203.0.113.7"}, l.keys)
}

func TestMiddleware_Rejected(t *testing.T) {
	tests := []struct {
		name       string
		retryAfter time.Duration
		expected   string
	}{
		{"rounds up", 1500 * time.Millisecond, "2"},
		{"at least one second", 0, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&stubLimiter{decision: Decision{Allowed: false, RetryAfter: tt.retryAfter}})

			assert.Equal(t, http.StatusTooManyRequests, w.Code)
			assert.Equal(t, tt.expected, w.Header().Get("Retry-After"))
			assert.JSONEq(t, `{"error":"too many requests"}`, w.Body.String())
		})
	}
}

func TestMiddleware_FailsOpen(t *testing.T) {
	w := serve(&stubLimiter{err: errors.New("redis down")})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestMiddleware_WithMemoryLimiter(t *testing.T) {
	l := NewMemoryLimiter(Config{Limit: 1, Window: time.Minute})

	assert.Equal(t, http.StatusCreated, serve(l).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(l).Code)
}
