// Package router はHTTPルーティングを構築します。
package router

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"signup_backend/internal/app/di"
	"signup_backend/internal/platform/http/handler"
	jwtmw "signup_backend/internal/platform/jwt"
	"signup_backend/internal/platform/ratelimit"
)

// EnvKeyCORSAllowedOrigins はサインアップフォームを配信するオリジンのカンマ区切りリストです。
const EnvKeyCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

// ParseOrigins splits a comma separated origin list, dropping blanks.
func ParseOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Retry-After", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func NewRouter(accounts *di.AccountHandlers, limiter ratelimit.Limiter, db handler.Pinger, allowedOrigins []string) *gin.Engine {
	r := gin.Default()

	// ブラウザのフォームから直接呼ばれるため、許可されたオリジンのみCORSを有効にする
	if len(allowedOrigins) > 0 {
		r.Use(corsMiddleware(allowedOrigins))
	}

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)
	r.GET("/readyz", handler.Ready(db))

	// 新規アカウント登録（IP単位でレート制限）
	signup := r.Group("/signup")
	signup.Use(ratelimit.Middleware(limiter))
	{
		signup.POST("", accounts.Signup.Signup)
		signup.GET("/availability", accounts.Signup.Availability)
	}

	// ログイン（JWT 発行）
	r.POST("/login", accounts.Auth.Login)

	// 認証必須のルート
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired())
	{
		auth.GET("/me", accounts.Auth.Me)
	}

	return r
}
