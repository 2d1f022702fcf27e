package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"signup_backend/internal/app/di"
	"signup_backend/internal/app/router"
	"signup_backend/internal/platform/db"
	jwtmw "signup_backend/internal/platform/jwt"
	"signup_backend/internal/platform/logging"
	"signup_backend/internal/platform/password"
	"signup_backend/internal/platform/ratelimit"
	infraredis "signup_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	logging.Setup()

	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// db
	gdb, err := db.OpenDB(db.LoadConfigFromEnv())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Redis（任意。なければレート制限はプロセス内で行う）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(context.Background(), infraredis.LoadConfigFromEnv()); err != nil {
		if !errors.Is(err, infraredis.ErrNotConfigured) {
			slog.Warn("Redis unavailable. Rate limiting per instance.", "error", err)
		}
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// JWT_SECRETチェック（開発中の注意喚起）
	jwtCfg := jwtmw.LoadConfigFromEnv()
	if jwtCfg.Secret == "" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}

	hasher := password.NewBcryptHasher(password.CostFromEnv())
	accounts := di.NewAccountHandlers(gdb, hasher, jwtCfg)
	limiter := di.NewSignupLimiter(rdb, ratelimit.LoadConfigFromEnv())

	// ルータ生成
	r := router.NewRouter(accounts, limiter, sqlDB, router.ParseOrigins(os.Getenv(router.EnvKeyCORSAllowedOrigins)))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("starting server", "port", port, "bcrypt_cost", hasher.Cost())
	return r.Run(":" + port)
}
