package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestNewGenerator は各種設定でGeneratorが正しく生成されることを検証します。
func TestNewGenerator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		secret     string
		expiration time.Duration
	}{
		{"standard config", "my-secret-key", time.Hour},
		{"long expiration", "secret", 24 * time.Hour * 30},
		{"short expiration", "s", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator(tt.secret, tt.expiration)

			if string(gen.secret) != tt.secret {
				t.Errorf("expected secret %q, got %q", tt.secret, string(gen.secret))
			}
			if gen.expiration != tt.expiration {
				t.Errorf("expected expiration %v, got %v", tt.expiration, gen.expiration)
			}
		})
	}
}

// TestGenerator_GenerateToken は生成されたJWTトークンが有効で正しいクレームを含むことを検証します。
func TestGenerator_GenerateToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		accountID string
		username  string
	}{
		{"basic account", "6f1c2a4e-0000-4000-8000-000000000001", "user1"},
		{"long username", "6f1c2a4e-0000-4000-8000-000000000002", "abcdefghijklmnopqrst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator("test-secret", time.Hour)
			tokenStr, err := gen.GenerateToken(tt.accountID, tt.username)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			token, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (interface{}, error) {
				if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
					t.Errorf("unexpected signing method: %v", tok.Header["alg"])
				}
				return []byte("test-secret"), nil
			})
			if err != nil {
				t.Fatalf("failed to parse token: %v", err)
			}
			if !token.Valid {
				t.Error("expected token to be valid")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				t.Fatal("expected MapClaims")
			}
			if sub, ok := claims["sub"].(string); !ok || sub != tt.accountID {
				t.Errorf("expected sub %q, got %v", tt.accountID, claims["sub"])
			}
			if username, ok := claims["username"].(string); !ok || username != tt.username {
				t.Errorf("expected username %q, got %v", tt.username, claims["username"])
			}
			if _, ok := claims["iat"]; !ok {
				t.Error("expected iat claim to be set")
			}
		})
	}
}

// TestGenerator_GenerateToken_Expiration はトークンのexpクレームが正しい時刻範囲内であることを検証します。
func TestGenerator_GenerateToken_Expiration(t *testing.T) {
	t.Parallel()

	expiration := 2 * time.Hour
	gen := NewGenerator("test-secret", expiration)

	before := time.Now().Truncate(time.Second)
	tokenStr, err := gen.GenerateToken("acc-1", "user1")
	after := time.Now().Truncate(time.Second).Add(time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, _ := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	claims := token.Claims.(jwt.MapClaims)

	expUnix := int64(claims["exp"].(float64))
	if expUnix < before.Add(expiration).Unix() || expUnix > after.Add(expiration).Unix() {
		t.Errorf("exp %d not in expected range", expUnix)
	}
}

// TestLoadConfigFromEnv は環境変数からJWT設定が読み込まれ、不正なTTLはデフォルトになることを検証します。
func TestLoadConfigFromEnv(t *testing.T) {
	tests := []struct {
		name        string
		ttl         string
		expectedTTL time.Duration
	}{
		{"custom ttl", "15m", 15 * time.Minute},
		{"unset ttl", "", time.Hour},
		{"invalid ttl", "soon", time.Hour},
		{"negative ttl", "-5m", time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvKeyJWTSecret, "env-secret")
			t.Setenv(EnvKeyJWTTTL, tt.ttl)

			cfg := LoadConfigFromEnv()

			if cfg.Secret != "env-secret" {
				t.Errorf("expected secret 'env-secret', got %q", cfg.Secret)
			}
			if cfg.TTL != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, cfg.TTL)
			}
		})
	}
}
