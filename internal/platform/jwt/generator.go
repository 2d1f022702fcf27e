// Package jwtmw issues and verifies the HS256 access tokens handed out at login.
package jwtmw

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// EnvKeyJWTSecret is the environment variable holding the HMAC signing secret.
	EnvKeyJWTSecret = "JWT_SECRET"
	// EnvKeyJWTTTL is the environment variable holding the token lifetime (time.ParseDuration syntax).
	EnvKeyJWTTTL = "JWT_TTL"

	defaultTTL = time.Hour
)

// Config holds token signing settings.
type Config struct {
	Secret string
	TTL    time.Duration
}

// LoadConfigFromEnv reads JWT_SECRET and JWT_TTL. An unset or invalid TTL falls back to one hour.
func LoadConfigFromEnv() Config {
	ttl, err := time.ParseDuration(os.Getenv(EnvKeyJWTTTL))
	if err != nil || ttl <= 0 {
		ttl = defaultTTL
	}
	return Config{
		Secret: os.Getenv(EnvKeyJWTSecret),
		TTL:    ttl,
	}
}

// generator signs access tokens for accounts.
type generator struct {
	secret     []byte
	expiration time.Duration
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) *generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// GenerateToken creates a signed JWT whose subject is the account ID.
func (g *generator) GenerateToken(accountID, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      accountID,
		"exp":      now.Add(g.expiration).Unix(),
		"iat":      now.Unix(),
		"username": username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
