package dto

import (
	"time"

	"signup_backend/internal/feature/account/validation"
)

// ErrorRes is the body of every error response.
type ErrorRes struct {
	Error string `json:"error"`
}

// ValidationErrorRes is returned with 422 when one or more fields are rejected.
type ValidationErrorRes struct {
	Error      string                 `json:"error"`
	Violations []validation.Violation `json:"violations"`
}

// SignupRes is returned with 201 after an account was created.
type SignupRes struct {
	Message   string `json:"message"`
	AccountID string `json:"account_id"`
}

// AvailabilityRes reports which of the queried values could still be registered.
// Fields that were not queried are omitted.
type AvailabilityRes struct {
	UsernameAvailable *bool                  `json:"username_available,omitempty"`
	EmailAvailable    *bool                  `json:"email_available,omitempty"`
	Violations        []validation.Violation `json:"violations,omitempty"`
}

// TokenRes は/loginが成功したときのレスポンスです。
type TokenRes struct {
	Token string `json:"token"`
}

// ProfileRes is the body of GET /me. DisplayName is the username escaped for HTML.
type ProfileRes struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}
