// Package dto defines data transfer objects for the account feature's HTTP transport layer.
package dto

import "signup_backend/internal/feature/account/validation"

// SignupReq represents the body of POST /signup.
// It binds from a URL-encoded or multipart form as well as from JSON.
// Field rules are enforced by the validation package, not by binding tags.
type SignupReq struct {
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword"`
}

// ToValidation converts the request into the validation input.
func (r SignupReq) ToValidation() validation.SignupRequest {
	return validation.SignupRequest{
		Username:        r.Username,
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
	}
}

// AvailabilityQuery represents the query of GET /signup/availability.
type AvailabilityQuery struct {
	Username string `form:"username"`
	Email    string `form:"email"`
}
