package validation

import (
	"fmt"
	"strings"
)

// Field names as they appear on the signup form.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

// Violation describes why one field failed validation.
// Reason is a fixed message and never contains the submitted value.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned when one or more fields fail validation.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// Has reports whether field has a violation.
func (e *ValidationError) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Fields returns the names of the failing fields in report order.
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		out = append(out, v.Field)
	}
	return out
}

var reasons = map[string]map[string]string{
	FieldUsername: {
		"required": "username is required",
		"min":      "username must be between 3 and 20 characters",
		"max":      "username must be between 3 and 20 characters",
		"alphanum": "username may only contain letters and digits",
	},
	FieldEmail: {
		"required":     "email is required",
		"min":          "email must be between 5 and 50 characters",
		"max":          "email must be between 5 and 50 characters",
		"signup_email": "email must look like name@example.com",
	},
	FieldPassword: {
		"required":          "password is required",
		"min":               "password must be at least 10 characters",
		"bcrypt_max":        "password must be at most 72 bytes",
		"password_strength": "password must contain at least one letter, one digit and one special character",
	},
	FieldConfirmPassword: {
		"eqfield": "passwords do not match",
	},
}

func reasonFor(field, tag string) string {
	if r, ok := reasons[field][tag]; ok {
		return r
	}
	return field + " is invalid"
}
