// Package validation implements the signup field rules shared by the signup
// handler, the registrar and the availability check.
package validation

import (
	"errors"
	"html"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	// bcrypt ignores input past 72 bytes, so longer passwords are rejected instead of silently truncated.
	maxPasswordBytes = 72

	usernameRules = "required,min=3,max=20,alphanum"
	emailRules    = "required,min=5,max=50,signup_email"
)

// emailPart excludes "@" and everything a browser's \s matches: ASCII whitespace,
// Unicode space separators and the BOM.
const emailPart = `[^\s\v\p{Z}\x{FEFF}@]+`

// emailPattern is the local@domain.tld shape the signup form has always accepted.
var emailPattern = regexp.MustCompile(`^` + emailPart + `@` + emailPart + `\.` + emailPart + `$`)

// SignupRequest holds the raw signup fields as submitted.
type SignupRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=20,alphanum"`
	Email           string `json:"email" validate:"required,min=5,max=50,signup_email"`
	Password        string `json:"password" validate:"required,min=10,bcrypt_max,password_strength"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

// NormalizedRequest is a SignupRequest that passed every rule.
// Username and Email are trimmed, Email is lower-cased. Password is untouched.
type NormalizedRequest struct {
	Username string
	Email    string
	Password string
}

// Validator checks signup fields. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New はサインアップ用の独自ルールを登録したValidatorを生成します。
func New() *Validator {
	v := validator.New()

	// Violations are reported under the wire names of the fields.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("signup_email", func(fl validator.FieldLevel) bool {
		email := fl.Field().String()
		// regexp reads invalid bytes as U+FFFD, which the pattern would accept
		return utf8.ValidString(email) && emailPattern.MatchString(email)
	})
	_ = v.RegisterValidation("bcrypt_max", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})
	_ = v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		return hasRequiredClasses(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate はreqを正規化して全フィールドを検証し、違反をすべて収集します。
// 失敗時のエラーは*ValidationErrorです。
func (v *Validator) Validate(req SignupRequest) (NormalizedRequest, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	err := v.v.Struct(req)
	if err == nil {
		return NormalizedRequest{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		}, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NormalizedRequest{}, err
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, Violation{
			Field:  fe.Field(),
			Reason: reasonFor(fe.Field(), fe.Tag()),
		})
	}
	return NormalizedRequest{}, &ValidationError{Violations: suppressConfirmation(violations)}
}

// ValidateUsername checks a single username. It returns nil when the value is acceptable.
func (v *Validator) ValidateUsername(username string) []Violation {
	return v.checkVar(FieldUsername, strings.TrimSpace(username), usernameRules)
}

// ValidateEmail checks a single email address. It returns nil when the value is acceptable.
func (v *Validator) ValidateEmail(email string) []Violation {
	return v.checkVar(FieldEmail, NormalizeEmail(email), emailRules)
}

func (v *Validator) checkVar(field, value, rules string) []Violation {
	err := v.v.Var(value, rules)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return []Violation{{Field: field, Reason: "invalid value"}}
	}
	return []Violation{{Field: field, Reason: reasonFor(field, fieldErrs[0].Tag())}}
}

// NormalizeEmail trims and lower-cases an email address the same way Validate does.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EscapeForDisplay はユーザー入力を表示する前にHTMLエスケープします。
func EscapeForDisplay(s string) string {
	return html.EscapeString(s)
}

// suppressConfirmation はパスワード自体が不正な場合、確認用パスワードの不一致を取り除きます。
func suppressConfirmation(violations []Violation) []Violation {
	passwordInvalid := false
	for _, v := range violations {
		if v.Field == FieldPassword {
			passwordInvalid = true
			break
		}
	}
	if !passwordInvalid {
		return violations
	}
	out := violations[:0]
	for _, v := range violations {
		if v.Field != FieldConfirmPassword {
			out = append(out, v)
		}
	}
	return out
}

// hasRequiredClasses reports whether s has a letter, a digit and a special character.
// Underscore counts as a word character, not a special one.
func hasRequiredClasses(s string) bool {
	var letter, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		case r != '_':
			special = true
		}
	}
	return letter && digit && special
}
