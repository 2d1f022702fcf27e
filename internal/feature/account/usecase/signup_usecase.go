// Package usecase implements the business logic for the account feature.
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"signup_backend/internal/feature/account/domain"
	"signup_backend/internal/feature/account/domain/entity"
	"signup_backend/internal/feature/account/validation"
)

// AccountRepository abstracts the persistence layer for accounts.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type AccountRepository interface {
	// CreateUnique inserts account unless another account already uses its username or email.
	// The check and the insert run as one atomic unit; a concurrent duplicate is reported
	// as domain.ErrDuplicateAccount, never as a generic storage error.
	CreateUnique(ctx context.Context, account *entity.Account) error

	// FindByID returns domain.ErrAccountNotFound when no account has the ID.
	FindByID(ctx context.Context, id string) (*entity.Account, error)

	// FindByLogin looks an account up by username or by email.
	// It returns domain.ErrAccountNotFound when neither matches.
	FindByLogin(ctx context.Context, username, email string) (*entity.Account, error)

	// ExistsByUsername reports whether an account uses username.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether an account uses email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// PasswordHasher derives and checks adaptive password hashes.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// FieldAvailability is the availability verdict for one submitted field.
type FieldAvailability struct {
	Available  bool
	Violations []validation.Violation
}

// Availability answers an availability check. A nil field was not asked about.
type Availability struct {
	Username *FieldAvailability
	Email    *FieldAvailability
}

// signupUsecase はサインアップ要求を検証し、アカウントを作成します。
type signupUsecase struct {
	accounts  AccountRepository
	hasher    PasswordHasher
	validator *validation.Validator
	newID     func() string
}

// NewSignupUsecase はsignupUsecaseの新しいインスタンスを生成します。
func NewSignupUsecase(accounts AccountRepository, hasher PasswordHasher, v *validation.Validator) *signupUsecase {
	return &signupUsecase{
		accounts:  accounts,
		hasher:    hasher,
		validator: v,
		newID:     uuid.NewString,
	}
}

// Register は入力を検証し、パスワードをハッシュ化して新しいアカウントを保存します。
// 戻り値のエラーは*validation.ValidationError、domain.ErrDuplicateAccount、domain.ErrStorageのいずれかです。
// ハッシュ化やストレージの失敗原因はここでログに出し、呼び出し元には返しません。
func (u *signupUsecase) Register(ctx context.Context, req validation.SignupRequest) (string, error) {
	// The client runs the same rules for UX only; this check is authoritative.
	normalized, err := u.validator.Validate(req)
	if err != nil {
		return "", err
	}

	// Hash before touching the database so no transaction is held open during bcrypt.
	hashed, err := u.hasher.Hash(normalized.Password)
	if err != nil {
		slog.ErrorContext(ctx, "password hashing failed", "error", err, "username", normalized.Username)
		return "", domain.ErrStorage
	}

	account := &entity.Account{
		ID:           u.newID(),
		Username:     normalized.Username,
		Email:        normalized.Email,
		PasswordHash: hashed,
	}
	if err := u.accounts.CreateUnique(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			return "", domain.ErrDuplicateAccount
		}
		slog.ErrorContext(ctx, "account insert failed", "error", err, "username", account.Username)
		return "", domain.ErrStorage
	}

	slog.InfoContext(ctx, "account created", "account_id", account.ID, "username", account.Username)
	return account.ID, nil
}

// CheckAvailability はユーザー名とメールアドレスがまだ登録可能かどうかを返します。
// 空の引数はスキップし、検証に失敗した値はDBを参照しません。
func (u *signupUsecase) CheckAvailability(ctx context.Context, username, email string) (*Availability, error) {
	out := &Availability{}
	username = strings.TrimSpace(username)
	email = validation.NormalizeEmail(email)

	if username != "" {
		fa := &FieldAvailability{Violations: u.validator.ValidateUsername(username)}
		if len(fa.Violations) == 0 {
			exists, err := u.accounts.ExistsByUsername(ctx, username)
			if err != nil {
				slog.ErrorContext(ctx, "username lookup failed", "error", err)
				return nil, domain.ErrStorage
			}
			fa.Available = !exists
		}
		out.Username = fa
	}

	if email != "" {
		fa := &FieldAvailability{Violations: u.validator.ValidateEmail(email)}
		if len(fa.Violations) == 0 {
			exists, err := u.accounts.ExistsByEmail(ctx, email)
			if err != nil {
				slog.ErrorContext(ctx, "email lookup failed", "error", err)
				return nil, domain.ErrStorage
			}
			fa.Available = !exists
		}
		out.Email = fa
	}

	return out, nil
}
