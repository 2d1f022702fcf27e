package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"signup_backend/internal/feature/account/domain"
	"signup_backend/internal/feature/account/domain/entity"
	"signup_backend/internal/feature/account/validation"
)

// fallbackDummyHash is compared against when the account does not exist and
// the hasher could not produce a dummy hash of its own.
const fallbackDummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたアカウントの署名済みJWTトークンを生成します。
	GenerateToken(accountID, username string) (string, error)
}

// authUsecase はログインとプロフィール取得を実装します。
type authUsecase struct {
	accounts     AccountRepository
	hasher       PasswordHasher
	jwtGenerator JWTGenerator
	dummyHash    string
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// 存在しないアカウントでも比較コストを揃えるため、同じコストのダミーハッシュを一度だけ生成します。
func NewAuthUsecase(accounts AccountRepository, hasher PasswordHasher, jwtGenerator JWTGenerator) *authUsecase {
	dummy, err := hasher.Hash("timing-equalizer-password-1!")
	if err != nil {
		dummy = fallbackDummyHash
	}
	return &authUsecase{
		accounts:     accounts,
		hasher:       hasher,
		jwtGenerator: jwtGenerator,
		dummyHash:    dummy,
	}
}

// Login はユーザー名またはメールアドレスとパスワードでアカウントを認証し、JWTトークンを返します。
// アカウント未検出とパスワード不一致はどちらもdomain.ErrInvalidCredentialsになります。
func (u *authUsecase) Login(ctx context.Context, login, password string) (string, error) {
	login = strings.TrimSpace(login)
	account, err := u.accounts.FindByLogin(ctx, login, validation.NormalizeEmail(login))
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		slog.ErrorContext(ctx, "account lookup failed", "error", err)
		return "", domain.ErrStorage
	}

	// タイミング攻撃防止のため、アカウントの有無にかかわらず常に比較する
	passwordHash := u.dummyHash
	if err == nil {
		passwordHash = account.PasswordHash
	}
	matched := u.hasher.Compare(passwordHash, password)

	if err != nil || !matched {
		return "", domain.ErrInvalidCredentials
	}

	token, err := u.jwtGenerator.GenerateToken(account.ID, account.Username)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Profile はIDでアカウントを取得します。
func (u *authUsecase) Profile(ctx context.Context, accountID string) (*entity.Account, error) {
	account, err := u.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		slog.ErrorContext(ctx, "account lookup failed", "error", err, "account_id", accountID)
		return nil, domain.ErrStorage
	}
	return account, nil
}
