package di

import (
	"gorm.io/gorm"

	"signup_backend/internal/feature/account/adapters"
	"signup_backend/internal/feature/account/transport/handler"
	"signup_backend/internal/feature/account/usecase"
	"signup_backend/internal/feature/account/validation"
	jwtmw "signup_backend/internal/platform/jwt"
	"signup_backend/internal/platform/password"
)

// AccountHandlers bundles the HTTP handlers of the account feature.
type AccountHandlers struct {
	Signup *handler.SignupHandler
	Auth   *handler.AuthHandler
}

// NewAccountHandlers wires the account feature from a database connection and JWT settings.
func NewAccountHandlers(db *gorm.DB, hasher *password.BcryptHasher, jwtCfg jwtmw.Config) *AccountHandlers {
	repo := adapters.NewAccountRepository(db)
	signupUC := usecase.NewSignupUsecase(repo, hasher, validation.New())
	authUC := usecase.NewAuthUsecase(repo, hasher, jwtmw.NewGenerator(jwtCfg.Secret, jwtCfg.TTL))

	return &AccountHandlers{
		Signup: handler.NewSignupHandler(signupUC),
		Auth:   handler.NewAuthHandler(authUC),
	}
}
