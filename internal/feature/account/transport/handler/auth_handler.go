package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"signup_backend/internal/feature/account/domain"
	"signup_backend/internal/feature/account/domain/entity"
	"signup_backend/internal/feature/account/transport/http/dto"
	"signup_backend/internal/feature/account/validation"
	jwtmw "signup_backend/internal/platform/jwt"
)

// AuthUsecase は認証操作のユースケースを定義します。
type AuthUsecase interface {
	// Login はアカウントを認証し、成功時にJWTトークンを返します。
	Login(ctx context.Context, login, password string) (string, error)
	// Profile はIDでアカウントを取得します。
	Profile(ctx context.Context, accountID string) (*entity.Account, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login はログインAPIエンドポイントを処理します。
// - リクエストをLoginReqにバインド（失敗時は400）
// - 認証失敗時は理由にかかわらず401を返却
// - 認証成功時はJWTトークン付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgInvalidRequest})
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		// アカウント列挙攻撃を防止するため、実際のエラーを公開しない
		slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: domain.ErrInvalidCredentials.Error()})
		return
	}
	slog.Info("login successful", "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.TokenRes{Token: token})
}

// Me returns the profile of the account in the bearer token.
func (h *AuthHandler) Me(c *gin.Context) {
	accountID := c.GetString(jwtmw.ContextAccountID)
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "unauthorized"})
		return
	}

	account, err := h.auth.Profile(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "account not found"})
			return
		}
		slog.Error("profile lookup failed", "error", err, "account_id", accountID)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, dto.ProfileRes{
		ID:          account.ID,
		Username:    account.Username,
		DisplayName: validation.EscapeForDisplay(account.Username),
		Email:       account.Email,
		CreatedAt:   account.CreatedAt,
	})
}
