// Package handler はaccountフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"signup_backend/internal/feature/account/domain"
	"signup_backend/internal/feature/account/transport/http/dto"
	"signup_backend/internal/feature/account/usecase"
	"signup_backend/internal/feature/account/validation"
)

const (
	msgSignupSuccessful = "Signup successful!"
	msgDuplicateAccount = "Username or email already exists."
	msgSignupFailed     = "signup failed, please try again later"
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// SignupUsecase はサインアップ操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type SignupUsecase interface {
	// Register は入力を検証し、新しいアカウントを登録してIDを返します。
	Register(ctx context.Context, req validation.SignupRequest) (string, error)
	// CheckAvailability はユーザー名とメールアドレスがまだ登録可能かどうかを返します。
	CheckAvailability(ctx context.Context, username, email string) (*usecase.Availability, error)
}

// SignupHandler はサインアップフォームのHTTPリクエストを処理します。
type SignupHandler struct {
	signup SignupUsecase
}

// NewSignupHandler はSignupHandlerの新しいインスタンスを生成します。
func NewSignupHandler(signup SignupUsecase) *SignupHandler {
	return &SignupHandler{signup: signup}
}

// Signup はアカウント登録APIエンドポイントを処理します。
// - フォームまたはJSONをSignupReqにバインド（デコード不能なら400）
// - 入力規則違反は422と違反一覧を返却
// - ユーザー名またはメールアドレスの重複は409を返却
// - ストレージ障害は500を返却（詳細はログのみ）
// - 成功時は201を返却
func (h *SignupHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("signup request could not be decoded", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgInvalidRequest})
		return
	}

	id, err := h.signup.Register(c.Request.Context(), req.ToValidation())
	if err != nil {
		var verr *validation.ValidationError
		switch {
		case errors.As(err, &verr):
			slog.Info("signup rejected", "fields", verr.Fields(), "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorRes{
				Error:      msgValidationFailed,
				Violations: verr.Violations,
			})
		case errors.Is(err, domain.ErrDuplicateAccount):
			slog.Info("signup conflict", "remote_addr", c.ClientIP())
			c.JSON(http.StatusConflict, dto.ErrorRes{Error: msgDuplicateAccount})
		default:
			// 内部エラーの詳細はクライアントに公開しない
			slog.Error("signup failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgSignupFailed})
		}
		return
	}

	slog.Info("signup successful", "account_id", id, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.SignupRes{Message: msgSignupSuccessful, AccountID: id})
}

// Availability reports whether the queried username and/or email are still free.
// Values that fail validation come back unavailable with their violations.
func (h *SignupHandler) Availability(c *gin.Context) {
	var q dto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil || (q.Username == "" && q.Email == "") {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgInvalidRequest})
		return
	}

	got, err := h.signup.CheckAvailability(c.Request.Context(), q.Username, q.Email)
	if err != nil {
		slog.Error("availability check failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgSignupFailed})
		return
	}

	var res dto.AvailabilityRes
	if got.Username != nil {
		res.UsernameAvailable = &got.Username.Available
		res.Violations = append(res.Violations, got.Username.Violations...)
	}
	if got.Email != nil {
		res.EmailAvailable = &got.Email.Available
		res.Violations = append(res.Violations, got.Email.Violations...)
	}
	c.JSON(http.StatusOK, res)
}
