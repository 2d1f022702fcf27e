package dto

// LoginReq は/loginエンドポイントのリクエストボディを表します。
// ユーザー名またはメールアドレスのどちらでもログインできます。
type LoginReq struct {
	UsernameOrEmail string `form:"username_or_email" json:"username_or_email" binding:"required"`
	Password        string `form:"password" json:"password" binding:"required"`
}
