// Package handler はプラットフォームレベルのエンドポイント（/healthz, /readyz）用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// readyTimeout はレディネスチェック1回あたりの上限時間です。
const readyTimeout = 2 * time.Second

// Pinger はデータベース接続の疎通確認を行います。*sql.DBが満たします。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health は /healthz のライブネスチェックを処理します。
// データベースには触れず、プロセスが応答できることだけを示します。
func Health(c *gin.Context) {
	noStore(c)

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Ready は /readyz エンドポイントのハンドラーを返します。
// データベースに到達できない場合は503を返し、ロードバランサーがトラフィックを外せるようにします。
func Ready(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		noStore(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			slog.Warn("readiness check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

// プローブ結果をプロキシにキャッシュさせない
func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
}
