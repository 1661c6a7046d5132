// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"meal_backend/internal/api"
)

// checkTimeout は依存先1件あたりの確認時間の上限です。
const checkTimeout = 2 * time.Second

// Check は依存先（Redis・DBなど）の疎通確認です。
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// HealthHandler は /healthz を処理します。
type HealthHandler struct {
	checks []Check
}

// NewHealthHandler はHealthHandlerの新しいインスタンスを生成します。
// checks が空の場合はプロセスの生存のみを返します。
func NewHealthHandler(checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// いずれかの依存先が失敗した場合は 503 を返します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}

	status, resp := h.run(c.Request.Context())
	if c.Request.Method == http.MethodHead {
		c.Status(status)
		return
	}
	c.JSON(status, resp)
}

func (h *HealthHandler) run(ctx context.Context) (int, api.HealthResponse) {
	resp := api.HealthResponse{Status: "ok"}
	if len(h.checks) == 0 {
		return http.StatusOK, resp
	}

	results := make(map[string]string, len(h.checks))
	status := http.StatusOK
	for _, chk := range h.checks {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := chk.Fn(cctx)
		cancel()
		if err != nil {
			results[chk.Name] = err.Error()
			status = http.StatusServiceUnavailable
			resp.Status = "degraded"
			continue
		}
		results[chk.Name] = "ok"
	}
	resp.Checks = &results
	return status, resp
}
