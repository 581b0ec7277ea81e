package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// healthCheckTimeout はバックエンド疎通確認のタイムアウト。
const healthCheckTimeout = 3 * time.Second

// Pinger はバックエンドへの疎通確認のインターフェース。
type Pinger interface {
	Ping(ctx context.Context) error
}

// healthResponse はヘルスチェックのレスポンス。
type healthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend,omitempty"`
}

// NewHealthHandler はGET /health用のハンドラーを返す。
// バックエンドに到達できない場合は503を返す。
func NewHealthHandler(pinger Pinger, backend string, logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := pinger.Ping(ctx); err != nil {
			logger.Warn("health check failed",
				slog.String("backend", backend),
				slog.String("error", err.Error()),
			)
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Backend: backend})
			return
		}
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Backend: backend})
	}
}
