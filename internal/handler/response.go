// Package handler はREST APIのHTTPハンドラーとルーティングを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/soulelevate/internal/metrics"
	"github.com/hitoshi/soulelevate/internal/middleware"
	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

// maxBodyBytes はリクエストボディの上限サイズ。
const maxBodyBytes = 1 << 20

// responder はハンドラー共通のレスポンス処理を提供する。
type responder struct {
	logger  *slog.Logger
	metrics metrics.MetricsCollector
}

func newResponder(logger *slog.Logger, collector metrics.MetricsCollector) responder {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.Nop{}
	}
	return responder{logger: logger, metrics: collector}
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON はリクエストボディをデコードする。失敗時はINVALID_REQUESTを書き込みfalseを返す。
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		middleware.WriteAPIError(w, model.NewInvalidRequestError())
		return false
	}
	return true
}

// parseID はURLパラメータ{id}を正の整数として解析する。失敗時はINVALID_IDを書き込みfalseを返す。
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		middleware.WriteAPIError(w, model.NewInvalidIDError(raw))
		return 0, false
	}
	return id, true
}

// parseCategory はクエリパラメータcategoryを解析する。未指定なら空とtrueを返す。
func parseCategory(w http.ResponseWriter, r *http.Request) (model.Category, bool) {
	raw := r.URL.Query().Get("category")
	if raw == "" {
		return "", true
	}
	c := model.Category(raw)
	if !c.Valid() {
		middleware.WriteAPIError(w, model.NewInvalidCategoryError(raw))
		return "", false
	}
	return c, true
}

// parseMediaType はmediaTypeが有効なメディア種別かを検証する。
func parseMediaType(w http.ResponseWriter, raw string) (model.MediaType, bool) {
	t := model.MediaType(raw)
	if !t.Valid() {
		middleware.WriteAPIError(w, model.NewInvalidMediaTypeError(raw))
		return "", false
	}
	return t, true
}

// fail はストレージやバリデーションのエラーを適切なHTTPステータスコードに変換する。
// BackendErrorはメトリクスに記録し、利用者にはINTERNAL_ERRORのみを返す。
func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteAPIError(w, apiErr)
		return
	}

	var backendErr *storage.BackendError
	if errors.As(err, &backendErr) {
		rs.metrics.RecordStoreError(backendErr.Op, backendErr.Entity)
	}

	// 詳細はログのみに記録し、利用者には一般的なメッセージを返す
	rs.logger.Error("internal server error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
	)
	middleware.WriteInternalServerError(w)
}
