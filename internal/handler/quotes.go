package handler

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/soulelevate/internal/metrics"
	"github.com/hitoshi/soulelevate/internal/middleware"
	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

// QuoteHandler は名言のHTTPハンドラー。
type QuoteHandler struct {
	responder
	store storage.QuoteStore
}

// NewQuoteHandler はQuoteHandlerを生成する。
func NewQuoteHandler(store storage.QuoteStore, logger *slog.Logger, collector metrics.MetricsCollector) *QuoteHandler {
	return &QuoteHandler{responder: newResponder(logger, collector), store: store}
}

// List は全名言を返す。
// GET /api/quotes
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.store.GetAllQuotes(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

// Featured は注目の名言を返す。
// GET /api/quotes/featured
func (h *QuoteHandler) Featured(w http.ResponseWriter, r *http.Request) {
	quote, err := h.store.GetFeaturedQuote(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if quote == nil {
		middleware.WriteAPIError(w, model.NewQuoteNotFoundError())
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// Get は指定IDの名言を返す。
// GET /api/quotes/{id}
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	quote, err := h.store.GetQuoteByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if quote == nil {
		middleware.WriteAPIError(w, model.NewQuoteNotFoundError())
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// Create は名言を作成する。
// POST /api/quotes
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.NewQuote
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}
	quote, err := h.store.CreateQuote(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, quote)
}

// Update は名言を部分更新する。
// PUT /api/quotes/{id}
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var patch model.QuotePatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := patch.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}
	quote, err := h.store.UpdateQuote(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if quote == nil {
		middleware.WriteAPIError(w, model.NewQuoteNotFoundError())
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// Delete は名言を削除する。
// DELETE /api/quotes/{id}
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	deleted, err := h.store.DeleteQuote(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !deleted {
		middleware.WriteAPIError(w, model.NewQuoteNotFoundError())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
