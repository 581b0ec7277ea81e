package handler

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/soulelevate/internal/metrics"
	"github.com/hitoshi/soulelevate/internal/middleware"
	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

// TipHandler はヒントのHTTPハンドラー。
type TipHandler struct {
	responder
	store storage.TipStore
}

// NewTipHandler はTipHandlerを生成する。
func NewTipHandler(store storage.TipStore, logger *slog.Logger, collector metrics.MetricsCollector) *TipHandler {
	return &TipHandler{responder: newResponder(logger, collector), store: store}
}

// List はヒント一覧を返す。categoryクエリで絞り込める。
// GET /api/tips?category=
func (h *TipHandler) List(w http.ResponseWriter, r *http.Request) {
	category, ok := parseCategory(w, r)
	if !ok {
		return
	}

	var (
		tips []model.Tip
		err  error
	)
	if category == "" {
		tips, err = h.store.GetAllTips(r.Context())
	} else {
		tips, err = h.store.GetTipsByCategory(r.Context(), category)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tips)
}

// Get は指定IDのヒントを返す。
// GET /api/tips/{id}
func (h *TipHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	tip, err := h.store.GetTipByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if tip == nil {
		middleware.WriteAPIError(w, model.NewTipNotFoundError())
		return
	}
	writeJSON(w, http.StatusOK, tip)
}

// Create はヒントを作成する。
// POST /api/tips
func (h *TipHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.NewTip
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}
	tip, err := h.store.CreateTip(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tip)
}

// Update はヒントを部分更新する。
// PUT /api/tips/{id}
func (h *TipHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var patch model.TipPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := patch.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}
	tip, err := h.store.UpdateTip(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if tip == nil {
		middleware.WriteAPIError(w, model.NewTipNotFoundError())
		return
	}
	writeJSON(w, http.StatusOK, tip)
}

// Delete はヒントを削除する。
// DELETE /api/tips/{id}
func (h *TipHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	deleted, err := h.store.DeleteTip(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !deleted {
		middleware.WriteAPIError(w, model.NewTipNotFoundError())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
