package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/soulelevate/internal/metrics"
	"github.com/hitoshi/soulelevate/internal/middleware"
	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/security"
	"github.com/hitoshi/soulelevate/internal/storage"
)

// MediaHandler はメディアのHTTPハンドラー。
type MediaHandler struct {
	responder
	store storage.MediaStore
}

// NewMediaHandler はMediaHandlerを生成する。
func NewMediaHandler(store storage.MediaStore, logger *slog.Logger, collector metrics.MetricsCollector) *MediaHandler {
	return &MediaHandler{responder: newResponder(logger, collector), store: store}
}

// List はメディア一覧を返す。typeクエリで絞り込める。
// GET /api/media?type=
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("type")

	var (
		items []model.Media
		err   error
	)
	if raw == "" {
		items, err = h.store.GetAllMedia(r.Context())
	} else {
		mediaType, ok := parseMediaType(w, raw)
		if !ok {
			return
		}
		items, err = h.store.GetMediaByType(r.Context(), mediaType)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Featured は指定typeの注目メディアを返す。
// GET /api/media/featured/{type}
func (h *MediaHandler) Featured(w http.ResponseWriter, r *http.Request) {
	mediaType, ok := parseMediaType(w, chi.URLParam(r, "type"))
	if !ok {
		return
	}
	item, err := h.store.GetFeaturedMedia(r.Context(), mediaType)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if item == nil {
		middleware.WriteAPIError(w, model.NewMediaNotFoundError())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Get は指定IDのメディアを返す。
// GET /api/media/{id}
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	item, err := h.store.GetMediaByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if item == nil {
		middleware.WriteAPIError(w, model.NewMediaNotFoundError())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Create はメディアを作成する。
// POST /api/media
func (h *MediaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.NewMedia
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := validateMediaURLs(&in.URL, &in.Thumbnail); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.store.CreateMedia(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Update はメディアを部分更新する。
// PUT /api/media/{id}
func (h *MediaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var patch model.MediaPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := patch.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := validateMediaURLs(patch.URL, patch.Thumbnail); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.store.UpdateMedia(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if item == nil {
		middleware.WriteAPIError(w, model.NewMediaNotFoundError())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete はメディアを削除する。
// DELETE /api/media/{id}
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	deleted, err := h.store.DeleteMedia(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !deleted {
		middleware.WriteAPIError(w, model.NewMediaNotFoundError())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validateMediaURLs はメディアURLとサムネイルURLを検証する。nilと空のサムネイルは検証しない。
func validateMediaURLs(mediaURL, thumbnail *string) error {
	if mediaURL != nil {
		if err := security.ValidateMediaURL(*mediaURL); err != nil {
			return model.NewValidationError("url", err.Error())
		}
	}
	if thumbnail != nil && *thumbnail != "" {
		if err := security.ValidateMediaURL(*thumbnail); err != nil {
			return model.NewValidationError("thumbnail", err.Error())
		}
	}
	return nil
}
