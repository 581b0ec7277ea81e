package handler

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/soulelevate/internal/metrics"
	"github.com/hitoshi/soulelevate/internal/middleware"
	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/security"
	"github.com/hitoshi/soulelevate/internal/storage"
)

// ChallengeHandler はチャレンジのHTTPハンドラー。
type ChallengeHandler struct {
	responder
	store     storage.ChallengeStore
	sanitizer security.TextSanitizer
}

// NewChallengeHandler はChallengeHandlerを生成する。
func NewChallengeHandler(store storage.ChallengeStore, sanitizer security.TextSanitizer, logger *slog.Logger, collector metrics.MetricsCollector) *ChallengeHandler {
	return &ChallengeHandler{
		responder: newResponder(logger, collector),
		store:     store,
		sanitizer: sanitizer,
	}
}

// List はチャレンジ一覧を返す。categoryクエリで絞り込める。
// GET /api/challenges?category=
func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	category, ok := parseCategory(w, r)
	if !ok {
		return
	}

	var (
		challenges []model.Challenge
		err        error
	)
	if category == "" {
		challenges, err = h.store.GetAllChallenges(r.Context())
	} else {
		challenges, err = h.store.GetChallengesByCategory(r.Context(), category)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, challenges)
}

// Get は指定IDのチャレンジを返す。
// GET /api/challenges/{id}
func (h *ChallengeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	c, err := h.store.GetChallengeByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if c == nil {
		middleware.WriteAPIError(w, model.NewChallengeNotFoundError())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Create はチャレンジを作成する。
// POST /api/challenges
func (h *ChallengeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.NewChallenge
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.store.CreateChallenge(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Update はチャレンジを部分更新する。stepsを指定した場合は全置換になる。
// PUT /api/challenges/{id}
func (h *ChallengeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var patch model.ChallengePatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := patch.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.store.UpdateChallenge(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if c == nil {
		middleware.WriteAPIError(w, model.NewChallengeNotFoundError())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete はチャレンジを削除する。
// DELETE /api/challenges/{id}
func (h *ChallengeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	deleted, err := h.store.DeleteChallenge(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !deleted {
		middleware.WriteAPIError(w, model.NewChallengeNotFoundError())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Generate はパーソナライズドチャレンジを生成して保存する。
// 興味と目標は生成テンプレートに埋め込まれるため、マークアップを除去してから渡す。
// POST /api/challenges/generate
func (h *ChallengeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var in model.ChallengeInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Interests = security.SanitizeAll(h.sanitizer, in.Interests)
	in.Goals = security.SanitizeAll(h.sanitizer, in.Goals)

	c, err := h.store.GeneratePersonalizedChallenge(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.metrics.RecordChallengeGenerated(string(c.Category), string(c.Difficulty))
	writeJSON(w, http.StatusCreated, c)
}
