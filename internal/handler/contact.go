package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/soulelevate/internal/metrics"
	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/security"
	"github.com/hitoshi/soulelevate/internal/storage"
)

// ContactHandler はお問い合わせとニュースレター購読のHTTPハンドラー。
type ContactHandler struct {
	responder
	messages    storage.ContactStore
	subscribers storage.SubscriberStore
	sanitizer   security.TextSanitizer
}

// NewContactHandler はContactHandlerを生成する。
func NewContactHandler(messages storage.ContactStore, subscribers storage.SubscriberStore, sanitizer security.TextSanitizer, logger *slog.Logger, collector metrics.MetricsCollector) *ContactHandler {
	return &ContactHandler{
		responder:   newResponder(logger, collector),
		messages:    messages,
		subscribers: subscribers,
		sanitizer:   sanitizer,
	}
}

// Contact はお問い合わせを受け付ける。名前と本文はマークアップを除去して保存する。
// POST /api/contact
func (h *ContactHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var in model.NewContactMessage
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Name = h.sanitizer.SanitizeText(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = h.sanitizer.SanitizeText(in.Message)
	if err := in.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	msg, err := h.messages.CreateContactMessage(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// Subscribe はニュースレター購読を登録する。登録済みのemailは既存レコードを返す。
// POST /api/subscribe
func (h *ContactHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var in model.NewSubscriber
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	sub, err := h.subscribers.AddSubscriber(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}
