package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/xela07ax/incentive-bridge/internal/domain"
	"github.com/xela07ax/incentive-bridge/internal/metrics"
)

// Заголовок с общим секретом автоматизации.
const secretHeader = "x-webhook-secret"

// RecordStore — что вебхуку нужно от record store.
type RecordStore interface {
	Fetch(ctx context.Context, id string) (domain.Record, error)
	Patch(ctx context.Context, id string, fields map[string]any) error
}

// ChatGateway — что вебхуку нужно от чат-платформы.
type ChatGateway interface {
	ResolveChannel() error
	PostCard(rec domain.Record) (string, error)
}

// WebhookHandler — входная точка конечного автомата: webhook автоматизации
// переводит запись в Pending и публикует карточку согласования.
type WebhookHandler struct {
	secret  []byte
	store   RecordStore
	chat    ChatGateway
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewWebhookHandler(secret string, store RecordStore, chat ChatGateway, logger *zap.Logger, m *metrics.Metrics) *WebhookHandler {
	return &WebhookHandler{
		secret:  []byte(secret),
		store:   store,
		chat:    chat,
		logger:  logger.Named("webhook"),
		metrics: m,
	}
}

type webhookRequest struct {
	RecordID string `json:"recordId"`
}

type webhookResponse struct {
	MessageID string `json:"messageId"`
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// 1. Секрет сверяем в константное время; до аутентификации апстримы не трогаем
	provided := []byte(r.Header.Get(secretHeader))
	if subtle.ConstantTimeCompare(provided, h.secret) != 1 {
		h.metrics.WebhookRequests.WithLabelValues("unauthorized").Inc()
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	// 2. Валидация тела: без id записи делать нечего
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RecordID == "" {
		h.metrics.WebhookRequests.WithLabelValues("bad_request").Inc()
		http.Error(w, "recordId is required", http.StatusBadRequest)
		return
	}

	log := h.logger.With(
		zap.String("record_id", req.RecordID),
		zap.String("trace_id", TraceID(r.Context())),
	)

	// 3. Читаем запись; ошибка store фатальна для этого вызова
	rec, err := h.store.Fetch(r.Context(), req.RecordID)
	if err != nil {
		log.Error("record fetch failed", zap.Error(err))
		h.metrics.WebhookRequests.WithLabelValues("upstream_error").Inc()
		h.metrics.UpstreamErrors.WithLabelValues("airtable", "fetch").Inc()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// 4. Best-effort: Pending — индикатор для внешних наблюдателей, не условие
	// продолжения. Ошибка сознательно гасится здесь, один раз, с логом.
	if err := h.store.Patch(r.Context(), req.RecordID, map[string]any{
		domain.FieldStatus: string(domain.StatusPending),
	}); err != nil {
		log.Warn("discarding pending status patch failure", zap.Error(err))
		h.metrics.UpstreamErrors.WithLabelValues("airtable", "patch").Inc()
	}

	// 5. Канал должен существовать и принимать сообщения
	if err := h.chat.ResolveChannel(); err != nil {
		log.Error("destination channel unavailable", zap.Error(err))
		h.metrics.WebhookRequests.WithLabelValues("channel_error").Inc()
		h.metrics.UpstreamErrors.WithLabelValues("discord", "channel").Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// 6. Публикуем карточку и возвращаем id сообщения
	msgID, err := h.chat.PostCard(rec)
	if err != nil {
		log.Error("card post failed", zap.Error(err))
		h.metrics.WebhookRequests.WithLabelValues("upstream_error").Inc()
		h.metrics.UpstreamErrors.WithLabelValues("discord", "post").Inc()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.metrics.WebhookRequests.WithLabelValues("ok").Inc()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(webhookResponse{MessageID: msgID})
}
