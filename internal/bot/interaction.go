package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/xela07ax/incentive-bridge/internal/domain"
	"github.com/xela07ax/incentive-bridge/internal/metrics"
)

// RecordStore — что обработчику решений нужно от record store.
type RecordStore interface {
	Fetch(ctx context.Context, id string) (domain.Record, error)
	Patch(ctx context.Context, id string, fields map[string]any) error
}

// responder — жизненный цикл приватного ответа рецензенту: немедленный
// deferred-ack, затем единственная правка текста.
type responder interface {
	Defer() error
	Reply(text string) error
}

// cardEditor убирает кнопки с исходной карточки после терминального решения.
type cardEditor interface {
	RemoveControls() error
}

// InteractionHandler — терминальная точка конечного автомата: клик по кнопке
// переводит запись Pending -> Approved/Denied и гасит контролы карточки.
type InteractionHandler struct {
	store   RecordStore
	logger  *zap.Logger
	metrics *metrics.Metrics
	timeout time.Duration
}

func NewInteractionHandler(store RecordStore, logger *zap.Logger, m *metrics.Metrics) *InteractionHandler {
	return &InteractionHandler{
		store:   store,
		logger:  logger.Named("interactions"),
		metrics: m,
		timeout: 30 * time.Second,
	}
}

// Handle — колбэк discordgo на InteractionCreate.
func (h *InteractionHandler) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	ctl, err := domain.ParseControlID(i.MessageComponentData().CustomID)
	if err != nil {
		// Чужая кнопка — не наша интеракция
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.decide(ctx, ctl,
		&discordResponder{s: s, i: i.Interaction},
		&discordCardEditor{s: s, i: i},
	)
}

// decide применяет терминальный переход. Guard по текущему статусу —
// единственная защита от двойного клика; окно read-then-act между двумя
// почти одновременными активациями остается и принимается как есть.
func (h *InteractionHandler) decide(ctx context.Context, ctl domain.ControlID, resp responder, card cardEditor) {
	log := h.logger.With(
		zap.String("record_id", ctl.RecordID),
		zap.String("action", string(ctl.Action)),
	)

	// Ack сразу: дедлайн платформы на ответ короче похода в record store
	if err := resp.Defer(); err != nil {
		log.Error("failed to acknowledge interaction", zap.Error(err))
		return
	}

	rec, err := h.store.Fetch(ctx, ctl.RecordID)
	if err != nil {
		log.Error("record fetch failed", zap.Error(err))
		h.metrics.UpstreamErrors.WithLabelValues("airtable", "fetch").Inc()
		h.metrics.Decisions.WithLabelValues(string(ctl.Action), "error").Inc()
		h.reply(resp, log, "⚠️ Could not load the request: "+err.Error())
		return
	}

	status := rec.Status()
	next := ctl.Action.Decision()

	if err := status.CanTransitionTo(next); err != nil {
		log.Info("decision rejected, record already terminal", zap.String("status", string(status)))
		h.metrics.Decisions.WithLabelValues(string(ctl.Action), "already_decided").Inc()
		h.reply(resp, log, fmt.Sprintf("This request is already %s.", status))
		return
	}

	// Best-effort: отказ записи статуса не меняет исход для рецензента.
	// Ошибка сознательно гасится здесь, один раз, с логом.
	if err := h.store.Patch(ctx, ctl.RecordID, map[string]any{domain.FieldStatus: string(next)}); err != nil {
		log.Warn("discarding status patch failure", zap.Error(err))
		h.metrics.UpstreamErrors.WithLabelValues("airtable", "patch").Inc()
	}

	// Best-effort: снимаем кнопки, чтобы не провоцировать повторные клики
	if err := card.RemoveControls(); err != nil {
		log.Warn("discarding card edit failure", zap.Error(err))
		h.metrics.UpstreamErrors.WithLabelValues("discord", "edit").Inc()
	}

	h.metrics.Decisions.WithLabelValues(string(ctl.Action), "applied").Inc()
	log.Info("decision applied", zap.String("status", string(next)))
	h.reply(resp, log, decisionReply(next, ctl.RecordID))
}

// reply правит deferred-ответ; если интеракция уже не редактируется — только лог.
func (h *InteractionHandler) reply(resp responder, log *zap.Logger, text string) {
	if err := resp.Reply(text); err != nil {
		log.Warn("interaction reply failed", zap.Error(err))
	}
}

func decisionReply(status domain.ApprovalStatus, recordID string) string {
	if status == domain.StatusApproved {
		return fmt.Sprintf("✅ Approved — incentive request %s has been updated.", recordID)
	}
	return fmt.Sprintf("❌ Denied — incentive request %s has been updated.", recordID)
}

// --- discordgo-адаптеры ---

type discordResponder struct {
	s *discordgo.Session
	i *discordgo.Interaction
}

func (r *discordResponder) Defer() error {
	return r.s.InteractionRespond(r.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

func (r *discordResponder) Reply(text string) error {
	_, err := r.s.InteractionResponseEdit(r.i, &discordgo.WebhookEdit{Content: &text})
	return err
}

type discordCardEditor struct {
	s *discordgo.Session
	i *discordgo.InteractionCreate
}

// RemoveControls правит исходное сообщение карточки: embed остается, кнопки снимаются.
func (e *discordCardEditor) RemoveControls() error {
	if e.i.Message == nil {
		return nil
	}

	empty := []discordgo.MessageComponent{}
	_, err := e.s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         e.i.Message.ID,
		Channel:    e.i.ChannelID,
		Components: &empty,
	})
	return err
}
