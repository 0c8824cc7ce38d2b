package bot

import (
	"context"
	"fmt"

	"github.com/avast/retry-go/v5"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/xela07ax/incentive-bridge/internal/card"
	"github.com/xela07ax/incentive-bridge/internal/domain"
	"github.com/xela07ax/incentive-bridge/internal/infra"
)

// Session — процессный ресурс чат-платформы с явным жизненным циклом:
// конструируется один раз в main и инжектится в обработчики.
type Session struct {
	dg        *discordgo.Session
	channelID string
	logger    *zap.Logger
}

func NewSession(cfg infra.DiscordConfig, logger *zap.Logger) (*Session, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	// Кнопочные интеракции приходят без привилегированных интентов
	dg.Identify.Intents = discordgo.IntentsGuilds

	return &Session{
		dg:        dg,
		channelID: cfg.ChannelID,
		logger:    logger.Named("discord"),
	}, nil
}

// Start открывает websocket-шлюз. Логин на старте ретраится: это bootstrap,
// а не вызов внутри воркфлоу, где каждый апстрим ходит ровно один раз.
func (s *Session) Start(ctx context.Context) error {
	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(5),
	)

	err := r.Do(func() error {
		if err := s.dg.Open(); err != nil {
			s.logger.Warn("gateway login failed, retrying", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}

	s.logger.Info("gateway session opened")
	return nil
}

func (s *Session) Stop() error {
	return s.dg.Close()
}

// RegisterInteractionHandler подписывает обработчик кнопок на события шлюза.
func (s *Session) RegisterInteractionHandler(h *InteractionHandler) {
	s.dg.AddHandler(h.Handle)
}

// ResolveChannel проверяет, что целевой канал существует и принимает сообщения.
func (s *Session) ResolveChannel() error {
	ch, err := s.dg.Channel(s.channelID)
	if err != nil {
		return fmt.Errorf("channel %s unavailable: %w", s.channelID, err)
	}
	if !messageCapable(ch.Type) {
		return fmt.Errorf("channel %s is not message-capable (type %d)", s.channelID, ch.Type)
	}
	return nil
}

// PostCard рендерит и публикует карточку согласования, возвращая id сообщения.
func (s *Session) PostCard(rec domain.Record) (string, error) {
	embed, components := card.Render(rec)

	msg, err := s.dg.ChannelMessageSendComplex(s.channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		return "", fmt.Errorf("post card for %s: %w", rec.ID, err)
	}

	s.logger.Info("approval card posted",
		zap.String("record_id", rec.ID),
		zap.String("message_id", msg.ID))
	return msg.ID, nil
}

func messageCapable(t discordgo.ChannelType) bool {
	switch t {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews, discordgo.ChannelTypeDM:
		return true
	default:
		return false
	}
}
