package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/KxllSwxtch/patriki-bot/internal/config"
	"github.com/KxllSwxtch/patriki-bot/internal/metrics"
	"github.com/KxllSwxtch/patriki-bot/internal/session"
	"github.com/KxllSwxtch/patriki-bot/internal/storage"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	sender   Sender
	logger   *zap.Logger
	cfg      *config.Config
	sessions session.Store
	history  session.HistoryStore
	storage  *storage.PostgresStorage // nil when the order log is disabled
	metrics  *metrics.Metrics
}

func New(
	cfg *config.Config,
	sessions session.Store,
	history session.HistoryStore,
	pgStorage *storage.PostgresStorage,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	botAPI.Debug = cfg.Debug

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	return &Bot{
		api:      botAPI,
		sender:   &telegramSender{api: botAPI},
		logger:   logger,
		cfg:      cfg,
		sessions: sessions,
		history:  history,
		storage:  pgStorage,
		metrics:  m,
	}, nil
}

// Start runs the long-polling update loop until ctx is cancelled.
// Updates are processed one at a time, which is what keeps per-user
// transitions in arrival order.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			b.api.StopReceivingUpdates()
			return nil

		case update := <-updates:
			if cb := update.CallbackQuery; cb != nil {
				if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
					b.logger.Warn("Failed to answer callback query", zap.Error(err))
				}
			}

			ev, ok := eventFromUpdate(update)
			if !ok {
				continue
			}
			b.Route(ctx, ev)
		}
	}
}

func (b *Bot) send(chatID int64, text string) {
	if err := b.sender.SendMessage(chatID, text); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

func (b *Bot) sendError(chatID int64, text string) {
	b.send(chatID, "❌ "+text)
}
