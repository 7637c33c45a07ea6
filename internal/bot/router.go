package bot

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/KxllSwxtch/patriki-bot/internal/session"
)

// Route dispatches an inbound event by (current step, event kind).
// Events from users with no active session are dropped, except commands
// and the repeat-order button.
func (b *Bot) Route(ctx context.Context, ev Event) {
	b.metrics.UpdatesTotal.WithLabelValues(string(ev.Kind)).Inc()

	switch ev.Kind {
	case EventCommand:
		b.routeCommand(ctx, ev)
	case EventButton:
		b.routeButton(ctx, ev)
	case EventText, EventPhoto:
		b.routeForm(ctx, ev)
	}
}

func (b *Bot) routeCommand(ctx context.Context, ev Event) {
	switch strings.ToLower(ev.Command) {
	case "start":
		b.handleStart(ctx, ev)
	case "help":
		b.handleHelp(ctx, ev)
	case "skip":
		// /skip is only meaningful inside the extra-notes step; the form
		// handler recognizes the literal token.
		b.routeForm(ctx, Event{
			Kind:     EventText,
			UserID:   ev.UserID,
			Username: ev.Username,
			Text:     "/skip",
		})
	case "orders":
		b.handleListOrders(ctx, ev)
	case "export":
		b.handleExportOrders(ctx, ev)
	default:
		b.sendError(ev.UserID, "Неизвестная команда. Используйте /start для оформления заявки.")
	}
}

func (b *Bot) routeButton(ctx context.Context, ev Event) {
	switch ev.Token {
	case CallbackNewOrder:
		b.handleRepeatOrder(ctx, ev)
	default:
		// Unknown token, stale keyboard most likely.
		b.logger.Debug("Ignoring unknown callback token",
			zap.Int64("chat_id", ev.UserID),
			zap.String("token", ev.Token))
	}
}

// routeForm feeds a text or photo event into the step the user's session
// is waiting on. Mismatched event kinds are silently ignored.
func (b *Bot) routeForm(ctx context.Context, ev Event) {
	sess, err := b.sessions.Get(ctx, ev.UserID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			b.logger.Debug("Dropping event without session",
				zap.Int64("chat_id", ev.UserID),
				zap.String("kind", string(ev.Kind)))
			return
		}
		b.logger.Error("Failed to get session",
			zap.Int64("chat_id", ev.UserID),
			zap.Error(err))
		b.sendError(ev.UserID, "Ошибка при обработке запроса. Попробуйте ещё раз.")
		return
	}

	switch sess.Step {
	case session.StepName:
		if ev.Kind == EventText {
			b.handleName(ctx, ev)
		}
	case session.StepContact:
		if ev.Kind == EventText {
			b.handleContact(ctx, ev)
		}
	case session.StepProduct:
		b.handleProduct(ctx, ev)
	case session.StepExtra:
		if ev.Kind == EventText {
			b.handleExtra(ctx, ev)
		}
	default:
		// Idle session: same as no session at all.
		b.logger.Debug("Dropping event for idle session",
			zap.Int64("chat_id", ev.UserID),
			zap.String("kind", string(ev.Kind)))
	}
}
