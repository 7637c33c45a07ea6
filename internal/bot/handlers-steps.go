package bot

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/KxllSwxtch/patriki-bot/internal/order"
	"github.com/KxllSwxtch/patriki-bot/internal/session"
)

const (
	promptName    = "Напишите ваше имя и фамилию:"
	promptContact = "Укажите телефон или Telegram для связи:\n\nПример: +79001234567 или @ivanivanov"
	promptProduct = "Отправьте фото товара или ссылку на него:"
	promptExtra   = "Дополнительные вопросы или пожелания?\n\nОтправьте текст или /skip, чтобы пропустить этот шаг."
)

func (b *Bot) handleName(ctx context.Context, ev Event) {
	name, err := ValidateName(ev.Text)
	if err != nil {
		b.metrics.ValidationErrors.WithLabelValues(string(session.FieldName)).Inc()
		b.sendError(ev.UserID, "Имя слишком короткое. Укажите имя и фамилию, например: Иван Иванов")
		return
	}

	b.advance(ctx, ev, session.FieldName, session.Value{Text: name}, promptContact)
}

func (b *Bot) handleContact(ctx context.Context, ev Event) {
	contact, err := ValidateContact(ev.Text)
	if err != nil {
		b.metrics.ValidationErrors.WithLabelValues(string(session.FieldContact)).Inc()

		switch {
		case errors.Is(err, ErrContactEmpty):
			b.sendError(ev.UserID, "Контакт не указан. Отправьте телефон (+79001234567) или Telegram (@ivanivanov).")
		case errors.Is(err, ErrContactTooShort):
			b.sendError(ev.UserID, "Номер телефона слишком короткий. Пример: +79001234567")
		default:
			b.sendError(ev.UserID, "Не получилось распознать контакт.\n\nПодойдёт телефон (+79001234567, 89001234567) или Telegram (@ivanivanov).")
		}
		return
	}

	b.advance(ctx, ev, session.FieldContact, session.Value{Text: contact}, promptProduct)
}

func (b *Bot) handleProduct(ctx context.Context, ev Event) {
	var v session.Value

	switch ev.Kind {
	case EventPhoto:
		v = session.Value{ImageID: ev.ImageID}
	case EventText:
		text := strings.TrimSpace(ev.Text)
		if text == "" {
			b.metrics.ValidationErrors.WithLabelValues(string(session.FieldProduct)).Inc()
			b.sendError(ev.UserID, "Отправьте фото товара или ссылку на него.")
			return
		}
		v = session.Value{Text: text}
	default:
		return
	}

	b.advance(ctx, ev, session.FieldProduct, v, promptExtra)
}

func (b *Bot) handleExtra(ctx context.Context, ev Event) {
	notes := strings.TrimSpace(ev.Text)
	if strings.EqualFold(notes, "/skip") {
		notes = order.NoNotes
	}

	sess, ok := b.tryAdvance(ctx, ev, session.FieldExtra, session.Value{Text: notes})
	if !ok {
		return
	}

	if sess.Step == session.StepComplete {
		b.finishOrder(ctx, ev)
	}
}

// advance is the shared success path of a step handler: write the field,
// prompt for the next one.
func (b *Bot) advance(ctx context.Context, ev Event, field session.Field, v session.Value, nextPrompt string) {
	if _, ok := b.tryAdvance(ctx, ev, field, v); ok {
		b.send(ev.UserID, nextPrompt)
	}
}

// tryAdvance calls the store and maps failures. An out-of-order write is
// an internal anomaly: the router always passes the session's current
// field, so this is logged and the user is re-prompted, never crashed on.
func (b *Bot) tryAdvance(ctx context.Context, ev Event, field session.Field, v session.Value) (session.Session, bool) {
	sess, err := b.sessions.Advance(ctx, ev.UserID, field, v)
	if err != nil {
		if errors.Is(err, session.ErrOutOfOrder) {
			b.logger.Error("Out-of-order field update",
				zap.Int64("chat_id", ev.UserID),
				zap.String("field", string(field)))
		} else {
			b.logger.Error("Failed to advance session",
				zap.Int64("chat_id", ev.UserID),
				zap.String("field", string(field)),
				zap.Error(err))
		}
		b.sendError(ev.UserID, "Ошибка при сохранении ответа. Попробуйте ещё раз.")
		return session.Session{}, false
	}
	return sess, true
}
