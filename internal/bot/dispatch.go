package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/KxllSwxtch/patriki-bot/internal/order"
	"github.com/KxllSwxtch/patriki-bot/internal/session"
	"github.com/KxllSwxtch/patriki-bot/internal/storage"
)

// finishOrder runs the completion sequence: dispatch to the staff
// channel, remember name/contact for repeat orders, persist to the order
// log when configured, confirm to the user.
func (b *Bot) finishOrder(ctx context.Context, ev Event) {
	draft, err := b.sessions.Complete(ctx, ev.UserID)
	if err != nil {
		b.logger.Error("Failed to complete session",
			zap.Int64("chat_id", ev.UserID),
			zap.Error(err))
		b.sendError(ev.UserID, "Ошибка при оформлении заявки. Начните заново: /start")
		return
	}

	rec := order.NewRecord(ev.UserID, ev.Username, draft)

	// Delivery failure is logged and counted but the user confirmation
	// still goes out. Known gap, kept from the source behavior.
	if err := b.dispatch(rec); err != nil {
		b.metrics.DeliveryErrors.Inc()
		b.logger.Error("Failed to deliver order to staff channel",
			zap.Int64("chat_id", ev.UserID),
			zap.String("order_ref", rec.Ref),
			zap.Error(err))
	} else {
		b.metrics.OrdersSubmitted.Inc()
	}

	if err := b.history.Put(ctx, ev.UserID, session.History{
		Name:    rec.Name,
		Contact: rec.Contact,
	}); err != nil {
		b.logger.Error("Failed to save user history",
			zap.Int64("chat_id", ev.UserID),
			zap.Error(err))
	}

	b.persistOrder(ctx, rec)

	confirmation := fmt.Sprintf(
		"✅ Ваша заявка №%s обрабатывается!\n\n"+
			"Вы можете продолжить выбирать товары в каталоге: %s",
		rec.ShortRef(),
		b.cfg.CatalogURL,
	)
	if err := b.sender.SendMessageWithMarkup(ev.UserID, confirmation, repeatOrderKeyboard()); err != nil {
		b.logger.Error("Failed to send confirmation",
			zap.Int64("chat_id", ev.UserID),
			zap.Error(err))
	}
}

// dispatch delivers the formatted record to the staff channel: photo
// orders go out as the image with the text as caption, the rest as a
// plain message.
func (b *Bot) dispatch(rec order.Record) error {
	text := order.FormatNotification(rec)

	if rec.HasPhoto() {
		return b.sender.SendPhoto(b.cfg.GroupChatID, rec.ProductImageID, text)
	}
	return b.sender.SendMessage(b.cfg.GroupChatID, text)
}

// persistOrder appends the record to the Postgres order log, when one is
// configured. Failures never block the user flow.
func (b *Bot) persistOrder(ctx context.Context, rec order.Record) {
	if b.storage == nil {
		return
	}

	if _, err := b.storage.SaveOrder(ctx, storage.Order{
		OrderRef:  rec.Ref,
		UserID:    rec.UserID,
		Username:  rec.Submitter,
		OrderText: order.FormatNotification(rec),
		CreatedAt: rec.CreatedAt,
	}); err != nil {
		b.logger.Error("Failed to persist order",
			zap.String("order_ref", rec.Ref),
			zap.Error(err))
	}
}

// exportPath is where the admin export lands before being sent back.
func exportPath() string {
	return filepath.Join(os.TempDir(), "orders-export.xlsx")
}
