package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/KxllSwxtch/patriki-bot/internal/session"
	"github.com/KxllSwxtch/patriki-bot/internal/storage"
)

func (b *Bot) handleStart(ctx context.Context, ev Event) {
	if _, err := b.sessions.Start(ctx, ev.UserID); err != nil {
		b.logger.Error("Failed to start session",
			zap.Int64("chat_id", ev.UserID),
			zap.Error(err))
		b.sendError(ev.UserID, "Ошибка при обработке запроса. Попробуйте ещё раз.")
		return
	}

	greeting := fmt.Sprintf(
		"Привет! 👋 Добро пожаловать!\n\n"+
			"📌 Оформим заявку в несколько шагов:\n"+
			"1. Ваше имя и фамилия\n"+
			"2. Телефон или Telegram для связи\n"+
			"3. Фото товара или ссылка на него\n"+
			"4. Пожелания к заказу (необязательно)\n\n"+
			"🛍 Каталог товаров: %s\n\n"+
			"%s",
		b.cfg.CatalogURL,
		promptName,
	)
	b.send(ev.UserID, greeting)
}

func (b *Bot) handleHelp(ctx context.Context, ev Event) {
	helpText := `Доступные команды:
	/start - Оформить новую заявку
	/skip - Пропустить необязательный шаг
	/help - Показать эту справку

	Если у вас возникли проблемы, свяжитесь с поддержкой.`
	b.send(ev.UserID, helpText)
}

// handleRepeatOrder serves the repeat-order button: users with saved
// history skip straight to the product step, the rest start from scratch.
func (b *Bot) handleRepeatOrder(ctx context.Context, ev Event) {
	h, err := b.history.Get(ctx, ev.UserID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			b.logger.Error("Failed to get user history",
				zap.Int64("chat_id", ev.UserID),
				zap.Error(err))
		}
		// No history to reuse: run the full form.
		if _, err := b.sessions.Start(ctx, ev.UserID); err != nil {
			b.logger.Error("Failed to start session",
				zap.Int64("chat_id", ev.UserID),
				zap.Error(err))
			b.sendError(ev.UserID, "Ошибка при обработке запроса. Попробуйте ещё раз.")
			return
		}
		b.send(ev.UserID, "📌 Оформим новую заявку.\n\n"+promptName)
		return
	}

	if _, err := b.sessions.RestoreFromHistory(ctx, ev.UserID, h); err != nil {
		b.logger.Error("Failed to restore session from history",
			zap.Int64("chat_id", ev.UserID),
			zap.Error(err))
		b.sendError(ev.UserID, "Ошибка при обработке запроса. Попробуйте ещё раз.")
		return
	}

	b.send(ev.UserID, fmt.Sprintf(
		"📌 Оформим повторную заявку.\n\n"+
			"Имя: %s\n"+
			"Контакт: %s\n\n"+
			"%s",
		h.Name,
		h.Contact,
		promptProduct,
	))
}

func (b *Bot) handleListOrders(ctx context.Context, ev Event) {
	if !b.cfg.IsAdmin(ev.UserID) {
		return
	}

	if b.storage == nil {
		b.send(ev.UserID, "Сохранение заявок в базе данных отключено.")
		return
	}

	orders, err := b.storage.ListRecentOrders(ctx, 10)
	if err != nil {
		b.logger.Error("Failed to list orders", zap.Error(err))
		b.sendError(ev.UserID, "Ошибка при получении заявок")
		return
	}

	if len(orders) == 0 {
		b.send(ev.UserID, "Заявок пока нет.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>Последние %d заявок:</b>\n", len(orders)))
	for _, o := range orders {
		sb.WriteString(fmt.Sprintf(
			"\n#%d · %s · %s\n%s\n",
			o.ID,
			o.Username,
			o.CreatedAt.Format("02.01.2006 15:04"),
			o.OrderText,
		))
	}
	b.send(ev.UserID, sb.String())
}

func (b *Bot) handleExportOrders(ctx context.Context, ev Event) {
	if !b.cfg.IsAdmin(ev.UserID) {
		return
	}

	if b.storage == nil {
		b.send(ev.UserID, "Сохранение заявок в базе данных отключено.")
		return
	}

	orders, err := b.storage.ListRecentOrders(ctx, 100)
	if err != nil {
		b.logger.Error("Failed to list orders for export", zap.Error(err))
		b.sendError(ev.UserID, "Ошибка при получении заявок")
		return
	}

	path := exportPath()
	if err := storage.ExportOrdersToExcel(orders, path); err != nil {
		b.logger.Error("Failed to export orders", zap.Error(err))
		b.sendError(ev.UserID, "Ошибка при формировании файла")
		return
	}

	caption := fmt.Sprintf("📊 Выгрузка заявок (%d шт.)", len(orders))
	if err := b.sender.SendDocument(ev.UserID, path, caption); err != nil {
		b.logger.Error("Failed to send export document",
			zap.Int64("chat_id", ev.UserID),
			zap.Error(err))
	}
}
