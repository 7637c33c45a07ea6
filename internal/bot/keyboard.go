package bot

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// CallbackNewOrder is the token of the repeat-order button.
const CallbackNewOrder = "new_order"

func repeatOrderKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Подать ещё одну заявку", CallbackNewOrder),
		),
	)
}
