package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// EventKind classifies an inbound update for routing.
type EventKind string

const (
	EventText    EventKind = "text"
	EventPhoto   EventKind = "photo"
	EventCommand EventKind = "command"
	EventButton  EventKind = "button"
)

// Event is the narrow inbound shape the router works with. Keeping it
// flat makes the dispatch table testable without a live update source.
type Event struct {
	Kind     EventKind
	UserID   int64
	Username string

	// Text message.
	Text string

	// Command, without the leading slash.
	Command     string
	CommandArgs string

	// Photo message.
	ImageID string
	Caption string

	// Callback button press.
	Token string
}

// eventFromUpdate converts a Telegram update into an Event. Returns false
// for update kinds the bot does not handle (edits, channel posts, etc).
func eventFromUpdate(update tgbotapi.Update) (Event, bool) {
	if cb := update.CallbackQuery; cb != nil && cb.From != nil {
		return Event{
			Kind:     EventButton,
			UserID:   cb.From.ID,
			Username: cb.From.UserName,
			Token:    cb.Data,
		}, true
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return Event{}, false
	}

	ev := Event{
		UserID:   msg.From.ID,
		Username: msg.From.UserName,
	}

	switch {
	case msg.IsCommand():
		ev.Kind = EventCommand
		ev.Command = msg.Command()
		ev.CommandArgs = msg.CommandArguments()

	case len(msg.Photo) > 0:
		ev.Kind = EventPhoto
		// The last size is the largest one.
		ev.ImageID = msg.Photo[len(msg.Photo)-1].FileID
		ev.Caption = msg.Caption

	case msg.Text != "":
		ev.Kind = EventText
		ev.Text = msg.Text

	default:
		return Event{}, false
	}

	return ev, true
}
