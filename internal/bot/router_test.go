package bot

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/KxllSwxtch/patriki-bot/internal/config"
	"github.com/KxllSwxtch/patriki-bot/internal/metrics"
	"github.com/KxllSwxtch/patriki-bot/internal/order"
	"github.com/KxllSwxtch/patriki-bot/internal/session"
)

const (
	testUserID  int64 = 42
	testChannel int64 = -100200300
)

type sentItem struct {
	chatID    int64
	text      string
	photoID   string
	caption   string
	hasMarkup bool
}

// mockSender records outbound calls instead of hitting Telegram.
type mockSender struct {
	sent []sentItem
}

func (m *mockSender) SendMessage(chatID int64, text string) error {
	m.sent = append(m.sent, sentItem{chatID: chatID, text: text})
	return nil
}

func (m *mockSender) SendMessageWithMarkup(chatID int64, text string, _ tgbotapi.InlineKeyboardMarkup) error {
	m.sent = append(m.sent, sentItem{chatID: chatID, text: text, hasMarkup: true})
	return nil
}

func (m *mockSender) SendPhoto(chatID int64, fileID, caption string) error {
	m.sent = append(m.sent, sentItem{chatID: chatID, photoID: fileID, caption: caption})
	return nil
}

func (m *mockSender) SendDocument(chatID int64, path, caption string) error {
	m.sent = append(m.sent, sentItem{chatID: chatID, text: path, caption: caption})
	return nil
}

func (m *mockSender) channelItems() []sentItem {
	var out []sentItem
	for _, it := range m.sent {
		if it.chatID == testChannel {
			out = append(out, it)
		}
	}
	return out
}

func (m *mockSender) lastUserItem(t *testing.T) sentItem {
	t.Helper()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].chatID == testUserID {
			return m.sent[i]
		}
	}
	t.Fatal("no message sent to user")
	return sentItem{}
}

func newTestBot() (*Bot, *mockSender) {
	ms := &mockSender{}
	b := &Bot{
		sender: ms,
		logger: zap.NewNop(),
		cfg: &config.Config{
			GroupChatID: testChannel,
			CatalogURL:  "https://a.wsxc.cn/ItS5XIV",
			AdminIDs:    []int64{99},
		},
		sessions: session.NewMemoryStore(),
		history:  session.NewMemoryHistory(),
		metrics:  metrics.Registry("patriki_test"),
	}
	return b, ms
}

func textEvent(text string) Event {
	return Event{Kind: EventText, UserID: testUserID, Username: "ivan", Text: text}
}

func commandEvent(cmd string) Event {
	return Event{Kind: EventCommand, UserID: testUserID, Username: "ivan", Command: cmd}
}

func TestFullOrderFlow(t *testing.T) {
	ctx := context.Background()
	b, ms := newTestBot()

	b.Route(ctx, commandEvent("start"))
	b.Route(ctx, textEvent("Ivan Petrov"))
	b.Route(ctx, textEvent("+79001234567"))
	b.Route(ctx, textEvent("https://shop.example/item"))
	b.Route(ctx, commandEvent("skip"))

	channel := ms.channelItems()
	if len(channel) != 1 {
		t.Fatalf("staff channel received %d messages, want 1", len(channel))
	}
	notification := channel[0]
	if notification.photoID != "" {
		t.Error("text-only order must not go out as a photo")
	}
	for _, want := range []string{
		"Ivan Petrov",
		"@ivan",
		"+79001234567",
		"https://shop.example/item",
		order.NoNotes,
	} {
		if !strings.Contains(notification.text, want) {
			t.Errorf("notification missing %q:\n%s", want, notification.text)
		}
	}

	confirmation := ms.lastUserItem(t)
	if !confirmation.hasMarkup {
		t.Error("confirmation must carry the repeat-order button")
	}
	if !strings.Contains(confirmation.text, "обрабатывается") {
		t.Errorf("unexpected confirmation text: %s", confirmation.text)
	}

	sess, err := b.sessions.Get(ctx, testUserID)
	if err != nil {
		t.Fatalf("Get session failed: %v", err)
	}
	if sess.Step != session.StepIdle {
		t.Errorf("session step after dispatch = %q, want %q", sess.Step, session.StepIdle)
	}

	h, err := b.history.Get(ctx, testUserID)
	if err != nil {
		t.Fatalf("history not saved: %v", err)
	}
	if h.Name != "Ivan Petrov" || h.Contact != "+79001234567" {
		t.Errorf("history = %+v", h)
	}
}

func TestPhotoOrderGoesOutAsPhoto(t *testing.T) {
	ctx := context.Background()
	b, ms := newTestBot()

	b.Route(ctx, commandEvent("start"))
	b.Route(ctx, textEvent("Ivan Petrov"))
	b.Route(ctx, textEvent("+79001234567"))
	b.Route(ctx, Event{Kind: EventPhoto, UserID: testUserID, Username: "ivan", ImageID: "photo-file-id"})
	b.Route(ctx, textEvent("Какие есть размеры в наличии?"))

	channel := ms.channelItems()
	if len(channel) != 1 {
		t.Fatalf("staff channel received %d messages, want 1", len(channel))
	}
	notification := channel[0]
	if notification.photoID != "photo-file-id" {
		t.Fatalf("photoID = %q, want the attached image reference", notification.photoID)
	}
	for _, want := range []string{"Ivan Petrov", "+79001234567", "Какие есть размеры в наличии?"} {
		if !strings.Contains(notification.caption, want) {
			t.Errorf("caption missing %q:\n%s", want, notification.caption)
		}
	}
}

func TestInvalidInputDoesNotAdvance(t *testing.T) {
	ctx := context.Background()
	b, ms := newTestBot()

	b.Route(ctx, commandEvent("start"))
	b.Route(ctx, textEvent("Ivan"))

	sess, err := b.sessions.Get(ctx, testUserID)
	if err != nil {
		t.Fatalf("Get session failed: %v", err)
	}
	if sess.Step != session.StepName {
		t.Errorf("step after invalid name = %q, want %q", sess.Step, session.StepName)
	}
	if !strings.HasPrefix(ms.lastUserItem(t).text, "❌") {
		t.Errorf("expected an error re-prompt, got: %s", ms.lastUserItem(t).text)
	}

	b.Route(ctx, textEvent("Ivan Petrov"))
	b.Route(ctx, textEvent("not-a-contact"))

	sess, _ = b.sessions.Get(ctx, testUserID)
	if sess.Step != session.StepContact {
		t.Errorf("step after invalid contact = %q, want %q", sess.Step, session.StepContact)
	}
}

func TestSkipIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	b, ms := newTestBot()

	b.Route(ctx, commandEvent("start"))
	b.Route(ctx, textEvent("Ivan Petrov"))
	b.Route(ctx, textEvent("@ivanivanov"))
	b.Route(ctx, textEvent("https://shop.example/item"))
	b.Route(ctx, textEvent("/SKIP"))

	channel := ms.channelItems()
	if len(channel) != 1 {
		t.Fatalf("staff channel received %d messages, want 1", len(channel))
	}
	if strings.Contains(channel[0].text, "/SKIP") {
		t.Error("literal /skip token leaked into the notification")
	}
	if !strings.Contains(channel[0].text, order.NoNotes) {
		t.Errorf("notification missing the no-notes sentinel:\n%s", channel[0].text)
	}
}

func TestRepeatOrderShortcut(t *testing.T) {
	ctx := context.Background()
	b, ms := newTestBot()

	if err := b.history.Put(ctx, testUserID, session.History{
		Name:    "Ivan Ivanov",
		Contact: "@ivanivanov",
	}); err != nil {
		t.Fatalf("Put history failed: %v", err)
	}

	b.Route(ctx, Event{Kind: EventButton, UserID: testUserID, Username: "ivan", Token: CallbackNewOrder})

	sess, err := b.sessions.Get(ctx, testUserID)
	if err != nil {
		t.Fatalf("Get session failed: %v", err)
	}
	if sess.Step != session.StepProduct {
		t.Fatalf("step after repeat button = %q, want %q", sess.Step, session.StepProduct)
	}
	if sess.Draft.Name != "Ivan Ivanov" || sess.Draft.Contact != "@ivanivanov" {
		t.Errorf("draft = %+v, want prefilled from history", sess.Draft)
	}

	// Finishing from here reuses the remembered name and contact.
	b.Route(ctx, textEvent("https://shop.example/other"))
	b.Route(ctx, commandEvent("skip"))

	channel := ms.channelItems()
	if len(channel) != 1 {
		t.Fatalf("staff channel received %d messages, want 1", len(channel))
	}
	if !strings.Contains(channel[0].text, "Ivan Ivanov") || !strings.Contains(channel[0].text, "@ivanivanov") {
		t.Errorf("notification missing reused history fields:\n%s", channel[0].text)
	}
}

func TestRepeatOrderWithoutHistoryStartsFresh(t *testing.T) {
	ctx := context.Background()
	b, ms := newTestBot()

	b.Route(ctx, Event{Kind: EventButton, UserID: testUserID, Username: "ivan", Token: CallbackNewOrder})

	sess, err := b.sessions.Get(ctx, testUserID)
	if err != nil {
		t.Fatalf("Get session failed: %v", err)
	}
	if sess.Step != session.StepName {
		t.Errorf("step without history = %q, want %q", sess.Step, session.StepName)
	}
	if len(ms.channelItems()) != 0 {
		t.Error("nothing should reach the staff channel yet")
	}
}

func TestEventsWithoutSessionAreDropped(t *testing.T) {
	ctx := context.Background()
	b, ms := newTestBot()

	b.Route(ctx, textEvent("Ivan Petrov"))
	b.Route(ctx, Event{Kind: EventPhoto, UserID: testUserID, ImageID: "photo-file-id"})

	if len(ms.sent) != 0 {
		t.Fatalf("expected no replies, got %d", len(ms.sent))
	}
}

func TestPhotoIgnoredOutsideProductStep(t *testing.T) {
	ctx := context.Background()
	b, ms := newTestBot()

	b.Route(ctx, commandEvent("start"))
	sentBefore := len(ms.sent)

	b.Route(ctx, Event{Kind: EventPhoto, UserID: testUserID, ImageID: "photo-file-id"})

	if len(ms.sent) != sentBefore {
		t.Error("photo at the name step must be silently ignored")
	}
	sess, _ := b.sessions.Get(ctx, testUserID)
	if sess.Step != session.StepName {
		t.Errorf("step = %q, want %q", sess.Step, session.StepName)
	}
}

func TestSubmitterFallsBackToNumericID(t *testing.T) {
	ctx := context.Background()
	b, ms := newTestBot()

	b.Route(ctx, Event{Kind: EventCommand, UserID: testUserID, Command: "start"})
	b.Route(ctx, Event{Kind: EventText, UserID: testUserID, Text: "Ivan Petrov"})
	b.Route(ctx, Event{Kind: EventText, UserID: testUserID, Text: "@ivanivanov"})
	b.Route(ctx, Event{Kind: EventText, UserID: testUserID, Text: "https://shop.example/item"})
	b.Route(ctx, Event{Kind: EventText, UserID: testUserID, Text: "/skip"})

	channel := ms.channelItems()
	if len(channel) != 1 {
		t.Fatalf("staff channel received %d messages, want 1", len(channel))
	}
	if !strings.Contains(channel[0].text, "42") {
		t.Errorf("notification missing numeric submitter fallback:\n%s", channel[0].text)
	}
}

func TestAdminCommandIgnoredForRegularUsers(t *testing.T) {
	ctx := context.Background()
	b, ms := newTestBot()

	b.Route(ctx, commandEvent("orders"))
	if len(ms.sent) != 0 {
		t.Fatalf("expected silence for non-admin /orders, got %d messages", len(ms.sent))
	}
}

func TestAdminOrdersWithoutDatabase(t *testing.T) {
	ctx := context.Background()
	b, ms := newTestBot()

	b.Route(ctx, Event{Kind: EventCommand, UserID: 99, Username: "admin", Command: "orders"})

	if len(ms.sent) != 1 {
		t.Fatalf("expected one reply, got %d", len(ms.sent))
	}
	if !strings.Contains(ms.sent[0].text, "отключено") {
		t.Errorf("unexpected reply: %s", ms.sent[0].text)
	}
}
