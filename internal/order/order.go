// Package order defines the completed order record and the staff-channel
// notification format.
package order

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/KxllSwxtch/patriki-bot/internal/session"
)

// NoNotes is stored in ExtraNotes when the user skips the last step.
const NoNotes = "Без дополнительных пожеланий"

// Record is the immutable payload forwarded to the staff channel once the
// form is complete. It is never mutated after dispatch.
type Record struct {
	Ref            string
	UserID         int64
	Name           string
	Contact        string
	ProductText    string
	ProductImageID string
	ExtraNotes     string
	Submitter      string
	CreatedAt      time.Time
}

// NewRecord builds a record from a finished draft. Submitter falls back to
// the numeric ID when the user has no username.
func NewRecord(userID int64, username string, draft session.Draft) Record {
	submitter := "@" + username
	if username == "" {
		submitter = strconv.FormatInt(userID, 10)
	}

	return Record{
		Ref:            uuid.NewString(),
		UserID:         userID,
		Name:           draft.Name,
		Contact:        draft.Contact,
		ProductText:    draft.ProductText,
		ProductImageID: draft.ProductImageID,
		ExtraNotes:     draft.ExtraNotes,
		Submitter:      submitter,
		CreatedAt:      time.Now(),
	}
}

// HasPhoto reports whether the product was supplied as an attached image.
func (r Record) HasPhoto() bool {
	return r.ProductImageID != ""
}

// ShortRef is the reference shown in notifications and listings.
func (r Record) ShortRef() string {
	if len(r.Ref) >= 8 {
		return r.Ref[:8]
	}
	return r.Ref
}

// FormatNotification renders the fixed-order staff notification. When the
// record carries a photo the same text goes out as the photo caption.
func FormatNotification(r Record) string {
	product := r.ProductText
	if r.HasPhoto() {
		product = "📷 фото во вложении"
	}

	return fmt.Sprintf(
		"<b>Новая заявка №%s</b>\n\n"+
			"Имя: %s\n"+
			"От: %s\n"+
			"Телефон/Telegram: %s\n"+
			"Товар: %s\n"+
			"Пожелания: %s",
		r.ShortRef(),
		r.Name,
		r.Submitter,
		r.Contact,
		product,
		r.ExtraNotes,
	)
}
