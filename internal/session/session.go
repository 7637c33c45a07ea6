// Package session holds per-user form progress for the order wizard.
//
// A session walks a fixed field order: name, contact, product, extra.
// The store enforces that order; handlers never write a field out of turn.
package session

import (
	"context"
	"errors"
)

// Step is the field the wizard is waiting for next.
type Step string

const (
	StepIdle     Step = "idle"
	StepName     Step = "awaiting_name"
	StepContact  Step = "awaiting_contact"
	StepProduct  Step = "awaiting_product"
	StepExtra    Step = "awaiting_extra"
	StepComplete Step = "complete"
)

// Field identifies a draft field being written.
type Field string

const (
	FieldName    Field = "name"
	FieldContact Field = "contact"
	FieldProduct Field = "product"
	FieldExtra   Field = "extra"
)

// Value carries a validated field value. ImageID is set only for the
// product field when the user sent a photo instead of text.
type Value struct {
	Text    string
	ImageID string
}

// Draft is the partially filled order attached to a session.
type Draft struct {
	Name           string `json:"name"`
	Contact        string `json:"contact"`
	ProductText    string `json:"product_text"`
	ProductImageID string `json:"product_image_id"`
	ExtraNotes     string `json:"extra_notes"`
}

type Session struct {
	Step  Step  `json:"step"`
	Draft Draft `json:"draft"`
}

// History caches the reusable fields of a user's last completed order.
type History struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

var (
	ErrNotFound    = errors.New("session: not found")
	ErrOutOfOrder  = errors.New("session: field does not match current step")
	ErrNotComplete = errors.New("session: form is not complete")
)

// Store keeps one session per Telegram user ID. Implementations are safe
// for use from a single update loop; concurrent calls for the same user
// are the caller's problem.
type Store interface {
	// Get returns the user's session or ErrNotFound.
	Get(ctx context.Context, userID int64) (Session, error)

	// Start resets the user to a fresh session awaiting the name field.
	Start(ctx context.Context, userID int64) (Session, error)

	// Advance writes a validated value into the draft and moves to the
	// next step. Returns ErrOutOfOrder if field does not match the
	// session's current step.
	Advance(ctx context.Context, userID int64, field Field, v Value) (Session, error)

	// Complete returns the finished draft and resets the session to idle.
	// Returns ErrNotComplete unless every field has been collected.
	Complete(ctx context.Context, userID int64) (Draft, error)

	// RestoreFromHistory starts a repeat order: name and contact come from
	// history and the session jumps straight to the product step.
	RestoreFromHistory(ctx context.Context, userID int64, h History) (Session, error)
}

// HistoryStore keeps the last completed order's name/contact per user.
type HistoryStore interface {
	// Get returns the user's history or ErrNotFound.
	Get(ctx context.Context, userID int64) (History, error)
	Put(ctx context.Context, userID int64, h History) error
}

// FieldForStep maps a waiting step to the field it collects.
func FieldForStep(s Step) (Field, bool) {
	switch s {
	case StepName:
		return FieldName, true
	case StepContact:
		return FieldContact, true
	case StepProduct:
		return FieldProduct, true
	case StepExtra:
		return FieldExtra, true
	}
	return "", false
}

func nextStep(s Step) Step {
	switch s {
	case StepName:
		return StepContact
	case StepContact:
		return StepProduct
	case StepProduct:
		return StepExtra
	case StepExtra:
		return StepComplete
	}
	return s
}

// apply writes a field value into the session and advances the step.
// Shared by every Store implementation so the ordering invariant lives
// in one place.
func apply(s *Session, field Field, v Value) error {
	current, ok := FieldForStep(s.Step)
	if !ok || current != field {
		return ErrOutOfOrder
	}

	switch field {
	case FieldName:
		s.Draft.Name = v.Text
	case FieldContact:
		s.Draft.Contact = v.Text
	case FieldProduct:
		// Image reference wins over text; the two are mutually exclusive.
		if v.ImageID != "" {
			s.Draft.ProductImageID = v.ImageID
			s.Draft.ProductText = ""
		} else {
			s.Draft.ProductText = v.Text
		}
	case FieldExtra:
		s.Draft.ExtraNotes = v.Text
	}

	s.Step = nextStep(s.Step)
	return nil
}
