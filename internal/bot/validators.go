package bot

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validation error kinds. Each maps to a user-facing re-prompt that
// restates the expected format.
var (
	ErrNameTooShort     = errors.New("name must be at least two words and five characters")
	ErrContactEmpty     = errors.New("contact is empty")
	ErrContactBadFormat = errors.New("contact has unrecognized format")
	ErrContactTooShort  = errors.New("contact phone number is too short")
)

var (
	phoneRe    = regexp.MustCompile(`^\+[0-9]{10,15}$`)
	localRe    = regexp.MustCompile(`^8[0-9]{10}$`)
	usernameRe = regexp.MustCompile(`^@[A-Za-z0-9_]{5,}$`)
)

// ValidateName accepts a full name: at least two whitespace-separated
// words and at least five characters in total.
func ValidateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if len(strings.Fields(name)) < 2 || utf8.RuneCountInString(name) < 5 {
		return "", ErrNameTooShort
	}
	return name, nil
}

// cleanContact strips whitespace, hyphens and parentheses. Cleaning is
// used only for validation; the original text is what gets stored.
func cleanContact(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, raw)
}

// ValidateContact accepts a phone number (+ and 10-15 digits, or 8 and
// exactly 10 digits) or a Telegram username (@ and 5+ word characters).
func ValidateContact(raw string) (string, error) {
	cleaned := cleanContact(raw)
	if cleaned == "" {
		return "", ErrContactEmpty
	}

	switch {
	case strings.HasPrefix(cleaned, "+") || strings.HasPrefix(cleaned, "8"):
		if utf8.RuneCountInString(cleaned) < 11 {
			return "", ErrContactTooShort
		}
		if phoneRe.MatchString(cleaned) || localRe.MatchString(cleaned) {
			return strings.TrimSpace(raw), nil
		}
		return "", ErrContactBadFormat

	case strings.HasPrefix(cleaned, "@"):
		if usernameRe.MatchString(cleaned) {
			return strings.TrimSpace(raw), nil
		}
		return "", ErrContactBadFormat

	default:
		return "", ErrContactBadFormat
	}
}
