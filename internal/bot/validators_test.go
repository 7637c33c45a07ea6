package bot

import (
	"errors"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"two words", "Иван Иванов", "Иван Иванов", false},
		{"latin", "Ivan Petrov", "Ivan Petrov", false},
		{"three words", "Анна Мария Петрова", "Анна Мария Петрова", false},
		{"surrounding spaces trimmed", "  Иван Иванов  ", "Иван Иванов", false},
		{"single word", "Иван", "", true},
		{"two words under five chars", "Ян А", "", true},
		{"empty", "", "", true},
		{"only spaces", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrNameTooShort) {
					t.Fatalf("ValidateName(%q) error = %v, want ErrNameTooShort", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateName(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ValidateName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"plus phone", "+79001234567", "+79001234567", nil},
		{"plus phone 15 digits", "+123456789012345", "+123456789012345", nil},
		{"plus phone with separators", "+7 (900) 123-45-67", "+7 (900) 123-45-67", nil},
		{"local eight", "89001234567", "89001234567", nil},
		{"local eight with spaces", "8 900 123 45 67", "8 900 123 45 67", nil},
		{"telegram username", "@ivanivanov", "@ivanivanov", nil},
		{"telegram username with digits", "@ivan_1990", "@ivan_1990", nil},
		{"empty", "", "", ErrContactEmpty},
		{"only separators", " -() ", "", ErrContactEmpty},
		{"plus phone too short", "+7900123", "", ErrContactTooShort},
		{"local eight too short", "8900123", "", ErrContactTooShort},
		{"plus phone 16 digits", "+1234567890123456", "", ErrContactBadFormat},
		{"local eight 11 digits", "890012345678", "", ErrContactBadFormat},
		{"letters in phone", "+7900abc4567", "", ErrContactBadFormat},
		{"username too short", "@ivan", "", ErrContactBadFormat},
		{"username bad chars", "@ivan-ivanov!", "", ErrContactBadFormat},
		{"no recognized prefix", "ivanivanov", "", ErrContactBadFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateContact(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ValidateContact(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateContact(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ValidateContact(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// The validator is a pure function: the same input always yields the
// same verdict.
func TestValidateContactDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if _, err := ValidateContact("+79001234567"); err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		if _, err := ValidateContact("@ivan"); !errors.Is(err, ErrContactBadFormat) {
			t.Fatalf("run %d: error = %v, want ErrContactBadFormat", i, err)
		}
	}
}
