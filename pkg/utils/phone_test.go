package utils

import (
	"strings"
	"testing"
)

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"three digits", "555", "555"},
		{"four digits", "5551", "(555) 1"},
		{"six digits", "555123", "(555) 123"},
		{"seven digits", "5551234", "(555) 123-4"},
		{"ten digits", "5551234567", "(555) 123-4567"},
		{"noise stripped", "555.123 45-67", "(555) 123-4567"},
		{"already formatted", "(555) 123-4567", "(555) 123-4567"},
		{"surplus digits kept", "555123456789", "(555) 123-456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPhone(tt.raw); got != tt.want {
				t.Errorf("FormatPhone(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatPhonePreservesDigitCount(t *testing.T) {
	for n := 0; n <= 14; n++ {
		raw := strings.Repeat("7", n)
		out := FormatPhone(raw)
		if got := len(PhoneDigits(out)); got != n {
			t.Errorf("n=%d: formatted %q has %d digits", n, out, got)
		}
		if FormatPhone(out) != out {
			t.Errorf("n=%d: FormatPhone not idempotent on %q", n, out)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantValid bool
		wantKind  PhoneErrorKind
	}{
		{"empty", "", false, PhoneEmpty},
		{"too short", "555123", false, PhoneTooShort},
		{"exact", "(555) 123-4567", true, PhoneOK},
		{"too long", "(555) 123-45678", false, PhoneTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePhone(tt.in)
			if got.Valid != tt.wantValid || got.Kind != tt.wantKind {
				t.Errorf("ValidatePhone(%q) = %+v, want valid=%v kind=%q", tt.in, got, tt.wantValid, tt.wantKind)
			}
		})
	}

	// validate(format(x)) is valid iff x has exactly ten digits
	for n := 0; n <= 13; n++ {
		got := ValidatePhone(FormatPhone(strings.Repeat("1", n))).Valid
		if got != (n == 10) {
			t.Errorf("n=%d: valid=%v", n, got)
		}
	}
}

func TestPhoneErrorKindMessage(t *testing.T) {
	if PhoneEmpty.Message() != "" {
		t.Error("empty phone should carry no message")
	}
	if PhoneTooShort.Message() != "Phone number must be at least 10 digits" {
		t.Errorf("unexpected too-short message %q", PhoneTooShort.Message())
	}
	if PhoneTooLong.Message() != "Phone number must be 10 digits" {
		t.Errorf("unexpected too-long message %q", PhoneTooLong.Message())
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.com", true},
		{"first.last@sub.example.org", true},
		{"", false},
		{"a@b", false},
		{"a b@c.com", false},
		{"@b.com", false},
		{"a@@b.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ValidateEmail(tt.in); got != tt.want {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
