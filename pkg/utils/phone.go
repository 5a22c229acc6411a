package utils

import (
	"regexp"
	"strings"
)

// PhoneErrorKind classifies a phone number that is not exactly 10 digits.
type PhoneErrorKind string

const (
	PhoneOK       PhoneErrorKind = ""
	PhoneEmpty    PhoneErrorKind = "empty"
	PhoneTooShort PhoneErrorKind = "too_short"
	PhoneTooLong  PhoneErrorKind = "too_long"
)

// Message is the text shown next to the telephone field. Empty input shows nothing.
func (k PhoneErrorKind) Message() string {
	switch k {
	case PhoneTooShort:
		return "Phone number must be at least 10 digits"
	case PhoneTooLong:
		return "Phone number must be 10 digits"
	default:
		return ""
	}
}

type PhoneCheck struct {
	Valid bool           `json:"valid"`
	Kind  PhoneErrorKind `json:"kind,omitempty"`
}

const phoneDigitsRequired = 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// PhoneDigits strips every non-digit rune.
func PhoneDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhone renders the digits of raw progressively as (DDD) DDD-DDDD.
// Digits past the tenth are kept after the last group so the digit count
// of the output always matches the input.
func FormatPhone(raw string) string {
	d := PhoneDigits(raw)
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 6:
		return "(" + d[:3] + ") " + d[3:]
	default:
		return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
	}
}

func ValidatePhone(formatted string) PhoneCheck {
	n := len(PhoneDigits(formatted))
	switch {
	case n == 0:
		return PhoneCheck{Valid: false, Kind: PhoneEmpty}
	case n < phoneDigitsRequired:
		return PhoneCheck{Valid: false, Kind: PhoneTooShort}
	case n > phoneDigitsRequired:
		return PhoneCheck{Valid: false, Kind: PhoneTooLong}
	default:
		return PhoneCheck{Valid: true, Kind: PhoneOK}
	}
}

// ValidateEmail is a shape check only: something@something.something with no spaces.
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}
