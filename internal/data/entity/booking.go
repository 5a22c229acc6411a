package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// DateFormattedLayout renders a booking instant as "January 02, 2006 03:04 PM".
const DateFormattedLayout = "January 02, 2006 03:04 PM"

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

type Booking struct {
	Base
	OwnerID         string            `json:"ownerId"`
	PetID           string            `json:"petId,omitempty"`
	PetName         string            `json:"petName,omitempty"`
	Services        []ServiceSnapshot `json:"services"`
	ServiceNames    string            `json:"serviceNames"`
	ServiceIDs      []int             `json:"serviceIds"`
	Amount          decimal.Decimal   `json:"amount"`
	Date            time.Time         `json:"date"`
	DateFormatted   string            `json:"dateFormatted"`
	Address         string            `json:"address"`
	Telephone       string            `json:"telephone"`
	Email           string            `json:"email"`
	Notes           string            `json:"notes,omitempty"`
	Status          BookingStatus     `json:"status"`
	PaymentIntentID string            `json:"paymentIntentId,omitempty"`
}

// Timestamp adds the appointment instant to the Base fields.
func (b Booking) Timestamp(field string) (time.Time, bool) {
	if field == "date" {
		return b.Date, !b.Date.IsZero()
	}
	return b.Base.Timestamp(field)
}

func (b Booking) Validate() error {
	if err := b.Base.validate(); err != nil {
		return err
	}
	if len(b.Services) == 0 {
		return errors.New("booking has no services")
	}
	if len(b.ServiceIDs) != len(b.Services) {
		return errors.New("booking service ids do not match services")
	}
	if b.Amount.IsNegative() {
		return errors.New("booking amount is negative")
	}
	if b.Date.IsZero() {
		return errors.New("booking date is required")
	}
	switch b.Status {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
	default:
		return fmt.Errorf("unknown booking status %q", b.Status)
	}
	return nil
}

// CanTransition reports whether the status may move from b.Status to next.
// Staying on the same status is always allowed.
func (b Booking) CanTransition(next BookingStatus) bool {
	if b.Status == next {
		return true
	}
	for _, s := range bookingTransitions[b.Status] {
		if s == next {
			return true
		}
	}
	return false
}
