package response

import (
	"time"

	"petcare-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type BookingResponse struct {
	ID              string                   `json:"id"`
	OwnerID         string                   `json:"ownerId"`
	PetID           string                   `json:"petId,omitempty"`
	PetName         string                   `json:"petName,omitempty"`
	Services        []entity.ServiceSnapshot `json:"services"`
	ServiceNames    string                   `json:"serviceNames"`
	ServiceIDs      []int                    `json:"serviceIds"`
	Amount          decimal.Decimal          `json:"amount"`
	Date            time.Time                `json:"date"`
	DateFormatted   string                   `json:"dateFormatted"`
	Address         string                   `json:"address"`
	Telephone       string                   `json:"telephone"`
	Email           string                   `json:"email"`
	Notes           string                   `json:"notes,omitempty"`
	Status          entity.BookingStatus     `json:"status"`
	PaymentIntentID string                   `json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time                `json:"createdAt"`
	UpdatedAt       *time.Time               `json:"updatedAt,omitempty"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		OwnerID:         b.OwnerID,
		PetID:           b.PetID,
		PetName:         b.PetName,
		Services:        b.Services,
		ServiceNames:    b.ServiceNames,
		ServiceIDs:      b.ServiceIDs,
		Amount:          b.Amount,
		Date:            b.Date,
		DateFormatted:   b.DateFormatted,
		Address:         b.Address,
		Telephone:       b.Telephone,
		Email:           b.Email,
		Notes:           b.Notes,
		Status:          b.Status,
		PaymentIntentID: b.PaymentIntentID,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// DraftResponse is the current view of a server-held booking draft.
type DraftResponse struct {
	ID        string            `json:"id"`
	State     string            `json:"state"`
	Services  []ServiceResponse `json:"services"`
	Amount    decimal.Decimal   `json:"amount"`
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	Address   string            `json:"address"`
	Telephone string            `json:"telephone"`
	Phone     PhoneStatus       `json:"phone"`
	Email     string            `json:"email"`
	PetID     string            `json:"petId,omitempty"`
	PetName   string            `json:"petName,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type PhoneStatus struct {
	Valid   bool   `json:"valid"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

type FieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationResponse struct {
	Valid    bool                 `json:"valid"`
	Failures []FieldErrorResponse `json:"failures"`
}
