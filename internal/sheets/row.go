// Package sheets forwards submitted bookings to a spreadsheet ingestion
// endpoint, either directly or through a RabbitMQ queue.
package sheets

import (
	"time"

	"petcare-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

// Row is the flat record appended as one spreadsheet line.
type Row struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"createdAt"`
	ServiceNames  string          `json:"serviceNames"`
	ServiceIDs    []int           `json:"serviceIds"`
	Amount        decimal.Decimal `json:"amount"`
	DateFormatted string          `json:"dateFormatted"`
	Address       string          `json:"address"`
	Telephone     string          `json:"telephone"`
	Email         string          `json:"email"`
	Status        string          `json:"status"`
}

func RowFromBooking(b *entity.Booking) Row {
	return Row{
		ID:            b.ID,
		CreatedAt:     b.CreatedAt,
		ServiceNames:  b.ServiceNames,
		ServiceIDs:    b.ServiceIDs,
		Amount:        b.Amount,
		DateFormatted: b.DateFormatted,
		Address:       b.Address,
		Telephone:     b.Telephone,
		Email:         b.Email,
		Status:        string(b.Status),
	}
}
