package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"petcare-booking/internal/data/entity"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func sampleRow() Row {
	return Row{
		ID:            "booking_1",
		CreatedAt:     time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC),
		ServiceNames:  "Pop In, Walking",
		ServiceIDs:    []int{4, 2},
		Amount:        decimal.NewFromInt(50),
		DateFormatted: "December 07, 2025 02:30 PM",
		Address:       "123 Test Street",
		Telephone:     "(555) 123-4567",
		Email:         "test@example.com",
		Status:        "pending",
	}
}

func TestClientAppend(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		reply   string
		wantErr error
		wantOK  bool
	}{
		{"success", http.StatusOK, `{"success":true,"message":"Booking saved successfully"}`, nil, true},
		{"rejected", http.StatusOK, `{"success":false,"error":"Error: sheet missing"}`, ErrRejected, false},
		{"server error", http.StatusInternalServerError, `oops`, nil, false},
		{"bad json", http.StatusOK, `<html>`, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Row
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("method = %s", r.Method)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/json" {
					t.Errorf("content type = %q", ct)
				}
				json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.reply))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, srv.Client(), zap.NewNop())
			res, err := c.Append(context.Background(), sampleRow())

			if tt.wantOK {
				if err != nil || !res.Success {
					t.Fatalf("Append() = %+v, %v", res, err)
				}
				if got.ID != "booking_1" || got.ServiceNames != "Pop In, Walking" || !got.Amount.Equal(decimal.NewFromInt(50)) {
					t.Errorf("server received %+v", got)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRowFromBooking(t *testing.T) {
	b := &entity.Booking{
		Base:          entity.Base{ID: "booking_x", CreatedAt: time.Unix(100, 0)},
		ServiceNames:  "Walking, Sitting",
		ServiceIDs:    []int{2, 3},
		Amount:        decimal.NewFromInt(100),
		DateFormatted: "January 02, 2026 03:04 PM",
		Address:       "123 Main Street, New York, NY 10001",
		Telephone:     "(555) 123-4567",
		Email:         "a@b.com",
		Status:        entity.BookingStatusPending,
	}

	row := RowFromBooking(b)
	if row.ID != b.ID || row.Status != "pending" || row.ServiceNames != b.ServiceNames || !row.Amount.Equal(b.Amount) {
		t.Fatalf("row = %+v", row)
	}
}

type fakeAppender struct {
	res  Result
	err  error
	rows []Row
}

func (f *fakeAppender) Append(ctx context.Context, row Row) (Result, error) {
	f.rows = append(f.rows, row)
	return f.res, f.err
}

func TestConsumerHandle(t *testing.T) {
	valid, _ := json.Marshal(sampleRow())

	tests := []struct {
		name          string
		body          []byte
		appendErr     error
		wantErr       bool
		wantMalformed bool
	}{
		{"ok", valid, nil, false, false},
		{"not json", []byte("{"), nil, true, true},
		{"missing id", []byte(`{"email":"a@b.com"}`), nil, true, true},
		{"rejected", valid, ErrRejected, true, true},
		{"transport error", valid, errors.New("connection refused"), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &fakeAppender{err: tt.appendErr}
			c := NewConsumer("amqp://unused", "booking.created", app, zap.NewNop())

			err := c.handle(context.Background(), tt.body)
			if (err != nil) != tt.wantErr {
				t.Fatalf("handle() error = %v, wantErr %v", err, tt.wantErr)
			}
			if errors.Is(err, errMalformed) != tt.wantMalformed {
				t.Fatalf("malformed = %v, want %v (%v)", errors.Is(err, errMalformed), tt.wantMalformed, err)
			}
		})
	}
}

func TestDirectPublisher(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	p := NewDirectPublisher(NewClient(srv.URL, nil, zap.NewNop()))
	if err := p.Publish(context.Background(), sampleRow()); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}

	var nop Publisher = NopPublisher{}
	if err := nop.Publish(context.Background(), sampleRow()); err != nil {
		t.Fatal(err)
	}
}
