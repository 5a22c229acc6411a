package adaptor

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"petcare-booking/internal/data/store"
	"petcare-booking/internal/payment"
	"petcare-booking/internal/usecase"

	"go.uber.org/zap"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &usecase.ValidationError{Failures: []usecase.FieldError{{Field: "email", Message: "bad"}}}, http.StatusBadRequest},
		{"past date", usecase.ErrPastDate, http.StatusBadRequest},
		{"slot", fmt.Errorf("%w: %q", usecase.ErrInvalidSlot, "21:00"), http.StatusBadRequest},
		{"draft missing", usecase.ErrDraftNotFound, http.StatusNotFound},
		{"booking missing", usecase.ErrBookingNotFound, http.StatusNotFound},
		{"submitted", usecase.ErrDraftSubmitted, http.StatusConflict},
		{"busy", usecase.ErrDraftBusy, http.StatusConflict},
		{"email taken", usecase.ErrEmailTaken, http.StatusConflict},
		{"credentials", usecase.ErrInvalidCredentials, http.StatusUnauthorized},
		{"provider", &payment.NetworkError{Op: "create", Err: errors.New("down")}, http.StatusBadGateway},
		{"disabled", payment.ErrDisabled, http.StatusServiceUnavailable},
		{"storage", fmt.Errorf("create booking x: %w", &store.PersistenceError{Op: "append", Collection: "bookings", Err: errors.New("io")}), http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tt.err, "test")
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
