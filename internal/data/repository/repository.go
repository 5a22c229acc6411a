package repository

import (
	"errors"

	"petcare-booking/internal/data/entity"
	"petcare-booking/internal/data/store"

	"go.uber.org/zap"
)

// Collection names, one persisted blob each.
const (
	CollectionBookings = "bookings"
	CollectionPets     = "pets"
	CollectionUsers    = "users"
	CollectionSessions = "sessions"
	CollectionOTPs     = "otps"
)

type Repository struct {
	User    UserRepository
	Session SessionRepository
	OTP     OTPRepository
	Booking BookingRepository
	Pet     PetRepository
}

func NewRepository(s *store.Store, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(store.NewCollection[entity.User](s, CollectionUsers), log),
		Session: NewSessionRepository(store.NewCollection[entity.Session](s, CollectionSessions), log),
		OTP:     NewOTPRepository(store.NewCollection[entity.OTP](s, CollectionOTPs), log),
		Booking: NewBookingRepository(store.NewCollection[entity.Booking](s, CollectionBookings), log),
		Pet:     NewPetRepository(store.NewCollection[entity.Pet](s, CollectionPets), log),
	}
}

// page slices items for limit/offset. limit <= 0 returns everything from offset.
func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func pointers[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
