package repository

import (
	"context"
	"fmt"

	"petcare-booking/internal/data/entity"
	"petcare-booking/internal/data/store"

	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id string) (*entity.Booking, error)
	FindByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Booking, int64, error)
	Update(ctx context.Context, id string, fn func(*entity.Booking) error) (*entity.Booking, error)
	Delete(ctx context.Context, id string) error
}

type bookingRepository struct {
	coll *store.Collection[entity.Booking]
	log  *zap.Logger
}

func NewBookingRepository(coll *store.Collection[entity.Booking], log *zap.Logger) BookingRepository {
	return &bookingRepository{
		coll: coll,
		log:  log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	if err := r.coll.Append(ctx, *booking); err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID),
			zap.String("owner_id", booking.OwnerID),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID, err)
	}
	return nil
}

// FindByID returns nil, nil when the booking does not exist.
func (r *bookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	booking, err := r.coll.Get(ctx, id)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", id))
		return nil, fmt.Errorf("find booking %s: %w", id, err)
	}
	return &booking, nil
}

// FindByOwner lists an owner's bookings newest first.
func (r *bookingRepository) FindByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Booking, int64, error) {
	bookings, err := r.coll.Filter(ctx,
		func(b entity.Booking) bool { return b.OwnerID == ownerID },
		store.ListOptions{SortKey: "createdAt", Order: store.Desc},
	)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err), zap.String("owner_id", ownerID))
		return nil, 0, fmt.Errorf("list bookings for %s: %w", ownerID, err)
	}
	return pointers(page(bookings, limit, offset)), int64(len(bookings)), nil
}

func (r *bookingRepository) Update(ctx context.Context, id string, fn func(*entity.Booking) error) (*entity.Booking, error) {
	booking, err := r.coll.Update(ctx, id, fn)
	if err != nil {
		r.log.Warn("Failed to update booking", zap.Error(err), zap.String("booking_id", id))
		return nil, fmt.Errorf("update booking %s: %w", id, err)
	}
	return &booking, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id string) error {
	if err := r.coll.Remove(ctx, id); err != nil {
		r.log.Error("Failed to delete booking", zap.Error(err), zap.String("booking_id", id))
		return fmt.Errorf("delete booking %s: %w", id, err)
	}
	return nil
}
