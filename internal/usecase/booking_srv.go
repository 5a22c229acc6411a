package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petcare-booking/internal/data/entity"
	"petcare-booking/internal/data/repository"
	"petcare-booking/internal/dto/request"
	"petcare-booking/internal/dto/response"
	"petcare-booking/internal/payment"
	"petcare-booking/internal/sheets"
	"petcare-booking/pkg/utils"

	"go.uber.org/zap"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrAmountMismatch    = errors.New("paid amount does not match booking amount")
)

type BookingService interface {
	Submit(ctx context.Context, draft *Draft) (*entity.Booking, error)
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, req *request.PaginatedRequest) (*response.Page[response.BookingResponse], error)
	GetBooking(ctx context.Context, id string) (*response.BookingResponse, error)
	DeleteBooking(ctx context.Context, id string) error

	// used by the payment flow only
	TransitionStatus(ctx context.Context, id string, status entity.BookingStatus) (*entity.Booking, error)
	ConfirmPaid(ctx context.Context, id string, paidMinor int64) (*entity.Booking, error)
	AttachPaymentIntent(ctx context.Context, id, paymentIntentID string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	pets      repository.PetRepository
	engine    *DraftEngine
	identity  IdentityProvider
	publisher sheets.Publisher
	log       *zap.Logger
}

func NewBookingService(
	repo repository.BookingRepository,
	pets repository.PetRepository,
	engine *DraftEngine,
	identity IdentityProvider,
	publisher sheets.Publisher,
	log *zap.Logger,
) BookingService {
	if publisher == nil {
		publisher = sheets.NopPublisher{}
	}
	return &bookingService{
		repo:      repo,
		pets:      pets,
		engine:    engine,
		identity:  identity,
		publisher: publisher,
		log:       log.With(zap.String("service", "booking")),
	}
}

// Submit persists a valid draft as a pending booking. A failed save leaves
// the draft's fields as they were and the draft can be submitted again.
func (s *bookingService) Submit(ctx context.Context, draft *Draft) (*entity.Booking, error) {
	view, err := draft.beginSubmit()
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			s.log.Debug("Draft failed validation", zap.String("draft_id", draft.ID), zap.Any("failures", ve.Failures))
		}
		return nil, err
	}

	booking := buildBooking(view, utils.GenerateRecordID("booking"), s.engine.Now())

	if err := s.repo.Create(ctx, booking); err != nil {
		draft.finishSubmit(err)
		s.log.Error("Failed to save booking",
			zap.Error(err),
			zap.String("draft_id", draft.ID),
			zap.String("owner_id", booking.OwnerID),
		)
		return nil, err
	}
	draft.finishSubmit(nil)

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("owner_id", booking.OwnerID),
		zap.String("amount", booking.Amount.String()),
		zap.String("services", booking.ServiceNames),
	)

	go s.publish(sheets.RowFromBooking(booking))

	return booking, nil
}

func (s *bookingService) publish(row sheets.Row) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.publisher.Publish(ctx, row); err != nil {
		s.log.Warn("Failed to publish booking row", zap.Error(err), zap.String("booking_id", row.ID))
	}
}

// CreateBooking runs the whole draft flow from a single request.
func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, requestValidationError(errs)
	}

	// setters only fail once a draft is submitted
	draft := s.engine.NewDraft(ownerOf(ctx, s.identity))

	var failures []FieldError
	seen := make(map[int]bool, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		svc, ok := s.engine.Catalog().Find(id)
		if !ok {
			failures = append(failures, FieldError{FieldServices, fmt.Sprintf("Unknown service %d", id)})
			continue
		}
		if err := draft.ToggleService(svc); err != nil {
			return nil, err
		}
	}

	if req.Date != "" {
		if fe := applyDate(draft, s.engine, req.Date); fe != nil {
			failures = append(failures, *fe)
		}
	}
	if req.Time != "" {
		if err := draft.SetTimeSlot(req.Time); err != nil {
			failures = append(failures, FieldError{FieldTime, "Please select a valid time slot"})
		}
	}
	if req.PetID != "" {
		pet, err := ownedPet(ctx, s.pets, s.identity, req.PetID)
		switch {
		case errors.Is(err, ErrPetNotFound):
			failures = append(failures, FieldError{FieldPet, "Please select one of your pets"})
		case err != nil:
			return nil, err
		default:
			if err := draft.SetPet(pet); err != nil {
				return nil, err
			}
		}
	}
	if err := draft.SetAddress(req.Address); err != nil {
		return nil, err
	}
	if _, err := draft.SetTelephone(req.Telephone); err != nil {
		return nil, err
	}
	if err := draft.SetEmail(req.Email); err != nil {
		return nil, err
	}
	if err := draft.SetNotes(req.Notes); err != nil {
		return nil, err
	}

	if len(failures) > 0 {
		if ve := draft.Validate(); ve != nil {
			failures = append(failures, ve.Failures...)
		}
		return nil, &ValidationError{Failures: failures}
	}

	booking, err := s.Submit(ctx, draft)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// applyDate parses and sets a YYYY-MM-DD day, reporting a field error on failure.
func applyDate(draft *Draft, engine *DraftEngine, value string) *FieldError {
	day, err := engine.ParseDate(value)
	if err != nil {
		return &FieldError{FieldDate, "Please select a valid date"}
	}
	if err := draft.SetDate(day); err != nil {
		if errors.Is(err, ErrPastDate) {
			return &FieldError{FieldDate, "Please select a date that is not in the past"}
		}
		return &FieldError{FieldDate, err.Error()}
	}
	return nil
}

func (s *bookingService) ListBookings(ctx context.Context, req *request.PaginatedRequest) (*response.Page[response.BookingResponse], error) {
	owner := ownerOf(ctx, s.identity)

	bookings, total, err := s.repo.FindByOwner(ctx, owner, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err), zap.String("owner_id", owner))
		return nil, err
	}

	return response.NewPage(bookings, response.BookingToResponse, req.Page, req.Limit(), total), nil
}

func (s *bookingService) GetBooking(ctx context.Context, id string) (*response.BookingResponse, error) {
	booking, err := s.findOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// DeleteBooking removes the caller's booking. Unknown ids are a no-op.
func (s *bookingService) DeleteBooking(ctx context.Context, id string) error {
	booking, err := s.findOwned(ctx, id)
	if err != nil {
		return err
	}
	if booking == nil {
		return nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("Booking deleted", zap.String("booking_id", id), zap.String("owner_id", booking.OwnerID))
	return nil
}

// findOwned returns nil when the booking is absent or belongs to someone else.
func (s *bookingService) findOwned(ctx context.Context, id string) (*entity.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil || booking.OwnerID != ownerOf(ctx, s.identity) {
		return nil, nil
	}
	return booking, nil
}

func (s *bookingService) TransitionStatus(ctx context.Context, id string, status entity.BookingStatus) (*entity.Booking, error) {
	return s.transition(ctx, id, status, nil)
}

// ConfirmPaid confirms a pending booking once a payment of exactly its
// amount, in minor units, has gone through.
func (s *bookingService) ConfirmPaid(ctx context.Context, id string, paidMinor int64) (*entity.Booking, error) {
	return s.transition(ctx, id, entity.BookingStatusConfirmed, func(b *entity.Booking) error {
		if due := payment.ToMinorUnits(b.Amount); due != paidMinor {
			return fmt.Errorf("%w: paid %d, due %d", ErrAmountMismatch, paidMinor, due)
		}
		return nil
	})
}

// transition moves the booking to status. check, when set, runs against
// the stored record inside the same write.
func (s *bookingService) transition(ctx context.Context, id string, status entity.BookingStatus, check func(*entity.Booking) error) (*entity.Booking, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrBookingNotFound
	}
	if existing.Status == status {
		return existing, nil
	}

	now := s.engine.Now()
	updated, err := s.repo.Update(ctx, id, func(b *entity.Booking) error {
		if !b.CanTransition(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, status)
		}
		if check != nil {
			if err := check(b); err != nil {
				return err
			}
		}
		b.Status = status
		b.Touch(now)
		return nil
	})
	if err != nil {
		s.log.Warn("Booking status not changed", zap.Error(err), zap.String("booking_id", id), zap.String("status", string(status)))
		return nil, err
	}

	s.log.Info("Booking status changed",
		zap.String("booking_id", id),
		zap.String("from", string(existing.Status)),
		zap.String("to", string(status)),
	)
	return updated, nil
}

// AttachPaymentIntent records the intent on one of the caller's bookings.
func (s *bookingService) AttachPaymentIntent(ctx context.Context, id, paymentIntentID string) error {
	booking, err := s.findOwned(ctx, id)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}

	now := s.engine.Now()
	_, err = s.repo.Update(ctx, id, func(b *entity.Booking) error {
		b.PaymentIntentID = paymentIntentID
		b.Touch(now)
		return nil
	})
	return err
}
