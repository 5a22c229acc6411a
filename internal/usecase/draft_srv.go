package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"petcare-booking/internal/data/entity"
	"petcare-booking/internal/data/repository"
	"petcare-booking/internal/dto/request"
	"petcare-booking/internal/dto/response"
	"petcare-booking/pkg/utils"

	"go.uber.org/zap"
)

// DraftService keeps interactive booking drafts in memory, one per id,
// scoped to the owner that started them.
type DraftService interface {
	Start(ctx context.Context) (*response.DraftResponse, error)
	Get(ctx context.Context, id string) (*response.DraftResponse, error)
	ToggleService(ctx context.Context, id string, serviceID int) (*response.DraftResponse, error)
	SetDate(ctx context.Context, id string, req *request.SetDateRequest) (*response.DraftResponse, error)
	SetTime(ctx context.Context, id string, req *request.SetTimeRequest) (*response.DraftResponse, error)
	SetAddress(ctx context.Context, id string, req *request.SetAddressRequest) (*response.DraftResponse, error)
	SetTelephone(ctx context.Context, id string, req *request.SetTelephoneRequest) (*response.DraftResponse, error)
	SetEmail(ctx context.Context, id string, req *request.SetEmailRequest) (*response.DraftResponse, error)
	SetPet(ctx context.Context, id string, req *request.SetPetRequest) (*response.DraftResponse, error)
	SetNotes(ctx context.Context, id string, req *request.SetNotesRequest) (*response.DraftResponse, error)
	Validate(ctx context.Context, id string) (*response.ValidationResponse, error)
	Submit(ctx context.Context, id string) (*response.BookingResponse, error)
	Discard(ctx context.Context, id string) error
}

type draftService struct {
	engine   *DraftEngine
	bookings BookingService
	pets     repository.PetRepository
	identity IdentityProvider
	ttl      time.Duration
	log      *zap.Logger

	mu     sync.Mutex
	drafts map[string]*Draft
}

func NewDraftService(
	engine *DraftEngine,
	bookings BookingService,
	pets repository.PetRepository,
	identity IdentityProvider,
	ttl time.Duration,
	log *zap.Logger,
) DraftService {
	return &draftService{
		engine:   engine,
		bookings: bookings,
		pets:     pets,
		identity: identity,
		ttl:      ttl,
		log:      log.With(zap.String("service", "draft")),
		drafts:   make(map[string]*Draft),
	}
}

func (s *draftService) Start(ctx context.Context) (*response.DraftResponse, error) {
	draft := s.engine.NewDraft(ownerOf(ctx, s.identity))

	s.mu.Lock()
	s.sweepLocked()
	s.drafts[draft.ID] = draft
	s.mu.Unlock()

	s.log.Debug("Draft started", zap.String("draft_id", draft.ID), zap.String("owner_id", draft.OwnerID))
	return s.toResponse(draft), nil
}

// sweepLocked drops drafts idle for longer than the ttl.
func (s *draftService) sweepLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.engine.Now().Add(-s.ttl)
	for id, d := range s.drafts {
		if d.idleSince().Before(cutoff) {
			delete(s.drafts, id)
		}
	}
}

func (s *draftService) lookup(ctx context.Context, id string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	d, ok := s.drafts[id]
	if !ok || d.OwnerID != ownerOf(ctx, s.identity) {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

func (s *draftService) Get(ctx context.Context, id string) (*response.DraftResponse, error) {
	d, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(d), nil
}

func (s *draftService) ToggleService(ctx context.Context, id string, serviceID int) (*response.DraftResponse, error) {
	d, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	svc, ok := s.engine.Catalog().Find(serviceID)
	if !ok {
		return nil, ErrUnknownService
	}
	if err := d.ToggleService(svc); err != nil {
		return nil, err
	}
	return s.toResponse(d), nil
}

func (s *draftService) SetDate(ctx context.Context, id string, req *request.SetDateRequest) (*response.DraftResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, requestValidationError(errs)
	}
	d, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	day, err := s.engine.ParseDate(req.Date)
	if err != nil {
		return nil, &ValidationError{Failures: []FieldError{{FieldDate, "Please select a valid date"}}}
	}
	if err := d.SetDate(day); err != nil {
		return nil, err
	}
	return s.toResponse(d), nil
}

func (s *draftService) SetTime(ctx context.Context, id string, req *request.SetTimeRequest) (*response.DraftResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, requestValidationError(errs)
	}
	d, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.SetTimeSlot(req.Time); err != nil {
		return nil, err
	}
	return s.toResponse(d), nil
}

func (s *draftService) SetAddress(ctx context.Context, id string, req *request.SetAddressRequest) (*response.DraftResponse, error) {
	d, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.SetAddress(req.Address); err != nil {
		return nil, err
	}
	return s.toResponse(d), nil
}

func (s *draftService) SetTelephone(ctx context.Context, id string, req *request.SetTelephoneRequest) (*response.DraftResponse, error) {
	d, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := d.SetTelephone(req.Telephone); err != nil {
		return nil, err
	}
	return s.toResponse(d), nil
}

func (s *draftService) SetEmail(ctx context.Context, id string, req *request.SetEmailRequest) (*response.DraftResponse, error) {
	d, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.SetEmail(req.Email); err != nil {
		return nil, err
	}
	return s.toResponse(d), nil
}

// SetPet links the draft to one of the caller's pets; an empty id clears it.
func (s *draftService) SetPet(ctx context.Context, id string, req *request.SetPetRequest) (*response.DraftResponse, error) {
	d, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	var pet *entity.Pet
	if req.PetID != "" {
		pet, err = ownedPet(ctx, s.pets, s.identity, req.PetID)
		if errors.Is(err, ErrPetNotFound) {
			return nil, &ValidationError{Failures: []FieldError{{FieldPet, "Please select one of your pets"}}}
		}
		if err != nil {
			return nil, err
		}
	}
	if err := d.SetPet(pet); err != nil {
		return nil, err
	}
	return s.toResponse(d), nil
}

func (s *draftService) SetNotes(ctx context.Context, id string, req *request.SetNotesRequest) (*response.DraftResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, requestValidationError(errs)
	}
	d, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.SetNotes(req.Notes); err != nil {
		return nil, err
	}
	return s.toResponse(d), nil
}

func (s *draftService) Validate(ctx context.Context, id string) (*response.ValidationResponse, error) {
	d, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &response.ValidationResponse{Valid: true, Failures: []response.FieldErrorResponse{}}
	if ve := d.Validate(); ve != nil {
		resp.Valid = false
		for _, f := range ve.Failures {
			resp.Failures = append(resp.Failures, response.FieldErrorResponse{Field: f.Field, Message: f.Message})
		}
	}
	return resp, nil
}

// Submit persists the draft. A submitted draft is forgotten; a failed one
// stays so the caller can retry.
func (s *draftService) Submit(ctx context.Context, id string) (*response.BookingResponse, error) {
	d, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.Submit(ctx, d)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *draftService) Discard(ctx context.Context, id string) error {
	d, err := s.lookup(ctx, id)
	if err != nil {
		if errors.Is(err, ErrDraftNotFound) {
			return nil
		}
		return err
	}
	if d.State() == DraftSubmitting {
		return ErrDraftBusy
	}

	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()
	return nil
}

func (s *draftService) toResponse(d *Draft) *response.DraftResponse {
	v := d.View()
	check := utils.ValidatePhone(v.Telephone)
	return &response.DraftResponse{
		ID:        v.ID,
		State:     string(v.State),
		Services:  response.ServicesToResponse(v.Services),
		Amount:    v.Amount,
		Date:      v.Date.Format(dateLayout),
		Time:      FormatSlot(v.TimeOfDay),
		Address:   v.Address,
		Telephone: v.Telephone,
		Phone: response.PhoneStatus{
			Valid:   check.Valid,
			Kind:    string(check.Kind),
			Message: check.Kind.Message(),
		},
		Email:     v.Email,
		PetID:     v.PetID,
		PetName:   v.PetName,
		Notes:     v.Notes,
		UpdatedAt: v.UpdatedAt,
	}
}
