package usecase

import (
	"context"
	"errors"
	"fmt"

	"petcare-booking/internal/data/entity"
	"petcare-booking/internal/data/repository"
	"petcare-booking/internal/dto/request"
	"petcare-booking/internal/dto/response"
	"petcare-booking/pkg/imagestore"
	"petcare-booking/pkg/utils"

	"go.uber.org/zap"
)

var ErrPetNotFound = errors.New("pet not found")

type PetService interface {
	CreatePet(ctx context.Context, req *request.CreatePetRequest) (*response.PetResponse, error)
	ListPets(ctx context.Context, req *request.PaginatedRequest) (*response.Page[response.PetResponse], error)
	GetPet(ctx context.Context, id string) (*response.PetResponse, error)
	DeletePet(ctx context.Context, id string) error
}

type petService struct {
	repo     repository.PetRepository
	images   *imagestore.Store
	engine   *DraftEngine
	identity IdentityProvider
	log      *zap.Logger
}

// NewPetService wires the pet registry. images may be nil, in which case
// inline image uploads are refused.
func NewPetService(repo repository.PetRepository, images *imagestore.Store, engine *DraftEngine, identity IdentityProvider, log *zap.Logger) PetService {
	return &petService{
		repo:     repo,
		images:   images,
		engine:   engine,
		identity: identity,
		log:      log.With(zap.String("service", "pet")),
	}
}

func (s *petService) CreatePet(ctx context.Context, req *request.CreatePetRequest) (*response.PetResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, requestValidationError(errs)
	}

	pet := &entity.Pet{
		Base: entity.Base{
			ID:        utils.GenerateRecordID("pet"),
			CreatedAt: s.engine.Now(),
		},
		OwnerID:  ownerOf(ctx, s.identity),
		Name:     req.Name,
		Type:     entity.PetType(req.Type),
		Breed:    req.Breed,
		Age:      *req.Age,
		Gender:   entity.PetGender(req.Gender),
		Weight:   req.Weight,
		Notes:    req.Notes,
		ImageURL: req.ImageURL,
	}

	if req.Image != "" {
		if s.images == nil {
			return nil, &ValidationError{Failures: []FieldError{{"image", "Image uploads are not enabled"}}}
		}
		url, err := s.images.SaveDataURL(pet.ID, req.Image)
		if err != nil {
			if errors.Is(err, imagestore.ErrInvalidImage) {
				return nil, &ValidationError{Failures: []FieldError{{"image", "Please upload a valid image"}}}
			}
			return nil, fmt.Errorf("store pet image: %w", err)
		}
		pet.ImageURL = url
	}

	if err := s.repo.Create(ctx, pet); err != nil {
		s.removeImage(pet)
		return nil, err
	}

	s.log.Info("Pet created", zap.String("pet_id", pet.ID), zap.String("owner_id", pet.OwnerID))
	resp := response.PetToResponse(pet)
	return &resp, nil
}

func (s *petService) ListPets(ctx context.Context, req *request.PaginatedRequest) (*response.Page[response.PetResponse], error) {
	pets, total, err := s.repo.FindByOwner(ctx, ownerOf(ctx, s.identity), req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	return response.NewPage(pets, response.PetToResponse, req.Page, req.Limit(), total), nil
}

func (s *petService) GetPet(ctx context.Context, id string) (*response.PetResponse, error) {
	pet, err := s.findOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, ErrPetNotFound
	}
	resp := response.PetToResponse(pet)
	return &resp, nil
}

func (s *petService) DeletePet(ctx context.Context, id string) error {
	pet, err := s.findOwned(ctx, id)
	if err != nil {
		return err
	}
	if pet == nil {
		return nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeImage(pet)
	s.log.Info("Pet deleted", zap.String("pet_id", id))
	return nil
}

func (s *petService) findOwned(ctx context.Context, id string) (*entity.Pet, error) {
	pet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pet == nil || pet.OwnerID != ownerOf(ctx, s.identity) {
		return nil, nil
	}
	return pet, nil
}

func (s *petService) removeImage(pet *entity.Pet) {
	if s.images == nil || pet.ImageURL == "" {
		return
	}
	if err := s.images.Delete(pet.ImageURL); err != nil {
		s.log.Warn("Failed to remove pet image", zap.Error(err), zap.String("pet_id", pet.ID))
	}
}
