package repository

import (
	"context"
	"fmt"

	"petcare-booking/internal/data/entity"
	"petcare-booking/internal/data/store"

	"go.uber.org/zap"
)

type PetRepository interface {
	Create(ctx context.Context, pet *entity.Pet) error
	FindByID(ctx context.Context, id string) (*entity.Pet, error)
	FindByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Pet, int64, error)
	Delete(ctx context.Context, id string) error
}

type petRepository struct {
	coll *store.Collection[entity.Pet]
	log  *zap.Logger
}

func NewPetRepository(coll *store.Collection[entity.Pet], log *zap.Logger) PetRepository {
	return &petRepository{
		coll: coll,
		log:  log.With(zap.String("repository", "pet")),
	}
}

func (r *petRepository) Create(ctx context.Context, pet *entity.Pet) error {
	if err := r.coll.Append(ctx, *pet); err != nil {
		r.log.Error("Failed to create pet",
			zap.Error(err),
			zap.String("pet_id", pet.ID),
			zap.String("owner_id", pet.OwnerID),
		)
		return fmt.Errorf("create pet %s: %w", pet.ID, err)
	}
	return nil
}

func (r *petRepository) FindByID(ctx context.Context, id string) (*entity.Pet, error) {
	pet, err := r.coll.Get(ctx, id)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find pet %s: %w", id, err)
	}
	return &pet, nil
}

func (r *petRepository) FindByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Pet, int64, error) {
	pets, err := r.coll.Filter(ctx,
		func(p entity.Pet) bool { return p.OwnerID == ownerID },
		store.ListOptions{SortKey: "createdAt", Order: store.Desc},
	)
	if err != nil {
		r.log.Error("Failed to list pets", zap.Error(err), zap.String("owner_id", ownerID))
		return nil, 0, fmt.Errorf("list pets for %s: %w", ownerID, err)
	}
	return pointers(page(pets, limit, offset)), int64(len(pets)), nil
}

func (r *petRepository) Delete(ctx context.Context, id string) error {
	if err := r.coll.Remove(ctx, id); err != nil {
		r.log.Error("Failed to delete pet", zap.Error(err), zap.String("pet_id", id))
		return fmt.Errorf("delete pet %s: %w", id, err)
	}
	return nil
}
