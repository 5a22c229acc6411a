package usecase

import (
	"context"
	"sort"

	"petcare-booking/internal/data/entity"
	"petcare-booking/internal/data/repository"
	"petcare-booking/pkg/utils"
)

// IdentityProvider resolves who is making the call. A nil identity is a
// guest; guests work against the shared guest partition.
type IdentityProvider interface {
	CurrentUser(ctx context.Context) *entity.Identity
}

// ContextIdentity reads the identity the session middleware placed on the
// request context.
type ContextIdentity struct{}

func (ContextIdentity) CurrentUser(ctx context.Context) *entity.Identity {
	userID, email, name, ok := utils.GetUserFromContext(ctx)
	if !ok {
		return nil
	}
	return &entity.Identity{UserID: userID, Email: email, Name: name}
}

// StaticIdentity always reports the same identity. Nil means guest.
type StaticIdentity struct {
	Identity *entity.Identity
}

func (s StaticIdentity) CurrentUser(context.Context) *entity.Identity {
	return s.Identity
}

func ownerOf(ctx context.Context, ids IdentityProvider) string {
	return entity.PartitionKey(ids.CurrentUser(ctx))
}

// ownedPet loads a pet from the caller's partition. Pets of other owners
// are reported as ErrPetNotFound.
func ownedPet(ctx context.Context, pets repository.PetRepository, ids IdentityProvider, petID string) (*entity.Pet, error) {
	pet, err := pets.FindByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet == nil || pet.OwnerID != ownerOf(ctx, ids) {
		return nil, ErrPetNotFound
	}
	return pet, nil
}

// requestValidationError turns struct-tag failures into a ValidationError
// with a stable field order.
func requestValidationError(errs map[string]string) *ValidationError {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	ve := &ValidationError{}
	for _, f := range fields {
		ve.Failures = append(ve.Failures, FieldError{Field: f, Message: f + ": " + errs[f]})
	}
	return ve
}
