package usecase

import (
	"context"
	"errors"

	"petcare-booking/internal/data/repository"
	"petcare-booking/internal/dto/response"

	"go.uber.org/zap"
)

var ErrUserNotFound = errors.New("user not found")

type UserService interface {
	GetProfile(ctx context.Context) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	identity IdentityProvider
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, identity IdentityProvider, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		identity: identity,
		log:      log.With(zap.String("service", "user")),
	}
}

// GetProfile returns the signed-in user's account. Guests have no profile.
func (us *userService) GetProfile(ctx context.Context) (*response.UserResponse, error) {
	id := us.identity.CurrentUser(ctx)
	if id == nil {
		return nil, ErrUnauthenticated
	}

	user, err := us.userRepo.FindByID(ctx, id.UserID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", id.UserID))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}
