package repository

import (
	"context"
	"fmt"
	"strings"

	"petcare-booking/internal/data/entity"
	"petcare-booking/internal/data/store"

	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

type userRepository struct {
	coll *store.Collection[entity.User]
	log  *zap.Logger
}

func NewUserRepository(coll *store.Collection[entity.User], log *zap.Logger) UserRepository {
	return &userRepository{
		coll: coll,
		log:  log.With(zap.String("repository", "user")),
	}
}

// Create inserts a user. Emails are stored lower-cased.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	user.Email = strings.ToLower(user.Email)
	if err := ur.coll.Append(ctx, *user); err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}
	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := ur.coll.Get(ctx, id)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return &user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	users, err := ur.coll.Filter(ctx, func(u entity.User) bool { return u.Email == email }, store.ListOptions{})
	if err != nil {
		ur.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}
