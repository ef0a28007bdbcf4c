package app

import (
	"context"

	"storefront/internal/domain"
)

// UserService answers user lookups.
type UserService struct {
	users domain.UserRepository
}

// NewUserService creates a UserService backed by the given repository.
func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetByUsername returns the user or domain.ErrUserNotFound.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return requireUser(s.users.GetByUsername(ctx, username))
}

// GetByID returns the user or domain.ErrUserNotFound.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return requireUser(s.users.GetByID(ctx, id))
}

func requireUser(u *domain.User, err error) (*domain.User, error) {
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// ensureOwner resolves username and checks that actor may act on it.
// Unknown users are reported before ownership so that a path username
// never hides a 404 behind a 403.
func ensureOwner(ctx context.Context, users domain.UserRepository, actor, username string) error {
	if _, err := requireUser(users.GetByUsername(ctx, username)); err != nil {
		return err
	}
	if actor != username {
		return domain.Forbidden("cannot act on behalf of another user")
	}
	return nil
}
