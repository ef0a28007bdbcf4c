// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// User is a registered account and its stored credential.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines the port for credential persistence operations.
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	// Create fails with ErrUsernameTaken when the username already exists.
	Create(ctx context.Context, username, passwordHash string) (*User, error)
}

// ErrUsernameTaken is returned by UserRepository.Create on a duplicate username.
var ErrUsernameTaken = &Error{Kind: KindBadRequest, Msg: "username already taken"}
