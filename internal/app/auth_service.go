// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/domain"
)

// DefaultMinPasswordLength is used when NewAuthService is given a non-positive minimum.
const DefaultMinPasswordLength = 7

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenCodec issues and verifies bearer tokens.
type TokenCodec interface {
	Issue(subject string, now time.Time) (auth.Token, error)
	Verify(raw string, now time.Time) (string, error)
}

// AuthService handles login, registration and bearer token validation.
type AuthService struct {
	users     domain.UserRepository
	carts     domain.CartRepository
	hasher    PasswordHasher
	tokens    TokenCodec
	minPwdLen int
	now       func() time.Time
	log       *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, carts domain.CartRepository, hasher PasswordHasher, tokens TokenCodec, minPasswordLength int, log *zap.Logger) *AuthService {
	if minPasswordLength <= 0 {
		minPasswordLength = DefaultMinPasswordLength
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:     users,
		carts:     carts,
		hasher:    hasher,
		tokens:    tokens,
		minPwdLen: minPasswordLength,
		now:       time.Now,
		log:       log,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Login authenticates a user and issues a bearer token. Unknown users and
// wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (auth.Token, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return auth.Token{}, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		s.log.Info("login rejected", zap.String("username", username), zap.String("reason", "unknown user"))
		return auth.Token{}, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Info("login rejected", zap.String("username", username), zap.String("reason", "password mismatch"))
		return auth.Token{}, domain.ErrInvalidCredentials
	}

	return s.issue(user.Username)
}

// LoginWithUser issues a token for a user already authenticated elsewhere
// (e.g. via SSO), provisioning the account on first sight. Provisioned
// accounts have an empty password hash and cannot log in with a password.
func (s *AuthService) LoginWithUser(ctx context.Context, username string) (auth.Token, error) {
	if strings.TrimSpace(username) == "" {
		return auth.Token{}, domain.BadRequest("username is required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return auth.Token{}, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		user, err = s.provision(ctx, username, "")
		if errors.Is(err, domain.ErrUsernameTaken) {
			// Lost a race with a concurrent first login.
			user, err = s.users.GetByUsername(ctx, username)
		}
		if err != nil {
			return auth.Token{}, err
		}
		if user == nil {
			return auth.Token{}, domain.ErrUserNotFound
		}
		s.log.Info("provisioned sso user", zap.String("username", username))
	}

	return s.issue(user.Username)
}

// Register validates the request and creates the user together with an
// empty cart.
func (s *AuthService) Register(ctx context.Context, username, password, confirmPassword string) (*domain.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, domain.BadRequest("username is required")
	}
	if utf8.RuneCountInString(password) < s.minPwdLen {
		return nil, domain.BadRequest("password must be at least %d characters", s.minPwdLen)
	}
	if password != confirmPassword {
		return nil, domain.BadRequest("password and confirmPassword do not match")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.provision(ctx, username, hash)
}

// Authenticate verifies a raw bearer token and returns its subject.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (string, error) {
	if raw == "" {
		return "", domain.ErrInvalidToken
	}
	subject, err := s.tokens.Verify(raw, s.now())
	if err != nil {
		return "", domain.ErrInvalidToken
	}
	return subject, nil
}

func (s *AuthService) provision(ctx context.Context, username, hash string) (*domain.User, error) {
	user, err := s.users.Create(ctx, username, hash)
	if err != nil {
		return nil, err
	}
	// A missing cart row reads back as an empty cart, so the account stands
	// even when seeding fails.
	if err := s.carts.SaveCart(ctx, domain.NewCart(user.Username, nil)); err != nil {
		s.log.Warn("seed empty cart failed", zap.String("username", user.Username), zap.Error(err))
	}
	return user, nil
}

func (s *AuthService) issue(username string) (auth.Token, error) {
	tok, err := s.tokens.Issue(username, s.now())
	if err != nil {
		return auth.Token{}, fmt.Errorf("issue token: %w", err)
	}
	return tok, nil
}
