package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// ErrInvalidToken is returned by Verify for any failed check.
var ErrInvalidToken = errors.New("invalid token")

// Token is an issued bearer credential.
type Token struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Raw       string
}

// TokenCodec issues and verifies HMAC-signed, expiring tokens. It holds no
// mutable state and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	method jwt.SigningMethod
}

// NewTokenCodec creates a codec for the given secret and TTL. Rotating the
// secret invalidates every token issued under the previous one.
func NewTokenCodec(secret []byte, ttl time.Duration) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &TokenCodec{secret: key, ttl: ttl, method: jwt.SigningMethodHS512}, nil
}

// TTL returns the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for subject that expires at now+TTL.
func (c *TokenCodec) Issue(subject string, now time.Time) (Token, error) {
	iat := jwt.NewNumericDate(now)
	exp := jwt.NewNumericDate(now.Add(c.ttl))
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  iat,
		ExpiresAt: exp,
	}
	raw, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Subject: subject, IssuedAt: iat.Time, ExpiresAt: exp.Time, Raw: raw}, nil
}

// Verify checks the signature and that now is strictly before the expiry,
// and returns the subject.
func (c *TokenCodec) Verify(raw string, now time.Time) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
