// Package auth signs and decodes session tokens
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/models"
)

// TokenGenerator handles JWT session token generation and decoding
type TokenGenerator struct {
	secret string
	expiry time.Duration
	now    func() time.Time
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, expiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret: secret,
		expiry: expiry,
		now:    time.Now,
	}
}

// Expiry returns the nominal lifetime of a token
func (tg *TokenGenerator) Expiry() time.Duration {
	return tg.expiry
}

// Claims is the decoded content of a session token
type Claims struct {
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at the given instant
func (c *Claims) Expired(at time.Time) bool {
	return !c.ExpiresAt.After(at)
}

// Generate signs a token whose subject is the user id.
// Every token carries a random id so two tokens issued in the same second differ.
func (tg *TokenGenerator) Generate(userID string) (string, error) {
	now := tg.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tg.expiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Decode verifies the token signature and returns its claims.
// Expiry is decoded but not enforced; callers decide whether an expired token is acceptable.
func (tg *TokenGenerator) Decode(tokenString string) (*Claims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tg.secret), nil
	}, jwt.WithoutClaimsValidation(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w: %w", models.ErrInvalidSession, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid: %w", models.ErrInvalidSession)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("subject not found in token: %w", models.ErrInvalidSession)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("expiry not found in token: %w", models.ErrInvalidSession)
	}

	return &Claims{
		UserID:    claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
