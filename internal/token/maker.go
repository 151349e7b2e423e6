// Package token issues and verifies the signed session tokens that carry a
// user's identity, role and subscription snapshot between requests.
// Verification is fully offline: signature plus expiry, no store access.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"app/internal/apperr"
)

// Subscription is the billing snapshot embedded in a session token.
// It can go stale relative to the store; callers that care about current
// billing state must re-read the user record.
type Subscription struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
}

// Identity is the set of fields a token is issued for.
type Identity struct {
	UserID       string
	Email        string
	Role         string
	Subscription Subscription
}

// Claims is the JWT payload for a session token.
type Claims struct {
	UserID       string       `json:"uid"`
	Email        string       `json:"email"`
	Role         string       `json:"role"`
	Subscription Subscription `json:"subscription"`
	jwt.RegisteredClaims
}

// Maker issues and verifies session tokens.
type Maker interface {
	Issue(identity Identity) (string, error)
	Verify(tokenStr string) (*Claims, error)
}

// HS256Maker signs tokens with a shared secret.
type HS256Maker struct {
	secret []byte
	ttl    time.Duration
}

// NewMaker returns an HS256Maker with the given secret and token lifetime.
func NewMaker(secret string, ttl time.Duration) *HS256Maker {
	return &HS256Maker{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token embedding the identity, expiring after the configured TTL.
func (m *HS256Maker) Issue(identity Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:       identity.UserID,
		Email:        identity.Email,
		Role:         identity.Role,
		Subscription: identity.Subscription,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks signature and expiry and returns the embedded claims.
// Any failure is reported as an Authentication error.
func (m *HS256Maker) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.Authentication, "token expired", err)
		}
		return nil, apperr.Wrap(apperr.Authentication, "invalid token", err)
	}
	if !tok.Valid {
		return nil, apperr.E(apperr.Authentication, "invalid token")
	}
	return claims, nil
}
