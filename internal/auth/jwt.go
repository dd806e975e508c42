// Package auth mints and checks admin bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "royalwood-storefront"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNotAdmin     = errors.New("admin privileges required")
	ErrNoSecret     = errors.New("admin secret not configured")
)

// AdminClaims carries the admin flag checked by the admin routes.
type AdminClaims struct {
	jwt.RegisteredClaims
	IsAdmin bool `json:"isAdmin"`
}

type AdminTokens struct {
	secret []byte
	now    func() time.Time
}

func NewAdminTokens(secret string) *AdminTokens {
	return &AdminTokens{secret: []byte(secret), now: time.Now}
}

// Issue signs an HS256 token for subject. isAdmin is written as given so
// non-admin tokens can be minted for testing the gate.
func (a *AdminTokens) Issue(subject string, isAdmin bool, ttl time.Duration) (string, error) {
	if len(a.secret) == 0 {
		return "", ErrNoSecret
	}
	now := a.now()
	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		IsAdmin: isAdmin,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify parses raw and requires a valid signature, an unexpired token and the admin flag.
func (a *AdminTokens) Verify(raw string) (*AdminClaims, error) {
	if len(a.secret) == 0 {
		return nil, ErrNoSecret
	}
	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !claims.IsAdmin {
		return nil, ErrNotAdmin
	}
	return claims, nil
}
