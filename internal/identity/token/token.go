// Package token issues and validates the HS256 session tokens carried as
// bearer tokens by API clients.
package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	identitymodels "aoiconsole/internal/identity/models"
	"aoiconsole/pkg/requestcontext"
)

const issuer = "aoiconsole"

type claims struct {
	jwt.RegisteredClaims
	Email          string `json:"email"`
	Role           string `json:"role"`
	Subdirectorate string `json:"subdirectorate"`
	Division       string `json:"division"`
}

// Manager signs and verifies session tokens.
type Manager struct {
	key []byte
	ttl time.Duration
}

// NewManager builds a Manager from the shared signing key.
func NewManager(key string, ttl time.Duration) *Manager {
	return &Manager{key: []byte(key), ttl: ttl}
}

// Issue signs a token for the user. Returns the token and its expiry.
func (m *Manager) Issue(user identitymodels.User, now time.Time) (string, time.Time, error) {
	expiry := now.Add(m.ttl)
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
		Email:          user.Email,
		Role:           user.Role,
		Subdirectorate: user.Subdirectorate,
		Division:       user.Division,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiry, nil
}

// ValidateToken parses and verifies a bearer token, reconstructing the
// session user. Satisfies the auth middleware's TokenValidator.
func (m *Manager) ValidateToken(raw string) (requestcontext.SessionUser, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.key, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return requestcontext.SessionUser{}, fmt.Errorf("parse token: %w", err)
	}

	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return requestcontext.SessionUser{}, fmt.Errorf("parse token subject: %w", err)
	}
	return requestcontext.SessionUser{
		ID:             id,
		Email:          c.Email,
		Role:           c.Role,
		Subdirectorate: c.Subdirectorate,
		Division:       c.Division,
	}, nil
}
