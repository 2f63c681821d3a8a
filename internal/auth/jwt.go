// Package auth issues and verifies the HS256 bearer tokens that identify
// callers, and provides the fiber middleware chain that attaches and
// enforces the resulting identity.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is how long issued tokens stay valid.
const TokenTTL = 24 * time.Hour

// Identity is the verified caller extracted from a token.
type Identity struct {
	Username string
	IsAdmin  bool
}

type tokenClaims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// MakeToken signs a token for the given identity.
func MakeToken(id Identity, secret []byte) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Username: id.Username,
		IsAdmin:  id.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// VerifyToken validates a token string and extracts the caller identity.
// Expired tokens, bad signatures, and non-HMAC algorithms are all rejected.
func VerifyToken(tokenStr string, secret []byte) (Identity, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return Identity{}, err
	}

	c, _ := tok.Claims.(*tokenClaims)
	if c == nil || c.Username == "" {
		return Identity{}, errors.New("invalid claims")
	}
	return Identity{Username: c.Username, IsAdmin: c.IsAdmin}, nil
}
