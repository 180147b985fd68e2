// Package auth issues and verifies the bearer tokens that carry a caller's
// identity across the gateway boundary.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marketmesh/marketmesh/internal/apperrors"
	"github.com/marketmesh/marketmesh/internal/models"
)

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies identity tokens with a shared HMAC secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a token issuer.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token encoding the user id and role.
func (t *TokenIssuer) Issue(userID string, role models.Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	})
	return token.SignedString(t.secret)
}

// Verify parses a token and returns the identity it asserts.
func (t *TokenIssuer) Verify(tokenString string) (models.Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return models.Identity{}, apperrors.NewAuthentication("invalid or expired token")
	}
	return models.Identity{UserID: c.Subject, Role: models.Role(c.Role)}, nil
}
