// Package security covers the request-level protections: pupil tokens
// and login rate limiting.
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer mints and verifies the signed bearer tokens pupils carry
// between requests.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// PupilClaims are the claims carried in a pupil token.
type PupilClaims struct {
	PupilID int64 `json:"pupil_id"`
	jwt.RegisteredClaims
}

// NewTokenIssuer creates a token issuer. A zero ttl defaults to 12 hours.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}, nil
}

// Mint signs a new token for a pupil.
func (t *TokenIssuer) Mint(pupilID int64) (string, error) {
	now := time.Now()
	claims := PupilClaims{
		PupilID: pupilID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses a token string and returns the pupil ID it carries.
func (t *TokenIssuer) Verify(tokenString string) (int64, error) {
	claims := &PupilClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	return claims.PupilID, nil
}
