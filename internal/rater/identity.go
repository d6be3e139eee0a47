// Package rater mints and verifies anonymous rater identities. A rater token
// carries a random UUID subject signed with HMAC, so a visitor can rate
// without an account but cannot forge someone else's attribution by editing
// what they store locally.
package rater

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry, or
// claim checks.
var ErrInvalidToken = errors.New("invalid or expired rater token")

const defaultTTL = 365 * 24 * time.Hour

// Issuer mints and verifies rater identity tokens
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewIssuer creates a token issuer. ttl of zero defaults to one year; rater
// identities are meant to be long-lived.
func NewIssuer(secret, issuer string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("rater token secret is required")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Issuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

// Issue mints a fresh identity and returns the rater ID with its signed token
func (i *Issuer) Issue() (raterID, token string, err error) {
	raterID = uuid.NewString()
	now := time.Now()

	claims := jwt.MapClaims{
		"sub": raterID,
		"iss": i.issuer,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign rater token: %w", err)
	}
	return raterID, token, nil
}

// Verify checks a token and returns the rater ID it carries
func (i *Issuer) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if iss, _ := claims["iss"].(string); iss != i.issuer {
		return "", ErrInvalidToken
	}

	raterID, ok := claims["sub"].(string)
	if !ok || raterID == "" {
		return "", ErrInvalidToken
	}
	return raterID, nil
}
