package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenManager mints one admin token per process. Every successful login receives the same
// token and it stays valid until restart.
type TokenManager struct {
	secret []byte
	issuer string
	token  string
}

// NewTokenManager signs the process token. An empty secret is replaced with random bytes,
// which is fine because the token never outlives the process.
func NewTokenManager(secret, issuer string) (*TokenManager, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
	}
	tm := &TokenManager{secret: key, issuer: issuer}

	claims := jwt.RegisteredClaims{
		Subject:  "admin",
		Issuer:   issuer,
		ID:       uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return nil, fmt.Errorf("sign admin token: %w", err)
	}
	tm.token = tok
	return tm, nil
}

func (tm *TokenManager) Token() string { return tm.token }

func (tm *TokenManager) Verify(tok string) error {
	if tok == "" || subtle.ConstantTimeCompare([]byte(tok), []byte(tm.token)) != 1 {
		return ErrInvalidToken
	}
	_, err := jwt.ParseWithClaims(tok, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tm.issuer))
	if err != nil {
		return ErrInvalidToken
	}
	return nil
}
