package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrLoginDisabled      = errors.New("admin login disabled")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func HashPassword(p string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	return string(b), err
}

func VerifyPassword(plain, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// AdminPassword holds the bcrypt hash of the shared admin password.
type AdminPassword struct {
	hash string
}

// NewAdminPassword prefers a precomputed hash and otherwise hashes plain.
// With neither set the returned value rejects every login.
func NewAdminPassword(plain, hash string) (*AdminPassword, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, err
		}
		return &AdminPassword{hash: hash}, nil
	}
	if plain == "" {
		return &AdminPassword{}, nil
	}
	h, err := HashPassword(plain)
	if err != nil {
		return nil, err
	}
	return &AdminPassword{hash: h}, nil
}

func (p *AdminPassword) Enabled() bool { return p != nil && p.hash != "" }

func (p *AdminPassword) Verify(plain string) error {
	if !p.Enabled() {
		return ErrLoginDisabled
	}
	if err := VerifyPassword(plain, p.hash); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
