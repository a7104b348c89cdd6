package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPassword is returned for a login attempt with the wrong password.
var ErrInvalidPassword = errors.New("invalid password")

// Gate authenticates the shared password using bcrypt.
type Gate struct {
	passwordHash []byte
}

// NewGate creates a gate around a bcrypt hash of the shared password.
func NewGate(passwordHash string) *Gate {
	return &Gate{passwordHash: []byte(passwordHash)}
}

// NewGateFromPassword hashes a plaintext password at startup and returns
// a gate around it. Intended for dev setups where only AUTH_PASSWORD is
// configured.
func NewGateFromPassword(password string) (*Gate, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &Gate{passwordHash: hash}, nil
}

// Check compares the candidate against the configured password.
func (g *Gate) Check(password string) error {
	if err := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}
