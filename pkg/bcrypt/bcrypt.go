// Package bcrypt hashes operator passwords.
package bcrypt

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt hashes without
// truncating it.
const MaxPasswordBytes = 72

const (
	MinCost     = bcrypt.MinCost
	MaxCost     = bcrypt.MaxCost
	DefaultCost = bcrypt.DefaultCost
)

var (
	ErrPasswordTooLong = fmt.Errorf("password is longer than %d bytes", MaxPasswordBytes)
	ErrMismatch        = errors.New("password does not match")
)

type IBcrypt interface {
	HashPassword(password string) (string, error)
	ComparePassword(hashPassword string, password string) error
}

type hasher struct {
	cost int
}

// New returns a hasher using cost. Zero selects DefaultCost.
func New(cost int) (IBcrypt, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if err := ValidateCost(cost); err != nil {
		return nil, err
	}
	return &hasher{cost: cost}, nil
}

func ValidateCost(cost int) error {
	if cost < MinCost || cost > MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d, got %d", MinCost, MaxCost, cost)
	}
	return nil
}

// HashPassword rejects passwords over MaxPasswordBytes. Validation counts
// characters, so a multi-byte password can pass it and still be too long.
func (h *hasher) HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	result, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(result), nil
}

// ComparePassword returns ErrMismatch for a wrong password and any other
// error for a malformed hash.
func (h *hasher) ComparePassword(hashPassword string, password string) error {
	if len(password) > MaxPasswordBytes {
		return ErrMismatch
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashPassword), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}
