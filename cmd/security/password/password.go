package password

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Validate checks the plaintext against the length policy.
func (c Config) Validate(plain string) error {
	if len(plain) < c.Policy.MinLength {
		return ErrPasswordTooShort
	}
	if c.Policy.MaxLength > 0 && len(plain) > c.Policy.MaxLength {
		return ErrPasswordTooLong
	}
	return nil
}

// Hash returns a bcrypt hash of plain.
//
// bcrypt generates a random per-password salt and embeds it (with the cost)
// in the encoded output, so Verify needs no separate salt storage. Two
// hashes of the same password therefore never match each other.
func (c Config) Hash(plain string) (string, error) {
	if err := c.Validate(plain); err != nil {
		return "", err
	}

	cost := c.Cost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", ErrConfig
	}

	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify checks plain against an encoded bcrypt hash.
//
// A well-formed mismatch returns (false, nil). ErrInvalidHash is returned
// only when encoded is not a parseable bcrypt string; that is an internal
// data corruption, never a client error.
func (c Config) Verify(encoded, plain string) (bool, error) {
	if strings.TrimSpace(encoded) == "" {
		return false, ErrInvalidHash
	}

	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		// Truncated hash, unknown prefix, impossible cost: structural.
		return false, ErrInvalidHash
	}
}
