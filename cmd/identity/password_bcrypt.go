// Package identity password hashing (bcrypt).
//
// This file is identity's public hashing surface:
//
//   - HashPassword
//   - VerifyPassword
//
// while cmd/security/password stays the single source of truth for cost and
// length policy (defaults + env overrides). identity must not silently drift
// from that configuration.
package identity

import (
	"errors"

	"relay/cmd/security/password"
)

// HashPassword returns a bcrypt hash of passwordPlain.
//
// Security contract:
//   - Enforces a baseline min length of 6 regardless of env policy.
//   - Honors a stricter minimum from env (via security/password).
func HashPassword(passwordPlain string) (string, error) {
	cfg, err := password.FromEnv()
	if err != nil {
		// Treat invalid env as an operational error, not a weak fallback.
		return "", err
	}

	// Baseline is min 6 chars, but env may be stricter. Always take the stricter one.
	if cfg.Policy.MinLength < 6 {
		cfg.Policy.MinLength = 6
	}

	enc, err := cfg.Hash(passwordPlain)
	if err != nil {
		switch {
		case errors.Is(err, password.ErrPasswordTooShort):
			return "", errors.New("password too short")
		case errors.Is(err, password.ErrPasswordTooLong):
			return "", errors.New("password too long")
		default:
			return "", err
		}
	}

	return enc, nil
}

// VerifyPassword checks a password against a stored bcrypt hash.
//
// Returns (false, nil) on a well-formed mismatch. An error means the stored
// hash is structurally invalid or configuration is broken; callers must treat
// that as a server fault, never as "wrong password".
func VerifyPassword(passwordPlain string, encoded string) (bool, error) {
	cfg, err := password.FromEnv()
	if err != nil {
		return false, err
	}

	ok, err := cfg.Verify(encoded, passwordPlain)
	if err != nil {
		if errors.Is(err, password.ErrInvalidHash) {
			return false, errors.New("invalid bcrypt hash format")
		}
		return false, err
	}
	return ok, nil
}
