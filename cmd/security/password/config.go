package password

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Policy bounds accepted plaintext lengths.
//
// MaxLength must never exceed 72: bcrypt only reads the first 72 bytes of
// input, and accepting longer passwords would silently weaken them.
type Policy struct {
	MinLength int
	MaxLength int
}

// Config defines bcrypt hashing parameters and the plaintext policy.
type Config struct {
	// Cost is the bcrypt cost factor. Each increment doubles hashing time;
	// the default trades sub-second latency for brute-force resistance.
	Cost int

	Policy Policy
}

// DefaultConfig returns the baseline configuration: bcrypt cost 10,
// passwords between 6 and 72 bytes.
func DefaultConfig() Config {
	return Config{
		Cost: 10,
		Policy: Policy{
			MinLength: 6,
			MaxLength: 72,
		},
	}
}

// FromEnv returns DefaultConfig overridden by environment variables.
//
// Optional:
//   - RELAY_BCRYPT_COST (bcrypt.MinCost..bcrypt.MaxCost)
//   - RELAY_PASSWORD_MIN_LENGTH
//   - RELAY_PASSWORD_MAX_LENGTH (capped at 72)
//
// Returns ErrConfig if a variable is set but invalid.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("RELAY_BCRYPT_COST")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < bcrypt.MinCost || n > bcrypt.MaxCost {
			return Config{}, ErrConfig
		}
		cfg.Cost = n
	}

	if v := strings.TrimSpace(os.Getenv("RELAY_PASSWORD_MIN_LENGTH")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, ErrConfig
		}
		cfg.Policy.MinLength = n
	}

	if v := strings.TrimSpace(os.Getenv("RELAY_PASSWORD_MAX_LENGTH")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 72 {
			return Config{}, ErrConfig
		}
		cfg.Policy.MaxLength = n
	}

	if cfg.Policy.MinLength > cfg.Policy.MaxLength {
		return Config{}, ErrConfig
	}

	return cfg, nil
}
