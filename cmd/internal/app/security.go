package app

import (
	"errors"
	"fmt"

	"relay/cmd/internal/auth/session"
)

// ValidateSecurityConfig enforces Relay's security policy at startup.
//
// Fail-fast is intentional: a server that cannot sign sessions must refuse
// to boot rather than run with an empty or guessable secret. The check goes
// through the same loader the session subsystem uses, so policy and runtime
// cannot drift apart.
func ValidateSecurityConfig() (session.Config, error) {
	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		if errors.Is(err, session.ErrConfig) {
			return session.Config{}, errors.New(
				"security policy: RELAY_JWT_SECRET must be set to at least 32 bytes")
		}
		return session.Config{}, fmt.Errorf("security policy: %w", err)
	}
	return sessCfg, nil
}
