package session

import "errors"

// Sentinel errors with a stable contract for the HTTP layer:
// both token failures collapse to "not authenticated" at the boundary,
// but logs keep the distinction.
var (
	// ErrTokenExpired means the token was well-formed and correctly signed
	// but its expiry is in the past (beyond the configured clock skew).
	ErrTokenExpired = errors.New("session: token expired")

	// ErrInvalidSignature covers every other verification failure: malformed
	// token, wrong algorithm, wrong issuer, bad signature, missing claims.
	ErrInvalidSignature = errors.New("session: invalid token")

	// ErrConfig reports unusable session configuration. Callers treat this
	// as fatal at startup; tokens must never be signed with a guessable or
	// empty secret.
	ErrConfig = errors.New("session: invalid config")
)
