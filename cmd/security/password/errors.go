package password

import "errors"

var (
	// ErrPasswordTooShort is returned when the password violates the minimum length policy.
	ErrPasswordTooShort = errors.New("password too short")

	// ErrPasswordTooLong is returned when the password exceeds the maximum length policy.
	// bcrypt silently truncates input beyond 72 bytes, so we reject instead.
	ErrPasswordTooLong = errors.New("password too long")

	// ErrInvalidHash is returned by Verify when the stored hash is structurally invalid.
	ErrInvalidHash = errors.New("invalid bcrypt hash")

	// ErrConfig is returned for invalid hashing configuration.
	ErrConfig = errors.New("invalid password config")
)
