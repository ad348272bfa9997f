package identity

import (
	"context"
	"time"
)

// User is Relay's canonical security principal.
// PasswordHash never lives here; it travels only inside UserAuth so that
// response mappers cannot leak it by accident.
type User struct {
	ID        string
	FullName  string
	Email     string
	EmailNorm string

	// ProfilePicURL is empty until the user uploads a picture.
	ProfilePicURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserAuth bundles a user with its stored credential hash for login checks.
type UserAuth struct {
	User         User
	PasswordHash string
}

// CreateUserInput describes a signup request.
// Password is the plaintext; the store hashes it before persisting and the
// plaintext is never stored or logged.
type CreateUserInput struct {
	FullName string
	Email    string
	Password string
	Now      time.Time
}

// CreateUserResult returns the created user.
type CreateUserResult struct {
	User User
}

// Store is the identity persistence boundary.
//
// Implementations must enforce email uniqueness on the normalized form and
// surface violations as ConflictError regardless of whether the duplicate is
// detected before or during the insert; concurrent signups racing on one
// email must resolve to exactly one winner.
type Store interface {
	CreateUser(ctx context.Context, in CreateUserInput) (CreateUserResult, error)

	// GetUserAuthByEmail returns the user plus credential hash for login.
	// Returns a NotFoundError for unknown emails.
	GetUserAuthByEmail(ctx context.Context, email string) (UserAuth, error)

	// GetUserByID returns the user without credential material.
	GetUserByID(ctx context.Context, id string) (User, error)

	// UpdateProfilePicture persists a new durable picture URL and returns the
	// updated user.
	UpdateProfilePicture(ctx context.Context, userID, pictureURL string, now time.Time) (User, error)
}
