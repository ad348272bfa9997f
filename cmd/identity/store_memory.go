package identity

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is a dev-only fallback when DB is not configured.
// It implements the full Store contract, including the email uniqueness
// guarantee under concurrent signups, behind a single mutex.
type MemoryStore struct {
	mu      sync.Mutex
	byID    map[string]*memUser
	byEmail map[string]string // email_norm -> user id
}

type memUser struct {
	user         User
	passwordHash string
}

// NewMemoryStore constructs an in-memory Store implementation.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*memUser),
		byEmail: make(map[string]string),
	}
}

// CreateUser creates a user, enforcing email uniqueness.
func (s *MemoryStore) CreateUser(ctx context.Context, in CreateUserInput) (CreateUserResult, error) {
	const op = "identity.CreateUser"

	if err := ctx.Err(); err != nil {
		return CreateUserResult{}, err
	}

	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)

	if fullName == "" {
		return CreateUserResult{}, pgInvalid(op, "full name is required")
	}
	if email == "" {
		return CreateUserResult{}, pgInvalid(op, "email is required")
	}
	if strings.TrimSpace(in.Password) == "" {
		return CreateUserResult{}, pgInvalid(op, "password is required")
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	emailNorm := NormalizeEmail(email)

	// Hash outside the lock: bcrypt is deliberately slow and must not
	// serialize unrelated signups.
	pwHash, err := HashPassword(in.Password)
	if err != nil {
		return CreateUserResult{}, pgInvalid(op, err.Error())
	}

	userID, err := NewULID(now)
	if err != nil {
		return CreateUserResult{}, err
	}

	u := User{
		ID:        userID,
		FullName:  fullName,
		Email:     email,
		EmailNorm: emailNorm,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[emailNorm]; exists {
		return CreateUserResult{}, ConflictError{Op: op, Field: "email"}
	}

	s.byID[userID] = &memUser{user: u, passwordHash: pwHash}
	s.byEmail[emailNorm] = userID

	return CreateUserResult{User: u}, nil
}

// GetUserAuthByEmail finds a user plus credential hash by normalized email.
func (s *MemoryStore) GetUserAuthByEmail(ctx context.Context, email string) (UserAuth, error) {
	const op = "identity.GetUserAuthByEmail"

	if err := ctx.Err(); err != nil {
		return UserAuth{}, err
	}

	emailNorm := NormalizeEmail(email)
	if emailNorm == "" {
		return UserAuth{}, pgInvalid(op, "missing email")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[emailNorm]
	if !ok {
		return UserAuth{}, NotFoundError{Op: op, Resource: "user"}
	}
	mu := s.byID[id]

	return UserAuth{User: mu.user, PasswordHash: mu.passwordHash}, nil
}

// GetUserByID returns a user without credential material.
func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (User, error) {
	const op = "identity.GetUserByID"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if strings.TrimSpace(id) == "" {
		return User{}, pgInvalid(op, "missing user id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mu, ok := s.byID[id]
	if !ok {
		return User{}, NotFoundError{Op: op, Resource: "user"}
	}
	return mu.user, nil
}

// UpdateProfilePicture persists a new picture URL for the user.
func (s *MemoryStore) UpdateProfilePicture(ctx context.Context, userID, pictureURL string, now time.Time) (User, error) {
	const op = "identity.UpdateProfilePicture"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, pgInvalid(op, "missing user id")
	}
	if strings.TrimSpace(pictureURL) == "" {
		return User{}, pgInvalid(op, "missing picture url")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mu, ok := s.byID[userID]
	if !ok {
		return User{}, NotFoundError{Op: op, Resource: "user"}
	}

	mu.user.ProfilePicURL = pictureURL
	mu.user.UpdatedAt = now

	return mu.user, nil
}
