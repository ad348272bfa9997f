package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements identity persistence over PostgreSQL.
//
// Design notes:
//   - The pgx pool is owned by the caller; this store must NOT close it.
//   - Schema/table identifiers are safely quoted to avoid SQL injection via identifiers.
//   - Email uniqueness is authoritative at the unique index on email_norm;
//     unique violations are mapped to ConflictError so racing signups and
//     pre-checked signups fail identically.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the identity store (default "relay").
// The schema name is validated to be a legal PostgreSQL identifier.
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("identity: empty schema")
		}
		if !pgIdentRe.MatchString(schema) {
			return fmt.Errorf("identity: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore with secure defaults.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "relay",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return st, nil
}

// CreateUser creates a new user and its credentials transactionally.
func (s *PostgresStore) CreateUser(ctx context.Context, in CreateUserInput) (CreateUserResult, error) {
	const op = "identity.CreateUser"

	if s == nil || s.pool == nil {
		return CreateUserResult{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
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

	pwHash, err := HashPassword(in.Password)
	if err != nil {
		return CreateUserResult{}, pgInvalid(op, err.Error())
	}

	userID, err := NewULID(now)
	if err != nil {
		return CreateUserResult{}, err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return CreateUserResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	users := pgIdent(s.schema, "users")
	creds := pgIdent(s.schema, "user_credentials")

	_, err = tx.Exec(ctx,
		`INSERT INTO `+users+` (
		     id, full_name, email, email_norm, profile_pic_url, created_at, updated_at
		   ) VALUES ($1, $2, $3, $4, '', $5, $5)`,
		userID,
		fullName,
		email,
		emailNorm,
		now,
	)
	if err != nil {
		if field, ok := pgClassifyUniqueViolation(err); ok {
			return CreateUserResult{}, ConflictError{Op: op, Field: field}
		}
		return CreateUserResult{}, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO `+creds+` (user_id, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $3)`,
		userID, pwHash, now,
	)
	if err != nil {
		// An FK failure here indicates programming/schema inconsistency.
		return CreateUserResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return CreateUserResult{}, err
	}

	out := User{
		ID:        userID,
		FullName:  fullName,
		Email:     email,
		EmailNorm: emailNorm,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return CreateUserResult{User: out}, nil
}

// GetUserAuthByEmail finds a user by normalized email, including the
// credential hash needed for login verification.
func (s *PostgresStore) GetUserAuthByEmail(ctx context.Context, email string) (UserAuth, error) {
	const op = "identity.GetUserAuthByEmail"

	if s == nil || s.pool == nil {
		return UserAuth{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return UserAuth{}, err
	}

	emailNorm := NormalizeEmail(email)
	if emailNorm == "" {
		return UserAuth{}, pgInvalid(op, "missing email")
	}

	users := pgIdent(s.schema, "users")
	creds := pgIdent(s.schema, "user_credentials")

	var out UserAuth
	err := s.pool.QueryRow(ctx,
		`SELECT u.id, u.full_name, u.email, u.email_norm, u.profile_pic_url,
		        u.created_at, u.updated_at, c.password_hash
		   FROM `+users+` u
		   JOIN `+creds+` c ON c.user_id = u.id
		  WHERE u.email_norm = $1`,
		emailNorm,
	).Scan(
		&out.User.ID,
		&out.User.FullName,
		&out.User.Email,
		&out.User.EmailNorm,
		&out.User.ProfilePicURL,
		&out.User.CreatedAt,
		&out.User.UpdatedAt,
		&out.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserAuth{}, NotFoundError{Op: op, Resource: "user"}
		}
		return UserAuth{}, err
	}

	return out, nil
}

// GetUserByID returns a user without credential material.
func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (User, error) {
	const op = "identity.GetUserByID"

	if s == nil || s.pool == nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if strings.TrimSpace(id) == "" {
		return User{}, pgInvalid(op, "missing user id")
	}

	users := pgIdent(s.schema, "users")

	var out User
	err := s.pool.QueryRow(ctx,
		`SELECT id, full_name, email, email_norm, profile_pic_url, created_at, updated_at
		   FROM `+users+`
		  WHERE id = $1`,
		id,
	).Scan(
		&out.ID,
		&out.FullName,
		&out.Email,
		&out.EmailNorm,
		&out.ProfilePicURL,
		&out.CreatedAt,
		&out.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, NotFoundError{Op: op, Resource: "user"}
		}
		return User{}, err
	}

	return out, nil
}

// UpdateProfilePicture persists a new durable picture URL for the user.
func (s *PostgresStore) UpdateProfilePicture(ctx context.Context, userID, pictureURL string, now time.Time) (User, error) {
	const op = "identity.UpdateProfilePicture"

	if s == nil || s.pool == nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
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

	users := pgIdent(s.schema, "users")

	var out User
	err := s.pool.QueryRow(ctx,
		`UPDATE `+users+`
		    SET profile_pic_url = $1,
		        updated_at = $2
		  WHERE id = $3
		  RETURNING id, full_name, email, email_norm, profile_pic_url, created_at, updated_at`,
		pictureURL, now, userID,
	).Scan(
		&out.ID,
		&out.FullName,
		&out.Email,
		&out.EmailNorm,
		&out.ProfilePicURL,
		&out.CreatedAt,
		&out.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, NotFoundError{Op: op, Resource: "user"}
		}
		return User{}, err
	}

	return out, nil
}

// ---- helpers ----

// pgInvalid standardizes invalid input errors.
func pgInvalid(op, msg string) error {
	return OpError{Op: op, Kind: ErrInvalidInput, Msg: msg}
}

// pgIdent safely quotes a schema-qualified identifier: "schema"."name".
func pgIdent(schema, name string) string {
	return pgx.Identifier{schema, name}.Sanitize()
}

func pgClassifyUniqueViolation(err error) (field string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	if pgErr.Code != "23505" { // unique_violation
		return "", false
	}

	// Prefer stable schema constraint names. Fall back to heuristic substring matching.
	c := strings.ToLower(strings.TrimSpace(pgErr.ConstraintName))

	switch {
	case c == "uq_users_email_norm" || strings.Contains(c, "email"):
		return "email", true
	default:
		return "unique", true
	}
}
