package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified content of a session token.
type Claims struct {
	// UserID is the authenticated user's id (the "sub" claim).
	UserID string

	// Issuer echoes the "iss" claim.
	Issuer string

	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager issues and verifies stateless session tokens.
//
// Verify takes the current time explicitly so callers and tests control the
// clock; implementations must not consult time.Now themselves.
type TokenManager interface {
	// Issue signs a token for userID valid from now until now+TTL.
	Issue(userID string, now time.Time) (token string, expiresAt time.Time, err error)

	// Verify checks the signature and expiry and returns the claims.
	// Returns ErrTokenExpired for a correctly signed but expired token, and
	// ErrInvalidSignature for every other failure.
	Verify(token string, now time.Time) (Claims, error)
}

// HS256Manager signs session tokens as JWTs with HMAC-SHA256.
type HS256Manager struct {
	cfg Config
}

// NewHS256Manager validates the config and returns a manager.
func NewHS256Manager(cfg Config) (*HS256Manager, error) {
	if len(cfg.Secret) < minSecretLen {
		return nil, fmt.Errorf("%w: secret shorter than %d bytes", ErrConfig, minSecretLen)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("%w: non-positive token ttl", ErrConfig)
	}
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("%w: empty issuer", ErrConfig)
	}
	return &HS256Manager{cfg: cfg}, nil
}

// Issue signs a token whose subject is userID.
//
// The token carries only the user id and timing claims. Profile data is
// looked up fresh per request, so stale display names or emails can never
// be served out of a week-old token.
func (m *HS256Manager) Issue(userID string, now time.Time) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, errors.New("session: empty user id")
	}

	now = now.UTC()
	expiresAt := now.Add(m.cfg.TokenTTL)

	claims := jwt.RegisteredClaims{
		Issuer:    m.cfg.Issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("session: sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify parses and validates a token issued by Issue.
func (m *HS256Manager) Verify(token string, now time.Time) (Claims, error) {
	if token == "" {
		return Claims{}, ErrInvalidSignature
	}

	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &rc,
		func(t *jwt.Token) (any, error) { return m.cfg.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(m.cfg.ClockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrInvalidSignature
	}

	if rc.Subject == "" || rc.IssuedAt == nil || rc.ExpiresAt == nil {
		return Claims{}, ErrInvalidSignature
	}

	return Claims{
		UserID:    rc.Subject,
		Issuer:    rc.Issuer,
		IssuedAt:  rc.IssuedAt.Time,
		ExpiresAt: rc.ExpiresAt.Time,
	}, nil
}
