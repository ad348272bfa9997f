package session

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Secret = []byte(strings.Repeat("s", 32))
	return cfg
}

func TestHS256_IssueVerifyRoundtrip(t *testing.T) {
	m, err := NewHS256Manager(testConfig())
	if err != nil {
		t.Fatalf("NewHS256Manager: %v", err)
	}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	token, expiresAt, err := m.Issue("01J0USER", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if want := now.Add(7 * 24 * time.Hour); !expiresAt.Equal(want) {
		t.Fatalf("expiresAt = %v, want %v", expiresAt, want)
	}

	claims, err := m.Verify(token, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "01J0USER" {
		t.Fatalf("UserID = %q", claims.UserID)
	}
	if claims.Issuer != "relay" {
		t.Fatalf("Issuer = %q", claims.Issuer)
	}
	if !claims.ExpiresAt.Equal(expiresAt) {
		t.Fatalf("ExpiresAt mismatch: %v vs %v", claims.ExpiresAt, expiresAt)
	}
}

func TestHS256_Expired(t *testing.T) {
	m, err := NewHS256Manager(testConfig())
	if err != nil {
		t.Fatalf("NewHS256Manager: %v", err)
	}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	token, _, err := m.Issue("01J0USER", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Just inside the skew window: still valid.
	at := now.Add(7*24*time.Hour + 10*time.Second)
	if _, err := m.Verify(token, at); err != nil {
		t.Fatalf("Verify within skew: %v", err)
	}

	// Beyond skew: expired, and specifically expired, not "invalid".
	at = now.Add(7*24*time.Hour + time.Minute)
	_, err = m.Verify(token, at)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Verify after expiry = %v, want ErrTokenExpired", err)
	}
}

func TestHS256_WrongSecret(t *testing.T) {
	m1, err := NewHS256Manager(testConfig())
	if err != nil {
		t.Fatalf("NewHS256Manager: %v", err)
	}

	cfg2 := testConfig()
	cfg2.Secret = []byte(strings.Repeat("x", 32))
	m2, err := NewHS256Manager(cfg2)
	if err != nil {
		t.Fatalf("NewHS256Manager: %v", err)
	}

	now := time.Now().UTC()
	token, _, err := m1.Issue("01J0USER", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := m2.Verify(token, now); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("Verify with wrong secret = %v, want ErrInvalidSignature", err)
	}
}

func TestHS256_Garbage(t *testing.T) {
	m, err := NewHS256Manager(testConfig())
	if err != nil {
		t.Fatalf("NewHS256Manager: %v", err)
	}

	now := time.Now().UTC()
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(tok, now); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("Verify(%q) = %v, want ErrInvalidSignature", tok, err)
		}
	}
}

func TestHS256_TamperedSubject(t *testing.T) {
	m, err := NewHS256Manager(testConfig())
	if err != nil {
		t.Fatalf("NewHS256Manager: %v", err)
	}

	now := time.Now().UTC()
	token, _, err := m.Issue("01J0USER", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip a byte in the payload segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	payload := []byte(parts[1])
	payload[0] ^= 0x01
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := m.Verify(tampered, now); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("Verify(tampered) = %v, want ErrInvalidSignature", err)
	}
}

func TestNewHS256Manager_RejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Secret = []byte("short")
	if _, err := NewHS256Manager(cfg); !errors.Is(err, ErrConfig) {
		t.Fatalf("short secret: err = %v, want ErrConfig", err)
	}

	cfg = testConfig()
	cfg.TokenTTL = 0
	if _, err := NewHS256Manager(cfg); !errors.Is(err, ErrConfig) {
		t.Fatalf("zero ttl: err = %v, want ErrConfig", err)
	}

	cfg = testConfig()
	cfg.Issuer = ""
	if _, err := NewHS256Manager(cfg); !errors.Is(err, ErrConfig) {
		t.Fatalf("empty issuer: err = %v, want ErrConfig", err)
	}
}
