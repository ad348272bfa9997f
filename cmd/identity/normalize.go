package identity

import "strings"

// NormalizeEmail performs case-insensitive canonicalization of the login key.
// Note: for now we only trim + lower-case. Additional rules (unicode confusables)
// can be added later behind a versioned policy.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
