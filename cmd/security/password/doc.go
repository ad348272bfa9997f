// Package password provides credential hashing for Relay.
//
// It wraps bcrypt behind an explicit Config so cost and length policy are
// tunable per deployment, and exposes a stable error surface for callers
// that need to distinguish policy violations from malformed stored hashes.
package password
