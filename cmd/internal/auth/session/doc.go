// Package session issues and verifies Relay's stateless session tokens.
//
// A session is a signed, self-contained token carrying the user id and a
// fixed expiry; the server stores nothing per session. Invalidation is
// therefore cookie deletion on the client, not server-side revocation.
//
// The package exposes:
//
//   - Config / LoadConfigFromEnv: signing secret, issuer, TTL, clock skew
//   - TokenManager: Issue/Verify, implemented by the HS256 manager
//
// Tokens are transport-agnostic here; the HTTP cookie contract (name,
// attributes) lives with the auth API layer.
package session
