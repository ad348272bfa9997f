// Package identity implements Relay's user identity foundation.
//
// It contains the user model, credential hashing entry points, and the
// persistence boundary (Postgres for real deployments, in-memory for
// DB-less development) used by the HTTP auth layer.
//
// This package is intentionally dependency-light and security-first.
package identity
