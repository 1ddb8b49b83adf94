// Package token provides the primitives behind key authentication.
//
// Signatures:
//
//   - HMAC-SHA256 keyed with the shared API key
//   - Hex encoded (64 lowercase characters)
//   - Verified with constant-time comparison
//
// Nonces:
//
//   - ULID strings (26 characters, Crockford base32)
//   - Monotonic within a millisecond, entropy from crypto/rand
//   - Unique for the lifetime of a process
//
// Generate produces opaque URL-safe random tokens, used where a remote
// session identifier has to be minted (test endpoints, fixtures).
package token
