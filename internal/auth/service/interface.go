// Package service provides authentication-related services for secret handling
// and pre-signed capability issuance and verification.
package service

import (
	"time"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
)

// SecretService generates, hashes and compares credential secrets.
type SecretService interface {
	// GenerateSecret creates a new random secret, returning the plain text and
	// its hash. The plain text is only returned once.
	GenerateSecret() (plainSecret string, hashedSecret string, err error)

	// HashSecret hashes a plain text secret.
	HashSecret(plainSecret string) (hashedSecret string, err error)

	// CompareSecret performs a constant-time comparison between a plain secret
	// and its hash.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// CapabilitySigner issues and verifies time-limited, tamper-evident signed
// capabilities (pre-signed URLs).
type CapabilitySigner interface {
	// Issue creates a signed capability for the given method on an object.
	// The TTL is clamped to the configured maximum.
	Issue(scope, key, method string, ttl time.Duration) (*authDomain.SignedCapability, error)

	// Verify checks a presented capability against the request method and the
	// current time. Verification is pure: it performs no backend call and no
	// state mutation. Returns the verified capability, or ErrSignatureInvalid,
	// ErrCapabilityExpired or ErrMethodMismatch.
	Verify(
		params authDomain.CapabilityParams,
		requestMethod string,
		now time.Time,
	) (*authDomain.SignedCapability, error)
}

// NonceCache records consumed capability nonces so each capability is honored
// at most once. Implementations must be bounded in memory.
type NonceCache interface {
	// Consume marks the nonce as used until expiresAt. Returns ErrNonceReplayed
	// if the nonce was already consumed and has not yet expired.
	Consume(nonce string, expiresAt time.Time) error
}
