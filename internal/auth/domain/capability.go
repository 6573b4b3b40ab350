package domain

import (
	"time"
)

// SignedCapability is a bearer token authorizing a single method on a single
// object, verifiable without a database lookup. The signature is an HMAC over
// every field that affects the authorization decision (scope, key, method,
// expiry, nonce); altering any of them invalidates it. Capabilities are
// immutable once issued.
type SignedCapability struct {
	Scope     string    // Bucket the capability applies to
	Key       string    // Object key within the scope
	Method    string    // HTTP method the capability allows (GET or PUT)
	IssuedAt  time.Time // Issue time (informational, not covered by the MAC)
	ExpiresAt time.Time // Expiry; verification applies the configured skew window
	Nonce     string    // Random value binding the capability to one issuance
	Signature []byte    // HMAC-SHA256 over the canonical encoding
}

// CapabilityParams carries the raw pre-signed URL query parameters before
// signature verification. Scope, key and method come from the request itself.
type CapabilityParams struct {
	Scope     string
	Key       string
	Method    string
	ExpiresAt int64 // Unix seconds, as carried in the URL
	Nonce     string
	Signature string // hex-encoded
}
