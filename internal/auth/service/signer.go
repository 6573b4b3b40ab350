package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
	"time"

	"golang.org/x/crypto/hkdf"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
	apperrors "github.com/edgegate/edgegate/internal/errors"
)

// allowedMethods lists the HTTP methods a capability can be issued for.
var allowedMethods = map[string]bool{
	"GET": true,
	"PUT": true,
}

// capabilitySigner implements CapabilitySigner with HMAC-SHA256 over a
// canonical encoding of every authorization-relevant field, using a signing
// key derived from the configured secret via HKDF-SHA256.
type capabilitySigner struct {
	signingKey []byte
	maxTTL     time.Duration
	clockSkew  time.Duration
}

// NewCapabilitySigner creates a CapabilitySigner from the configured secret.
// The signing key is derived once via HKDF-SHA256 with info "presign-v1"
// (versioned for future algorithm changes), separating it from any other use
// of the secret. maxTTL caps issued lifetimes; clockSkew is the tolerance
// applied on expiry checks (±30s by default, from configuration).
func NewCapabilitySigner(secret []byte, maxTTL, clockSkew time.Duration) (CapabilitySigner, error) {
	if len(secret) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "signing secret must not be empty")
	}

	key, err := deriveSigningKey(secret)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to derive signing key")
	}

	return &capabilitySigner{
		signingKey: key,
		maxTTL:     maxTTL,
		clockSkew:  clockSkew,
	}, nil
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key.
func deriveSigningKey(secret []byte) ([]byte, error) {
	info := []byte("presign-v1")
	reader := hkdf.New(sha256.New, secret, nil, info)

	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// canonicalize converts a capability to its canonical byte representation for
// signing. Format: scope || key || method || expires || nonce, with
// length-prefixed encoding for variable-length fields to prevent ambiguity.
// Every field that affects the authorization decision is covered, so altering
// any of them invalidates the signature.
func canonicalize(scope, key, method string, expiresAt int64, nonce string) []byte {
	buf := make([]byte, 0, 256)

	buf = appendLengthPrefixed(buf, []byte(scope))
	buf = appendLengthPrefixed(buf, []byte(key))
	buf = appendLengthPrefixed(buf, []byte(method))

	expiry := make([]byte, 8)
	binary.BigEndian.PutUint64(expiry, uint64(expiresAt))
	buf = append(buf, expiry...)

	buf = appendLengthPrefixed(buf, []byte(nonce))

	return buf
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
// Format: [length (4 bytes)] + [data (length bytes)]
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

// sign computes the HMAC-SHA256 signature for the canonical encoding.
func (s *capabilitySigner) sign(scope, key, method string, expiresAt int64, nonce string) []byte {
	mac := hmac.New(sha256.New, s.signingKey)
	mac.Write(canonicalize(scope, key, method, expiresAt, nonce))
	return mac.Sum(nil)
}

// Issue creates a signed capability for the given method on an object.
func (s *capabilitySigner) Issue(
	scope, key, method string,
	ttl time.Duration,
) (*authDomain.SignedCapability, error) {
	if scope == "" || key == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "scope and key are required")
	}
	if !allowedMethods[method] {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "method %q not allowed", method)
	}
	if ttl <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "ttl must be positive")
	}
	if ttl > s.maxTTL {
		ttl = s.maxTTL
	}

	nonceBytes := make([]byte, 16)
	if _, err := rand.Read(nonceBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to generate nonce")
	}
	nonce := hex.EncodeToString(nonceBytes)

	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(ttl)

	return &authDomain.SignedCapability{
		Scope:     scope,
		Key:       key,
		Method:    method,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
		Nonce:     nonce,
		Signature: s.sign(scope, key, method, expiresAt.Unix(), nonce),
	}, nil
}

// Verify checks a presented capability. The signature is checked first so a
// forged capability learns nothing about expiry handling, then expiry with the
// skew window, then the allowed method against the actual request method.
func (s *capabilitySigner) Verify(
	params authDomain.CapabilityParams,
	requestMethod string,
	now time.Time,
) (*authDomain.SignedCapability, error) {
	presented, err := hex.DecodeString(params.Signature)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrSignatureInvalid, "signature is not valid hex")
	}

	expected := s.sign(params.Scope, params.Key, params.Method, params.ExpiresAt, params.Nonce)
	if !hmac.Equal(presented, expected) {
		return nil, apperrors.ErrSignatureInvalid
	}

	expiresAt := time.Unix(params.ExpiresAt, 0).UTC()
	if now.After(expiresAt.Add(s.clockSkew)) {
		return nil, apperrors.ErrCapabilityExpired
	}

	if params.Method != requestMethod {
		return nil, apperrors.ErrMethodMismatch
	}

	return &authDomain.SignedCapability{
		Scope:     params.Scope,
		Key:       params.Key,
		Method:    params.Method,
		ExpiresAt: expiresAt,
		Nonce:     params.Nonce,
		Signature: presented,
	}, nil
}
