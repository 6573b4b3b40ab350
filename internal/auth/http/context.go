// Package http provides HTTP middleware and handlers for authentication.
package http

import (
	"context"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
)

// credentialKey is a context key type for storing authenticated credentials.
type credentialKey struct{}

// capabilityKey is a context key type for storing verified capabilities.
type capabilityKey struct{}

// WithCredential stores an authenticated credential in the context.
// Called by the authentication middleware after a successful API key check.
func WithCredential(ctx context.Context, credential *authDomain.Credential) context.Context {
	return context.WithValue(ctx, credentialKey{}, credential)
}

// GetCredential retrieves an authenticated credential from the context.
// Returns (credential, true) if one is present, or (nil, false) otherwise.
func GetCredential(ctx context.Context) (*authDomain.Credential, bool) {
	credential, ok := ctx.Value(credentialKey{}).(*authDomain.Credential)
	return credential, ok
}

// WithCapability stores a verified signed capability in the context.
// Called by the authentication middleware after signature verification.
func WithCapability(ctx context.Context, capability *authDomain.SignedCapability) context.Context {
	return context.WithValue(ctx, capabilityKey{}, capability)
}

// GetCapability retrieves a verified signed capability from the context.
// Returns (capability, true) if one is present, or (nil, false) otherwise.
func GetCapability(ctx context.Context) (*authDomain.SignedCapability, bool) {
	capability, ok := ctx.Value(capabilityKey{}).(*authDomain.SignedCapability)
	return capability, ok
}
