package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// PermissionGrant authorizes a set of operation levels on a resource scope.
// Scope is either a named bucket/database or the "*" wildcard. Levels are
// checked by membership only: holding admin does not imply read.
type PermissionGrant struct {
	Family ResourceFamily   `json:"family"`
	Scope  string           `json:"scope"`
	Levels []OperationLevel `json:"levels"`
}

// Credential represents an API credential with associated permission grants.
// Credentials are immutable once issued: rotation creates a new credential and
// revokes the old one, so a credential ID never changes meaning over time.
type Credential struct {
	ID         uuid.UUID         // Unique identifier (UUIDv7)
	SecretHash string            //nolint:gosec // argon2id hash of the secret (not plaintext)
	Name       string            // Human-readable credential name
	IsActive   bool              // Whether the credential can authenticate
	Grants     []PermissionGrant // Permission grants for this credential
	RevokedAt  *time.Time        // Set when the credential is revoked (nil if live)
	CreatedAt  time.Time
}

// matchScope checks if the request scope matches the grant scope.
// Only exact matches and the full wildcard are supported; scopes are flat
// bucket/database names, not paths.
func matchScope(grantScope, requestScope string) bool {
	if grantScope == WildcardScope {
		return true
	}
	return grantScope == requestScope
}

// IsAllowed checks if the credential's grants permit the given operation level
// on the specified scope within a resource family.
//
// Matching rules:
//   - Family must match exactly: a bucket grant never authorizes a database.
//   - Scope matches exactly or via the "*" wildcard.
//   - The level must be explicitly present in the grant's level list. There is
//     no implicit inclusion between levels: a credential granted only delete
//     cannot read, and a credential granted admin cannot write unless write
//     was also granted.
func (c *Credential) IsAllowed(family ResourceFamily, scope string, level OperationLevel) bool {
	// Edge case: empty scope or unknown level
	if scope == "" || !level.Valid() {
		return false
	}

	for _, grant := range c.Grants {
		if grant.Family != family {
			continue
		}
		if !matchScope(grant.Scope, scope) {
			continue
		}
		if slices.Contains(grant.Levels, level) {
			return true
		}
	}

	return false
}

// IsRevoked reports whether the credential has been revoked.
func (c *Credential) IsRevoked() bool {
	return c.RevokedAt != nil
}

// CanAuthenticate reports whether the credential may be used on the request
// path: it must be active and not revoked.
func (c *Credential) CanAuthenticate() bool {
	return c.IsActive && !c.IsRevoked()
}

// CreateCredentialInput contains the parameters for creating a new credential.
// The secret is generated server-side and cannot be specified by the caller.
type CreateCredentialInput struct {
	Name     string            // Human-readable name for identifying the credential
	IsActive bool              // Whether the credential can authenticate immediately
	Grants   []PermissionGrant // Permission grants to attach
}

// CreateCredentialOutput is returned once at creation time. PlainSecret is the
// only copy of the secret; it is never persisted or shown again.
type CreateCredentialOutput struct {
	ID          uuid.UUID
	PlainSecret string
}

// RotateCredentialOutput describes the result of a rotation: the replacement
// credential plus the identity of the credential that was revoked.
type RotateCredentialOutput struct {
	ID          uuid.UUID
	PlainSecret string
	RevokedID   uuid.UUID
}
