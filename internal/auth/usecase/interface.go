// Package usecase defines business logic interfaces for credential management
// and the request authorization gate.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
)

// CredentialRepository defines persistence operations for API credentials.
// Implementations must support transaction-aware operations via context propagation.
type CredentialRepository interface {
	// Create stores a new credential in the repository.
	Create(ctx context.Context, credential *authDomain.Credential) error

	// Update modifies an existing credential in the repository.
	Update(ctx context.Context, credential *authDomain.Credential) error

	// Get retrieves a credential by ID. Returns ErrCredentialNotFound if not found.
	Get(ctx context.Context, credentialID uuid.UUID) (*authDomain.Credential, error)

	// List retrieves credentials ordered by ID descending with pagination.
	List(ctx context.Context, offset, limit int) ([]*authDomain.Credential, error)
}

// CredentialUseCase defines business logic operations for managing API
// credentials and their permission grants.
type CredentialUseCase interface {
	// Create generates a new credential with a cryptographically secure secret.
	//
	// Returns the credential ID and plain text secret. The plain secret is only
	// returned once; the Argon2id hash is what gets stored.
	Create(
		ctx context.Context,
		createCredentialInput *authDomain.CreateCredentialInput,
	) (*authDomain.CreateCredentialOutput, error)

	// Rotate replaces a credential: a new credential is created carrying the
	// same name and grants, and the old one is revoked. Both steps happen in a
	// single transaction so no window exists where both or neither are live.
	//
	// Returns ErrCredentialNotFound if the credential doesn't exist and
	// ErrCredentialRevoked if it was already revoked.
	Rotate(ctx context.Context, credentialID uuid.UUID) (*authDomain.RotateCredentialOutput, error)

	// Revoke permanently disables a credential. Revocation is recorded with a
	// timestamp rather than deleting the row, preserving audit history.
	//
	// Returns ErrCredentialNotFound if the credential doesn't exist.
	Revoke(ctx context.Context, credentialID uuid.UUID) error

	// Get retrieves a credential by ID, including revoked ones.
	Get(ctx context.Context, credentialID uuid.UUID) (*authDomain.Credential, error)

	// List retrieves credentials with pagination.
	List(ctx context.Context, offset, limit int) ([]*authDomain.Credential, error)
}

// GateUseCase is the authorization gate every request passes through. It
// supports two authentication modes: a long-lived credential presented in a
// header, or a signed capability presented as URL parameters. The two are
// mutually exclusive per request; when both are present the credential wins.
type GateUseCase interface {
	// AuthenticateCredential resolves an API key of the form "<id>.<secret>"
	// to a live credential.
	//
	// Lookup misses and secret mismatches both return ErrUnauthorized, and a
	// miss still performs a hash comparison against a dummy digest so the two
	// cases are not distinguishable by response timing.
	AuthenticateCredential(ctx context.Context, apiKey string) (*authDomain.Credential, error)

	// AuthenticateCapability verifies a signed capability against the actual
	// request method and consumes its nonce so the capability is honored at
	// most once. Verification itself is pure; the nonce is only consumed after
	// the signature and expiry checks pass.
	AuthenticateCapability(
		ctx context.Context,
		params authDomain.CapabilityParams,
		requestMethod string,
		now time.Time,
	) (*authDomain.SignedCapability, error)

	// Authorize checks that the credential's grants permit the operation level
	// on the scope. Returns ErrForbidden on denial; authentication and
	// authorization failures are distinct outcomes.
	Authorize(
		credential *authDomain.Credential,
		family authDomain.ResourceFamily,
		scope string,
		level authDomain.OperationLevel,
	) error

	// AuthorizeCapability checks that the verified capability covers exactly
	// the requested object. A capability is bound to a single scope and key;
	// anything else is ErrForbidden.
	AuthorizeCapability(capability *authDomain.SignedCapability, scope, key string) error
}
