package domain

import (
	"github.com/edgegate/edgegate/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrCredentialNotFound indicates a credential with the specified ID was not found.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")

	// ErrCredentialRevoked indicates the credential exists but has been revoked.
	ErrCredentialRevoked = errors.Wrap(errors.ErrUnauthorized, "credential revoked")

	// ErrNonceReplayed indicates a single-use capability nonce was presented twice.
	ErrNonceReplayed = errors.Wrap(errors.ErrSignatureInvalid, "nonce already used")
)
