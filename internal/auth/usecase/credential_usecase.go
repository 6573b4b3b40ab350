// Package usecase implements business logic orchestration for credential
// management and request authorization.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
	authService "github.com/edgegate/edgegate/internal/auth/service"
	"github.com/edgegate/edgegate/internal/database"
)

// credentialUseCase implements CredentialUseCase for managing API credentials.
type credentialUseCase struct {
	txManager      database.TxManager
	credentialRepo CredentialRepository
	secretService  authService.SecretService
}

// Create generates and persists a new credential with a random secret.
// Returns the credential ID and plain text secret. The plain secret is only
// returned once and must be securely stored by the caller; the hashed version
// is stored in the database.
func (c *credentialUseCase) Create(
	ctx context.Context,
	createCredentialInput *authDomain.CreateCredentialInput,
) (*authDomain.CreateCredentialOutput, error) {
	// Generate a secure random secret
	plainSecret, hashedSecret, err := c.secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	// Create the credential entity
	credential := &authDomain.Credential{
		ID:         uuid.Must(uuid.NewV7()),
		SecretHash: hashedSecret,
		Name:       createCredentialInput.Name,
		IsActive:   createCredentialInput.IsActive,
		Grants:     createCredentialInput.Grants,
		CreatedAt:  time.Now().UTC(),
	}

	// Persist the credential
	if err := c.credentialRepo.Create(ctx, credential); err != nil {
		return nil, err
	}

	return &authDomain.CreateCredentialOutput{
		ID:          credential.ID,
		PlainSecret: plainSecret,
	}, nil
}

// Rotate replaces a credential with a fresh one carrying the same name and
// grants, revoking the old credential in the same transaction.
func (c *credentialUseCase) Rotate(
	ctx context.Context,
	credentialID uuid.UUID,
) (*authDomain.RotateCredentialOutput, error) {
	// Get the existing credential
	existing, err := c.credentialRepo.Get(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	if existing.IsRevoked() {
		return nil, authDomain.ErrCredentialRevoked
	}

	// Generate the replacement secret
	plainSecret, hashedSecret, err := c.secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	replacement := &authDomain.Credential{
		ID:         uuid.Must(uuid.NewV7()),
		SecretHash: hashedSecret,
		Name:       existing.Name,
		IsActive:   existing.IsActive,
		Grants:     existing.Grants,
		CreatedAt:  time.Now().UTC(),
	}

	// Create the replacement and revoke the old credential atomically
	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := c.credentialRepo.Create(ctx, replacement); err != nil {
			return err
		}

		now := time.Now().UTC()
		existing.IsActive = false
		existing.RevokedAt = &now
		return c.credentialRepo.Update(ctx, existing)
	})
	if err != nil {
		return nil, err
	}

	return &authDomain.RotateCredentialOutput{
		ID:          replacement.ID,
		PlainSecret: plainSecret,
		RevokedID:   existing.ID,
	}, nil
}

// Revoke permanently disables a credential, preserving the row for audit history.
// Revoking an already revoked credential is a no-op.
func (c *credentialUseCase) Revoke(ctx context.Context, credentialID uuid.UUID) error {
	// Get the existing credential
	credential, err := c.credentialRepo.Get(ctx, credentialID)
	if err != nil {
		return err
	}
	if credential.IsRevoked() {
		return nil
	}

	now := time.Now().UTC()
	credential.IsActive = false
	credential.RevokedAt = &now

	// Persist the revocation
	return c.credentialRepo.Update(ctx, credential)
}

// Get retrieves a credential by ID.
// Returns ErrCredentialNotFound if the credential doesn't exist.
func (c *credentialUseCase) Get(
	ctx context.Context,
	credentialID uuid.UUID,
) (*authDomain.Credential, error) {
	return c.credentialRepo.Get(ctx, credentialID)
}

// List retrieves credentials ordered by ID descending with pagination support.
// Returns empty slice if no credentials found.
func (c *credentialUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.Credential, error) {
	return c.credentialRepo.List(ctx, offset, limit)
}

// NewCredentialUseCase creates a new CredentialUseCase with the provided dependencies.
func NewCredentialUseCase(
	txManager database.TxManager,
	credentialRepo CredentialRepository,
	secretService authService.SecretService,
) CredentialUseCase {
	return &credentialUseCase{
		txManager:      txManager,
		credentialRepo: credentialRepo,
		secretService:  secretService,
	}
}
