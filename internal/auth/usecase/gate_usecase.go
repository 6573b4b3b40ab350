package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
	authService "github.com/edgegate/edgegate/internal/auth/service"
	apperrors "github.com/edgegate/edgegate/internal/errors"
)

// gateUseCase implements GateUseCase. It holds a precomputed dummy secret hash
// so credential lookups that miss still pay the cost of one Argon2id
// comparison, keeping hit and miss timings indistinguishable.
type gateUseCase struct {
	credentialRepo CredentialRepository
	secretService  authService.SecretService
	signer         authService.CapabilitySigner
	nonceCache     authService.NonceCache
	dummyHash      string
}

// parseAPIKey splits an API key of the form "<id>.<secret>" into its parts.
func parseAPIKey(apiKey string) (uuid.UUID, string, bool) {
	idPart, secretPart, found := strings.Cut(apiKey, ".")
	if !found || secretPart == "" {
		return uuid.Nil, "", false
	}

	credentialID, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.Nil, "", false
	}

	return credentialID, secretPart, true
}

// AuthenticateCredential resolves an API key to a live credential.
//
// Security Notes:
//   - Returns ErrUnauthorized for malformed keys, unknown credential IDs and
//     wrong secrets alike, to prevent enumeration
//   - A lookup miss still performs a comparison against a dummy hash so a miss
//     and a secret mismatch take comparable time
//   - Returns ErrCredentialRevoked for revoked or inactive credentials, after
//     the secret has been verified
func (g *gateUseCase) AuthenticateCredential(
	ctx context.Context,
	apiKey string,
) (*authDomain.Credential, error) {
	credentialID, plainSecret, ok := parseAPIKey(apiKey)
	if !ok {
		g.secretService.CompareSecret(apiKey, g.dummyHash)
		return nil, apperrors.ErrUnauthorized
	}

	credential, err := g.credentialRepo.Get(ctx, credentialID)
	if err != nil {
		if errors.Is(err, authDomain.ErrCredentialNotFound) {
			g.secretService.CompareSecret(plainSecret, g.dummyHash)
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if !g.secretService.CompareSecret(plainSecret, credential.SecretHash) {
		return nil, apperrors.ErrUnauthorized
	}

	if !credential.CanAuthenticate() {
		return nil, authDomain.ErrCredentialRevoked
	}

	return credential, nil
}

// AuthenticateCapability verifies a signed capability and consumes its nonce.
// The nonce is consumed only after signature, expiry and method checks pass,
// so a rejected presentation does not burn the capability.
func (g *gateUseCase) AuthenticateCapability(
	ctx context.Context,
	params authDomain.CapabilityParams,
	requestMethod string,
	now time.Time,
) (*authDomain.SignedCapability, error) {
	capability, err := g.signer.Verify(params, requestMethod, now)
	if err != nil {
		return nil, err
	}

	if err := g.nonceCache.Consume(capability.Nonce, capability.ExpiresAt); err != nil {
		return nil, err
	}

	return capability, nil
}

// Authorize checks the credential's grants against the requested operation.
func (g *gateUseCase) Authorize(
	credential *authDomain.Credential,
	family authDomain.ResourceFamily,
	scope string,
	level authDomain.OperationLevel,
) error {
	if !credential.IsAllowed(family, scope, level) {
		return apperrors.ErrForbidden
	}
	return nil
}

// AuthorizeCapability checks that the capability covers exactly the requested
// object. The scope and key are covered by the signature, so a mismatch means
// the caller is presenting a valid capability against the wrong resource.
func (g *gateUseCase) AuthorizeCapability(
	capability *authDomain.SignedCapability,
	scope, key string,
) error {
	if capability.Scope != scope || capability.Key != key {
		return apperrors.ErrForbidden
	}
	return nil
}

// NewGateUseCase creates a new GateUseCase with the provided dependencies.
// The dummy hash used for timing equalization is derived once at startup.
func NewGateUseCase(
	credentialRepo CredentialRepository,
	secretService authService.SecretService,
	signer authService.CapabilitySigner,
	nonceCache authService.NonceCache,
) (GateUseCase, error) {
	dummyHash, err := secretService.HashSecret("gate-dummy-comparison-target")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to derive dummy hash")
	}

	return &gateUseCase{
		credentialRepo: credentialRepo,
		secretService:  secretService,
		signer:         signer,
		nonceCache:     nonceCache,
		dummyHash:      dummyHash,
	}, nil
}
