package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
	"github.com/edgegate/edgegate/internal/metrics"
)

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for credential creation operations.
func (c *credentialUseCaseWithMetrics) Create(
	ctx context.Context,
	createCredentialInput *authDomain.CreateCredentialInput,
) (*authDomain.CreateCredentialOutput, error) {
	start := time.Now()
	output, err := c.next.Create(ctx, createCredentialInput)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "auth", "credential_create", status)
	c.metrics.RecordDuration(ctx, "auth", "credential_create", time.Since(start), status)

	return output, err
}

// Rotate records metrics for credential rotation operations.
func (c *credentialUseCaseWithMetrics) Rotate(
	ctx context.Context,
	credentialID uuid.UUID,
) (*authDomain.RotateCredentialOutput, error) {
	start := time.Now()
	output, err := c.next.Rotate(ctx, credentialID)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "auth", "credential_rotate", status)
	c.metrics.RecordDuration(ctx, "auth", "credential_rotate", time.Since(start), status)

	return output, err
}

// Revoke records metrics for credential revocation operations.
func (c *credentialUseCaseWithMetrics) Revoke(ctx context.Context, credentialID uuid.UUID) error {
	start := time.Now()
	err := c.next.Revoke(ctx, credentialID)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "auth", "credential_revoke", status)
	c.metrics.RecordDuration(ctx, "auth", "credential_revoke", time.Since(start), status)

	return err
}

// Get records metrics for credential retrieval operations.
func (c *credentialUseCaseWithMetrics) Get(
	ctx context.Context,
	credentialID uuid.UUID,
) (*authDomain.Credential, error) {
	start := time.Now()
	credential, err := c.next.Get(ctx, credentialID)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "auth", "credential_get", status)
	c.metrics.RecordDuration(ctx, "auth", "credential_get", time.Since(start), status)

	return credential, err
}

// List records metrics for credential list operations.
func (c *credentialUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.Credential, error) {
	start := time.Now()
	credentials, err := c.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "auth", "credential_list", status)
	c.metrics.RecordDuration(ctx, "auth", "credential_list", time.Since(start), status)

	return credentials, err
}

// gateUseCaseWithMetrics decorates GateUseCase with metrics instrumentation.
type gateUseCaseWithMetrics struct {
	next    GateUseCase
	metrics metrics.BusinessMetrics
}

// NewGateUseCaseWithMetrics wraps a GateUseCase with metrics recording.
func NewGateUseCaseWithMetrics(useCase GateUseCase, m metrics.BusinessMetrics) GateUseCase {
	return &gateUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// AuthenticateCredential records metrics for credential authentication operations.
func (g *gateUseCaseWithMetrics) AuthenticateCredential(
	ctx context.Context,
	apiKey string,
) (*authDomain.Credential, error) {
	start := time.Now()
	credential, err := g.next.AuthenticateCredential(ctx, apiKey)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(ctx, "auth", "credential_authenticate", status)
	g.metrics.RecordDuration(ctx, "auth", "credential_authenticate", time.Since(start), status)

	return credential, err
}

// AuthenticateCapability records metrics for capability authentication operations.
func (g *gateUseCaseWithMetrics) AuthenticateCapability(
	ctx context.Context,
	params authDomain.CapabilityParams,
	requestMethod string,
	now time.Time,
) (*authDomain.SignedCapability, error) {
	start := time.Now()
	capability, err := g.next.AuthenticateCapability(ctx, params, requestMethod, now)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(ctx, "auth", "capability_authenticate", status)
	g.metrics.RecordDuration(ctx, "auth", "capability_authenticate", time.Since(start), status)

	return capability, err
}

// Authorize records metrics for authorization decisions.
func (g *gateUseCaseWithMetrics) Authorize(
	credential *authDomain.Credential,
	family authDomain.ResourceFamily,
	scope string,
	level authDomain.OperationLevel,
) error {
	err := g.next.Authorize(credential, family, scope, level)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(context.Background(), "auth", "authorize", status)

	return err
}

// AuthorizeCapability records metrics for capability authorization decisions.
func (g *gateUseCaseWithMetrics) AuthorizeCapability(
	capability *authDomain.SignedCapability,
	scope, key string,
) error {
	err := g.next.AuthorizeCapability(capability, scope, key)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(context.Background(), "auth", "authorize_capability", status)

	return err
}
