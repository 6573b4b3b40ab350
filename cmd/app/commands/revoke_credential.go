package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	authUseCase "github.com/edgegate/edgegate/internal/auth/usecase"
)

// RunRevokeCredential permanently revokes a credential so it can no longer
// authenticate. Revocation is idempotent but cannot be undone.
func RunRevokeCredential(
	ctx context.Context,
	credentialUseCase authUseCase.CredentialUseCase,
	logger *slog.Logger,
	writer io.Writer,
	idString string,
) error {
	credentialID, err := uuid.Parse(idString)
	if err != nil {
		return fmt.Errorf("invalid credential id: %w", err)
	}

	logger.Info("revoking credential", slog.String("credential_id", credentialID.String()))

	if err := credentialUseCase.Revoke(ctx, credentialID); err != nil {
		return fmt.Errorf("failed to revoke credential: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Credential %s revoked.\n", credentialID)

	logger.Info("credential revoked successfully", slog.String("credential_id", credentialID.String()))
	return nil
}
