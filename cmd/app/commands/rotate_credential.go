package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	authUseCase "github.com/edgegate/edgegate/internal/auth/usecase"
)

// RunRotateCredential replaces a credential with a fresh one carrying the same
// name and grants, revoking the old credential. Outputs the replacement API
// key in either text or JSON format.
func RunRotateCredential(
	ctx context.Context,
	credentialUseCase authUseCase.CredentialUseCase,
	logger *slog.Logger,
	writer io.Writer,
	idString string,
	format string,
) error {
	credentialID, err := uuid.Parse(idString)
	if err != nil {
		return fmt.Errorf("invalid credential id: %w", err)
	}

	logger.Info("rotating credential", slog.String("credential_id", credentialID.String()))

	output, err := credentialUseCase.Rotate(ctx, credentialID)
	if err != nil {
		return fmt.Errorf("failed to rotate credential: %w", err)
	}

	apiKey := fmt.Sprintf("%s.%s", output.ID, output.PlainSecret)

	if format == "json" {
		writeJSON(map[string]string{
			"credential_id": output.ID.String(),
			"api_key":       apiKey,
			"revoked_id":    output.RevokedID.String(),
		}, writer)
	} else {
		_, _ = fmt.Fprintln(writer, "\nCredential rotated successfully!")
		_, _ = fmt.Fprintf(writer, "New Credential ID: %s\n", output.ID)
		_, _ = fmt.Fprintf(writer, "New API Key: %s\n", apiKey)
		_, _ = fmt.Fprintf(writer, "Revoked Credential ID: %s\n", output.RevokedID)
		_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The API key is shown only once. Store it securely.")
	}

	logger.Info("credential rotated successfully",
		slog.String("credential_id", output.ID.String()),
		slog.String("revoked_id", output.RevokedID.String()),
	)

	return nil
}
