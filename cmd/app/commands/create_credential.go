package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
	authUseCase "github.com/edgegate/edgegate/internal/auth/usecase"
)

// RunCreateCredential creates a new API credential with permission grants.
// Supports both interactive mode (when grantsJSON is empty) and non-interactive
// mode (when grantsJSON is provided). Outputs the credential ID and the
// one-time API key in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateCredential(
	ctx context.Context,
	credentialUseCase authUseCase.CredentialUseCase,
	logger *slog.Logger,
	name string,
	isActive bool,
	grantsJSON string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new credential", slog.String("name", name))

	var grants []authDomain.PermissionGrant
	var err error

	if grantsJSON == "" {
		grants, err = promptForGrants(io)
		if err != nil {
			return fmt.Errorf("failed to get grants: %w", err)
		}
	} else {
		if err := json.Unmarshal([]byte(grantsJSON), &grants); err != nil {
			return fmt.Errorf("failed to parse grants JSON: %w", err)
		}
	}

	if len(grants) == 0 {
		return fmt.Errorf("at least one grant is required")
	}

	for _, grant := range grants {
		if !grant.Family.Valid() {
			return fmt.Errorf("invalid resource family: %s (valid options: bucket, database)", grant.Family)
		}
		for _, level := range grant.Levels {
			if !level.Valid() {
				return fmt.Errorf("invalid operation level: %s (valid options: read, write, delete, admin)", level)
			}
		}
	}

	input := &authDomain.CreateCredentialInput{
		Name:     name,
		IsActive: isActive,
		Grants:   grants,
	}

	output, err := credentialUseCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create credential: %w", err)
	}

	apiKey := fmt.Sprintf("%s.%s", output.ID, output.PlainSecret)

	if format == "json" {
		writeJSON(map[string]string{
			"credential_id": output.ID.String(),
			"api_key":       apiKey,
		}, io.Writer)
	} else {
		writeCredentialText(output.ID.String(), apiKey, io.Writer)
	}

	logger.Info("credential created successfully",
		slog.String("credential_id", output.ID.String()),
		slog.String("name", name),
		slog.Bool("is_active", isActive),
	)

	return nil
}

// promptForGrants interactively prompts the user to enter permission grants.
// Accepts multiple grants until the user declines.
func promptForGrants(io IOTuple) ([]authDomain.PermissionGrant, error) {
	reader := bufio.NewReader(io.Reader)
	writer := io.Writer
	var grants []authDomain.PermissionGrant

	_, _ = fmt.Fprintln(writer, "\nEnter permission grants for the credential")
	_, _ = fmt.Fprintln(writer, "Available levels: read, write, delete, admin (no level implies another)")
	_, _ = fmt.Fprintln(writer)

	grantNum := 1
	for {
		_, _ = fmt.Fprintf(writer, "Grant #%d\n", grantNum)

		_, _ = fmt.Fprint(writer, "Enter resource family ('bucket' or 'database'): ")
		family, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read family: %w", err)
		}
		family = strings.TrimSpace(family)

		_, _ = fmt.Fprint(writer, "Enter scope (bucket/database name, or '*' for all): ")
		scope, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read scope: %w", err)
		}
		scope = strings.TrimSpace(scope)

		if scope == "" {
			return nil, fmt.Errorf("scope cannot be empty")
		}

		_, _ = fmt.Fprint(writer, "Enter levels (comma-separated, e.g., 'read,write'): ")
		levelsInput, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read levels: %w", err)
		}

		levels, err := parseLevels(strings.TrimSpace(levelsInput))
		if err != nil {
			return nil, err
		}

		grants = append(grants, authDomain.PermissionGrant{
			Family: authDomain.ResourceFamily(family),
			Scope:  scope,
			Levels: levels,
		})

		_, _ = fmt.Fprint(writer, "Add another grant? (y/n): ")
		addAnother, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		addAnother = strings.ToLower(strings.TrimSpace(addAnother))

		if addAnother != "y" && addAnother != "yes" {
			break
		}

		_, _ = fmt.Fprintln(writer)
		grantNum++
	}

	return grants, nil
}

// parseLevels converts a comma-separated string into a slice of OperationLevel.
func parseLevels(input string) ([]authDomain.OperationLevel, error) {
	parts := strings.Split(input, ",")
	levels := make([]authDomain.OperationLevel, 0, len(parts))

	for _, part := range parts {
		level := authDomain.OperationLevel(strings.TrimSpace(part))
		if level != "" {
			levels = append(levels, level)
		}
	}

	if len(levels) == 0 {
		return nil, fmt.Errorf("at least one level is required")
	}

	return levels, nil
}

// writeCredentialText outputs the created credential in human-readable form.
func writeCredentialText(credentialID, apiKey string, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nCredential created successfully!")
	_, _ = fmt.Fprintf(writer, "Credential ID: %s\n", credentialID)
	_, _ = fmt.Fprintf(writer, "API Key: %s\n", apiKey)
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The API key is shown only once. Store it securely.")
}
