package commands

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	authHTTP "github.com/edgegate/edgegate/internal/auth/http"
	authService "github.com/edgegate/edgegate/internal/auth/service"
)

// RunPresign issues a pre-signed URL for one method on one object and writes
// it to the given writer. Only the signing secret is needed; the command never
// touches the database or the object store.
func RunPresign(
	logger *slog.Logger,
	writer io.Writer,
	signer authService.CapabilitySigner,
	scope string,
	key string,
	method string,
	ttl time.Duration,
	format string,
) error {
	capability, err := signer.Issue(scope, key, method, ttl)
	if err != nil {
		return fmt.Errorf("failed to issue capability: %w", err)
	}

	url := authHTTP.CapabilityURL(capability)

	if format == "json" {
		writeJSON(map[string]string{
			"url":        url,
			"method":     capability.Method,
			"expires_at": capability.ExpiresAt.Format(time.RFC3339),
		}, writer)
	} else {
		_, _ = fmt.Fprintf(writer, "URL: %s\n", url)
		_, _ = fmt.Fprintf(writer, "Method: %s\n", capability.Method)
		_, _ = fmt.Fprintf(writer, "Expires: %s\n", capability.ExpiresAt.Format(time.RFC3339))
	}

	logger.Info("pre-signed URL issued",
		slog.String("scope", scope),
		slog.String("key", key),
		slog.String("method", capability.Method),
		slog.Time("expires_at", capability.ExpiresAt),
	)

	return nil
}
