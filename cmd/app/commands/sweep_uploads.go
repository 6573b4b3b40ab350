package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	uploadUseCase "github.com/edgegate/edgegate/internal/upload/usecase"
)

// RunSweepUploads performs a one-shot sweep of expired multipart upload
// sessions, aborting them on the backend and releasing their buffered parts.
// The server runs the same sweep periodically; this command exists for
// operators who want to reclaim space immediately.
func RunSweepUploads(
	ctx context.Context,
	tracker *uploadUseCase.Tracker,
	logger *slog.Logger,
	writer io.Writer,
) error {
	logger.Info("sweeping expired upload sessions")

	swept := tracker.Sweep(ctx)

	_, _ = fmt.Fprintf(writer, "Swept %d expired upload session(s).\n", swept)

	logger.Info("sweep completed", slog.Int("swept", swept))
	return nil
}
