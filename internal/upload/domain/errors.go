package domain

import (
	apperrors "github.com/edgegate/edgegate/internal/errors"
)

// Upload domain errors.
var (
	// ErrSessionNotFound is returned when the upload session doesn't exist or
	// has already been swept.
	ErrSessionNotFound = apperrors.Wrap(apperrors.ErrNotFound, "upload session not found")
)
