// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apperrors "github.com/edgegate/edgegate/internal/errors"
)

// startTimeKey is the gin context key holding the request start time.
const startTimeKey = "request_start_time"

// Meta carries response metadata common to every envelope.
type Meta struct {
	DurationMS int64  `json:"duration_ms"`
	RequestID  string `json:"request_id,omitempty"`
}

// ErrorBody is the error half of the response envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Envelope is the uniform JSON response shape. Either Data or Error is set,
// never both.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
	Meta    Meta       `json:"meta"`
}

// MarkRequestStart records the request start time so response metadata can
// report the handling duration. Called once by the logging middleware.
func MarkRequestStart(c *gin.Context) {
	c.Set(startTimeKey, time.Now())
}

func buildMeta(c *gin.Context) Meta {
	meta := Meta{RequestID: requestid.Get(c)}
	if start, ok := c.Get(startTimeKey); ok {
		if startTime, ok := start.(time.Time); ok {
			meta.DurationMS = time.Since(startTime).Milliseconds()
		}
	}
	return meta
}

// RespondGin writes a success envelope with the given status and payload.
func RespondGin(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, Envelope{
		Success: true,
		Data:    data,
		Meta:    buildMeta(c),
	})
}

// RespondErrorGin writes an error envelope with an explicit status and code,
// for the few cases that don't map from a domain error.
func RespondErrorGin(c *gin.Context, statusCode int, code, message string) {
	respondError(c, statusCode, code, message)
}

// respondError writes an error envelope.
func respondError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
		Meta:    buildMeta(c),
	})
}

// HandleErrorGin maps domain errors to HTTP status codes and writes an error
// envelope. Unknown errors become opaque 500s so backend details never leak.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var code, message string

	switch {
	case apperrors.Is(err, apperrors.ErrSignatureInvalid):
		statusCode = http.StatusUnauthorized
		code = "SIGNATURE_INVALID"
		message = "The signed URL signature is invalid"

	case apperrors.Is(err, apperrors.ErrCapabilityExpired):
		statusCode = http.StatusUnauthorized
		code = "CAPABILITY_EXPIRED"
		message = "The signed URL has expired"

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		code = "AUTHENTICATION_FAILED"
		message = "Authentication failed"

	case apperrors.Is(err, apperrors.ErrMethodMismatch):
		statusCode = http.StatusForbidden
		code = "METHOD_MISMATCH"
		message = "The signed URL does not allow this HTTP method"

	case apperrors.Is(err, apperrors.ErrForbidden):
		statusCode = http.StatusForbidden
		code = "PERMISSION_DENIED"
		message = "You don't have permission to perform this operation"

	case apperrors.Is(err, apperrors.ErrSessionTerminal):
		statusCode = http.StatusConflict
		code = "SESSION_TERMINAL"
		message = "The upload session is already completed or aborted"

	case apperrors.Is(err, apperrors.ErrInvalidPart):
		statusCode = http.StatusBadRequest
		code = "INVALID_PART"
		message = err.Error()

	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		code = "NOT_FOUND"
		message = "The requested resource was not found"

	case apperrors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusConflict
		code = "CONFLICT"
		message = "A conflict occurred with existing data"

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusUnprocessableEntity
		code = "INVALID_INPUT"
		message = err.Error()

	case apperrors.Is(err, apperrors.ErrBackend):
		statusCode = http.StatusBadGateway
		code = "BACKEND_ERROR"
		message = "The storage backend failed to process the request"

	default:
		statusCode = http.StatusInternalServerError
		code = "INTERNAL_ERROR"
		message = "An internal error occurred"
	}

	// Log the full error details (including wrapped errors)
	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", code),
			slog.String("request_id", requestid.Get(c)),
			slog.Any("error", err),
		)
	}

	respondError(c, statusCode, code, message)
}

// HandleBadRequestGin writes a 400 response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}
	respondError(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
}

// HandleValidationErrorGin writes a 422 response for validation errors.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}
	respondError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
}
