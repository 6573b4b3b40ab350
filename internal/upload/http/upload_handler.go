// Package http provides HTTP handlers for multipart upload sessions.
package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/edgegate/edgegate/internal/errors"
	"github.com/edgegate/edgegate/internal/httputil"
	storageDTO "github.com/edgegate/edgegate/internal/storage/http/dto"
	uploadDomain "github.com/edgegate/edgegate/internal/upload/domain"
	"github.com/edgegate/edgegate/internal/upload/http/dto"
	uploadUseCase "github.com/edgegate/edgegate/internal/upload/usecase"
	customValidation "github.com/edgegate/edgegate/internal/validation"
)

// UploadHandler handles HTTP requests for multipart upload sessions.
type UploadHandler struct {
	tracker *uploadUseCase.Tracker
	logger  *slog.Logger
}

// NewUploadHandler creates a new upload handler with required dependencies.
func NewUploadHandler(tracker *uploadUseCase.Tracker, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		tracker: tracker,
		logger:  logger,
	}
}

// session resolves the session route parameter and checks the session belongs
// to the bucket named by the route, so a grant on one bucket can never reach
// sessions of another.
func (h *UploadHandler) session(c *gin.Context) (*uploadDomain.MultipartSession, error) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid session ID format: must be a valid UUID")
	}

	session, err := h.tracker.Get(c.Request.Context(), sessionID)
	if err != nil {
		return nil, err
	}
	if session.Scope != c.Param("scope") {
		return nil, uploadDomain.ErrSessionNotFound
	}
	return session, nil
}

// CreateHandler opens a multipart upload session.
// POST /v1/buckets/:scope/uploads - Requires write on the bucket.
// Returns 201 Created with the session in Open state.
func (h *UploadHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateUploadRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	session, err := h.tracker.Create(c.Request.Context(), c.Param("scope"), req.Key, req.ContentType)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.RespondGin(c, http.StatusCreated, dto.MapSessionToResponse(session))
}

// GetHandler returns a snapshot of a session including its recorded parts.
// GET /v1/buckets/:scope/uploads/:session_id - Requires write on the bucket.
func (h *UploadHandler) GetHandler(c *gin.Context) {
	session, err := h.session(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.RespondGin(c, http.StatusOK, dto.MapSessionToResponse(session))
}

// UploadPartHandler streams the request body as one part of the session.
// PUT /v1/buckets/:scope/uploads/:session_id/parts/:part_number - Requires
// write on the bucket. Re-uploading a part number replaces the earlier part.
func (h *UploadHandler) UploadPartHandler(c *gin.Context) {
	session, err := h.session(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	partNumber, err := strconv.Atoi(c.Param("part_number"))
	if err != nil {
		httputil.HandleErrorGin(c,
			apperrors.Wrap(apperrors.ErrInvalidPart, "part number must be an integer"),
			h.logger)
		return
	}

	// Chunked uploads carry no length and the backend needs one up front.
	if c.Request.ContentLength < 0 {
		httputil.RespondErrorGin(c, http.StatusLengthRequired, "LENGTH_REQUIRED",
			"Content-Length header is required for part uploads")
		return
	}

	part, err := h.tracker.UploadPart(
		c.Request.Context(), session.ID, partNumber, c.Request.Body, c.Request.ContentLength,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.RespondGin(c, http.StatusOK, dto.PartResponse{
		PartNumber: part.Number,
		ETag:       part.ETag,
		Size:       part.Size,
		UploadedAt: part.UploadedAt,
	})
}

// CompleteHandler assembles the uploaded parts into the final object. The
// request body must list every uploaded part in ascending order with matching
// etags; a list that doesn't match fails as an invalid part and the session
// stays open.
// POST /v1/buckets/:scope/uploads/:session_id/complete - Requires write on
// the bucket. Exactly one of concurrent completions succeeds; a failed
// backend assembly leaves the session open for retry.
func (h *UploadHandler) CompleteHandler(c *gin.Context) {
	session, err := h.session(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var req dto.CompleteUploadRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	parts := make([]uploadDomain.PartReference, 0, len(req.Parts))
	for _, part := range req.Parts {
		parts = append(parts, uploadDomain.PartReference{
			Number: part.PartNumber,
			ETag:   part.ETag,
		})
	}

	info, err := h.tracker.Complete(c.Request.Context(), session.ID, parts)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("multipart upload completed",
		slog.String("session_id", session.ID.String()),
		slog.String("scope", session.Scope),
		slog.String("key", session.Key),
		slog.String("etag", info.ETag))

	httputil.RespondGin(c, http.StatusOK, storageDTO.MapObjectToResponse(info))
}

// AbortHandler discards a session and its uploaded parts.
// DELETE /v1/buckets/:scope/uploads/:session_id - Requires write on the
// bucket. Returns 204 No Content.
func (h *UploadHandler) AbortHandler(c *gin.Context) {
	session, err := h.session(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.tracker.Abort(c.Request.Context(), session.ID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
