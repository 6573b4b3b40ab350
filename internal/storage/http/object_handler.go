// Package http provides HTTP handlers for object storage operations.
package http

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/edgegate/edgegate/internal/auth/http"
	apperrors "github.com/edgegate/edgegate/internal/errors"
	"github.com/edgegate/edgegate/internal/httputil"
	"github.com/edgegate/edgegate/internal/storage"
	"github.com/edgegate/edgegate/internal/storage/http/dto"
	storageUseCase "github.com/edgegate/edgegate/internal/storage/usecase"
	customValidation "github.com/edgegate/edgegate/internal/validation"
)

// ObjectHandler handles HTTP requests for object storage operations.
type ObjectHandler struct {
	objectUseCase storageUseCase.ObjectUseCase
	logger        *slog.Logger
}

// NewObjectHandler creates a new object handler with required dependencies.
func NewObjectHandler(objectUseCase storageUseCase.ObjectUseCase, logger *slog.Logger) *ObjectHandler {
	return &ObjectHandler{
		objectUseCase: objectUseCase,
		logger:        logger,
	}
}

// UploadHandler stores the request body as an object.
// PUT /v1/buckets/:scope/objects/*key - Requires write on the bucket.
//
// An optional Content-MD5 header (base64, per RFC 1864) is verified against
// the received bytes; on mismatch the object is discarded and 422 returned.
func (h *ObjectHandler) UploadHandler(c *gin.Context) {
	key := authHTTP.ObjectKeyParam(c)
	if err := customValidation.ObjectKey.Validate(key); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	contentMD5, err := decodeContentMD5(c.GetHeader("Content-MD5"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	result, err := h.objectUseCase.Upload(c.Request.Context(), storageUseCase.UploadObjectInput{
		Scope:       c.Param("scope"),
		Key:         key,
		Body:        c.Request.Body,
		Size:        c.Request.ContentLength,
		ContentType: c.ContentType(),
		ContentMD5:  contentMD5,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.RespondGin(c, http.StatusCreated, dto.PutObjectResponse{
		Key:  result.Key,
		Size: result.Size,
		ETag: result.ETag,
	})
}

// DownloadHandler streams an object body.
// GET /v1/buckets/:scope/objects/*key - Requires read on the bucket.
//
// A single Range header of the form "bytes=start-end" is honored with a 206
// response; multi-range requests are rejected.
func (h *ObjectHandler) DownloadHandler(c *gin.Context) {
	byteRange, err := parseRangeHeader(c.GetHeader("Range"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	reader, info, err := h.objectUseCase.Download(c.Request.Context(), storageUseCase.DownloadObjectInput{
		Scope: c.Param("scope"),
		Key:   authHTTP.ObjectKeyParam(c),
		Range: byteRange,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer reader.Close()

	statusCode := http.StatusOK
	length := info.Size
	if byteRange != nil {
		statusCode = http.StatusPartialContent
		end := byteRange.End
		if end >= info.Size {
			end = info.Size - 1
		}
		length = end - byteRange.Start + 1
		c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", byteRange.Start, end, info.Size))
	}

	c.Header("ETag", info.ETag)
	c.Header("Accept-Ranges", "bytes")
	c.DataFromReader(statusCode, length, info.ContentType, reader, nil)
}

// HeadHandler returns object metadata as headers with no body.
// HEAD /v1/buckets/:scope/objects/*key - Requires read on the bucket.
func (h *ObjectHandler) HeadHandler(c *gin.Context) {
	info, err := h.objectUseCase.Stat(c.Request.Context(), c.Param("scope"), authHTTP.ObjectKeyParam(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Content-Length", strconv.FormatInt(info.Size, 10))
	c.Header("Content-Type", info.ContentType)
	c.Header("ETag", info.ETag)
	c.Header("Last-Modified", info.LastModified.UTC().Format(http.TimeFormat))
	c.Status(http.StatusOK)
}

// DeleteHandler removes an object.
// DELETE /v1/buckets/:scope/objects/*key - Requires delete on the bucket.
// Returns 204 No Content; deleting a missing object succeeds.
func (h *ObjectHandler) DeleteHandler(c *gin.Context) {
	err := h.objectUseCase.Delete(c.Request.Context(), c.Param("scope"), authHTTP.ObjectKeyParam(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// CopyHandler duplicates an object server-side.
// POST /v1/buckets/:scope/copy - Requires write on the destination bucket.
func (h *ObjectHandler) CopyHandler(c *gin.Context) {
	var req dto.CopyObjectRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	scope := c.Param("scope")
	destinationScope := req.DestinationScope
	if destinationScope == "" {
		destinationScope = scope
	}

	info, err := h.objectUseCase.Copy(c.Request.Context(), storageUseCase.CopyObjectInput{
		SourceScope:      scope,
		SourceKey:        req.SourceKey,
		DestinationScope: destinationScope,
		DestinationKey:   req.DestinationKey,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.RespondGin(c, http.StatusCreated, dto.MapObjectToResponse(info))
}

// ListHandler returns a page of objects under an optional prefix.
// GET /v1/buckets/:scope?prefix=&cursor=&limit= - Requires read on the bucket.
func (h *ObjectHandler) ListHandler(c *gin.Context) {
	cursor, limit, err := httputil.ParseCursorPagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	page, err := h.objectUseCase.List(c.Request.Context(), storageUseCase.ListObjectsInput{
		Scope:  c.Param("scope"),
		Prefix: c.Query("prefix"),
		Cursor: cursor,
		Limit:  limit,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.RespondGin(c, http.StatusOK, dto.MapListPageToResponse(page))
}

// decodeContentMD5 converts an RFC 1864 base64 Content-MD5 header into the
// hex form the use case verifies against.
func decodeContentMD5(header string) (string, error) {
	if header == "" {
		return "", nil
	}
	digest, err := base64.StdEncoding.DecodeString(header)
	if err != nil || len(digest) != 16 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "Content-MD5 must be a base64-encoded md5 digest")
	}
	return hex.EncodeToString(digest), nil
}

// parseRangeHeader parses a single "bytes=start-end" range. An empty header
// means no range. Suffix ranges ("bytes=-500") and multi-range requests are
// not supported.
func parseRangeHeader(header string) (*storage.ByteRange, error) {
	if header == "" {
		return nil, nil
	}

	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok || strings.Contains(spec, ",") {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unsupported Range header")
	}

	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok || startStr == "" || endStr == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unsupported Range header")
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid Range header")
	}
	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil || end < start {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid Range header")
	}

	return &storage.ByteRange{Start: start, End: end}, nil
}
