package http

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
	"github.com/edgegate/edgegate/internal/auth/http/dto"
	authService "github.com/edgegate/edgegate/internal/auth/service"
	authUseCase "github.com/edgegate/edgegate/internal/auth/usecase"
	apperrors "github.com/edgegate/edgegate/internal/errors"
	"github.com/edgegate/edgegate/internal/httputil"
	customValidation "github.com/edgegate/edgegate/internal/validation"
)

// PresignHandler issues signed capability URLs for single objects.
type PresignHandler struct {
	gate   authUseCase.GateUseCase
	signer authService.CapabilitySigner
	logger *slog.Logger
}

// NewPresignHandler creates a new presign handler with required dependencies.
func NewPresignHandler(
	gate authUseCase.GateUseCase,
	signer authService.CapabilitySigner,
	logger *slog.Logger,
) *PresignHandler {
	return &PresignHandler{
		gate:   gate,
		signer: signer,
		logger: logger,
	}
}

// PresignURLHandler issues a pre-signed URL for one method on one object.
// POST /v1/presign - Requires a credential holding admin on the target bucket.
//
// The scope comes from the request body rather than the route, so the
// authorization check happens here instead of in route middleware.
func (h *PresignHandler) PresignURLHandler(c *gin.Context) {
	credential, ok := GetCredential(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.PresignRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.gate.Authorize(
		credential, authDomain.FamilyBucket, req.Scope, authDomain.LevelAdmin,
	); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	capability, err := h.signer.Issue(
		req.Scope, req.Key, req.Method, time.Duration(req.TTLSeconds)*time.Second,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("pre-signed url issued",
		slog.String("credential_id", credential.ID.String()),
		slog.String("scope", capability.Scope),
		slog.String("key", capability.Key),
		slog.String("method", capability.Method),
		slog.Time("expires_at", capability.ExpiresAt))

	httputil.RespondGin(c, http.StatusCreated, dto.PresignResponse{
		URL:       CapabilityURL(capability),
		Method:    capability.Method,
		ExpiresAt: capability.ExpiresAt,
	})
}

// CapabilityURL renders the relative object URL carrying the capability
// parameters.
func CapabilityURL(capability *authDomain.SignedCapability) string {
	query := url.Values{}
	query.Set("signature", hex.EncodeToString(capability.Signature))
	query.Set("expires", fmt.Sprintf("%d", capability.ExpiresAt.Unix()))
	query.Set("nonce", capability.Nonce)

	u := url.URL{
		Path:     fmt.Sprintf("/v1/buckets/%s/objects/%s", capability.Scope, capability.Key),
		RawQuery: query.Encode(),
	}
	return u.String()
}
