package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
	"github.com/edgegate/edgegate/internal/auth/http/dto"
	authUseCase "github.com/edgegate/edgegate/internal/auth/usecase"
	"github.com/edgegate/edgegate/internal/httputil"
	customValidation "github.com/edgegate/edgegate/internal/validation"
)

// CredentialHandler handles HTTP requests for credential administration.
type CredentialHandler struct {
	credentialUseCase authUseCase.CredentialUseCase
	logger            *slog.Logger
}

// NewCredentialHandler creates a new credential handler with required dependencies.
func NewCredentialHandler(
	credentialUseCase authUseCase.CredentialUseCase,
	logger *slog.Logger,
) *CredentialHandler {
	return &CredentialHandler{
		credentialUseCase: credentialUseCase,
		logger:            logger,
	}
}

// CreateHandler creates a new credential with permission grants.
// POST /v1/credentials - Requires an admin credential.
// Returns 201 Created with the ID and the one-time API key.
func (h *CredentialHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateCredentialRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}
	for _, grant := range req.Grants {
		if err := grant.Validate(); err != nil {
			httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
			return
		}
	}

	grants := make([]authDomain.PermissionGrant, 0, len(req.Grants))
	for _, grant := range req.Grants {
		grants = append(grants, grant.ToDomain())
	}

	input := &authDomain.CreateCredentialInput{
		Name:     req.Name,
		IsActive: req.IsActive,
		Grants:   grants,
	}

	output, err := h.credentialUseCase.Create(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.RespondGin(c, http.StatusCreated, dto.CreateCredentialResponse{
		ID:     output.ID.String(),
		APIKey: fmt.Sprintf("%s.%s", output.ID, output.PlainSecret),
	})
}

// GetHandler retrieves a credential by ID, including revoked ones.
// GET /v1/credentials/:id - Requires an admin credential.
func (h *CredentialHandler) GetHandler(c *gin.Context) {
	credentialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid credential ID format: must be a valid UUID"),
			h.logger)
		return
	}

	credential, err := h.credentialUseCase.Get(c.Request.Context(), credentialID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.RespondGin(c, http.StatusOK, dto.MapCredentialToResponse(credential))
}

// ListHandler retrieves credentials with pagination support.
// GET /v1/credentials?offset=0&limit=50 - Requires an admin credential.
func (h *CredentialHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	credentials, err := h.credentialUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.RespondGin(c, http.StatusOK, dto.MapCredentialsToListResponse(credentials))
}

// RotateHandler replaces a credential with a fresh secret in one transaction.
// POST /v1/credentials/:id/rotate - Requires an admin credential.
// Returns 200 OK with the replacement's one-time API key.
func (h *CredentialHandler) RotateHandler(c *gin.Context) {
	credentialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid credential ID format: must be a valid UUID"),
			h.logger)
		return
	}

	output, err := h.credentialUseCase.Rotate(c.Request.Context(), credentialID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.RespondGin(c, http.StatusOK, dto.RotateCredentialResponse{
		ID:        output.ID.String(),
		APIKey:    fmt.Sprintf("%s.%s", output.ID, output.PlainSecret),
		RevokedID: output.RevokedID.String(),
	})
}

// RevokeHandler permanently disables a credential.
// DELETE /v1/credentials/:id - Requires an admin credential.
// Returns 204 No Content; revoking an already revoked credential is a no-op.
func (h *CredentialHandler) RevokeHandler(c *gin.Context) {
	credentialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid credential ID format: must be a valid UUID"),
			h.logger)
		return
	}

	if err := h.credentialUseCase.Revoke(c.Request.Context(), credentialID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
