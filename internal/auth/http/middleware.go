package http

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
	authUseCase "github.com/edgegate/edgegate/internal/auth/usecase"
	apperrors "github.com/edgegate/edgegate/internal/errors"
	"github.com/edgegate/edgegate/internal/httputil"
)

// APIKeyHeader carries the credential API key ("<id>.<secret>").
const APIKeyHeader = "X-API-Key" //nolint:gosec // header name, not a secret

// ObjectKeyParam extracts the object key from the wildcard route parameter.
// Gin's wildcard match keeps the leading slash; the key itself does not.
func ObjectKeyParam(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("key"), "/")
}

// AuthenticationMiddleware authenticates every request through the gate.
//
// Two modes are supported, checked in order:
//  1. Credential: the X-API-Key header holds "<id>.<secret>". The header wins
//     when both modes are present.
//  2. Capability: signature, expires and nonce query parameters form a signed
//     capability for the scope/key named by the route, verified against the
//     actual request method.
//
// Requests carrying neither are rejected with 401. On success the credential
// or capability is stored in the request context for the authorization
// middleware and handlers.
func AuthenticationMiddleware(gate authUseCase.GateUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey := c.GetHeader(APIKeyHeader); apiKey != "" {
			credential, err := gate.AuthenticateCredential(c.Request.Context(), apiKey)
			if err != nil {
				logger.Debug("credential authentication failed", slog.String("error", err.Error()))
				httputil.HandleErrorGin(c, err, logger)
				c.Abort()
				return
			}

			ctx := WithCredential(c.Request.Context(), credential)
			c.Request = c.Request.WithContext(ctx)

			logger.Debug("credential authentication successful",
				slog.String("credential_id", credential.ID.String()),
				slog.String("credential_name", credential.Name))
			c.Next()
			return
		}

		if signature := c.Query("signature"); signature != "" {
			expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
			if err != nil {
				logger.Debug("capability authentication failed: malformed expires parameter")
				httputil.HandleErrorGin(c, apperrors.ErrSignatureInvalid, logger)
				c.Abort()
				return
			}

			params := authDomain.CapabilityParams{
				Scope:     c.Param("scope"),
				Key:       ObjectKeyParam(c),
				Method:    c.Request.Method,
				ExpiresAt: expires,
				Nonce:     c.Query("nonce"),
				Signature: signature,
			}

			capability, err := gate.AuthenticateCapability(
				c.Request.Context(), params, c.Request.Method, time.Now(),
			)
			if err != nil {
				logger.Debug("capability authentication failed", slog.String("error", err.Error()))
				httputil.HandleErrorGin(c, err, logger)
				c.Abort()
				return
			}

			ctx := WithCapability(c.Request.Context(), capability)
			c.Request = c.Request.WithContext(ctx)

			logger.Debug("capability authentication successful",
				slog.String("scope", capability.Scope),
				slog.String("key", capability.Key))
			c.Next()
			return
		}

		logger.Debug("authentication failed: no api key or signature presented")
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
		c.Abort()
	}
}

// AuthorizationMiddleware authorizes the authenticated identity for the
// operation level on the scope named by the route.
//
// MUST be used after AuthenticationMiddleware. Credentials are checked
// against their grants; capabilities are checked against the exact object
// they were issued for, which also means a capability never authorizes a
// route without an object key.
func AuthorizationMiddleware(
	gate authUseCase.GateUseCase,
	family authDomain.ResourceFamily,
	level authDomain.OperationLevel,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := c.Param("scope")

		if credential, ok := GetCredential(c.Request.Context()); ok {
			if err := gate.Authorize(credential, family, scope, level); err != nil {
				logger.Debug("authorization failed: insufficient grants",
					slog.String("credential_id", credential.ID.String()),
					slog.String("scope", scope),
					slog.String("level", string(level)))
				httputil.HandleErrorGin(c, err, logger)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		if capability, ok := GetCapability(c.Request.Context()); ok {
			if err := gate.AuthorizeCapability(capability, scope, ObjectKeyParam(c)); err != nil {
				logger.Debug("authorization failed: capability does not cover object",
					slog.String("scope", scope))
				httputil.HandleErrorGin(c, err, logger)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		logger.Debug("authorization failed: no authenticated identity in context")
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
		c.Abort()
	}
}

// AdminOnlyMiddleware restricts a route to credentials holding an admin grant
// on the wildcard scope. Credential administration is not bound to any single
// scope, so a scoped admin grant is not enough.
//
// MUST be used after AuthenticationMiddleware and CredentialOnlyMiddleware.
func AdminOnlyMiddleware(gate authUseCase.GateUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential, ok := GetCredential(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		bucketErr := gate.Authorize(
			credential, authDomain.FamilyBucket, authDomain.WildcardScope, authDomain.LevelAdmin,
		)
		databaseErr := gate.Authorize(
			credential, authDomain.FamilyDatabase, authDomain.WildcardScope, authDomain.LevelAdmin,
		)
		if bucketErr != nil && databaseErr != nil {
			logger.Debug("authorization failed: wildcard admin grant required",
				slog.String("credential_id", credential.ID.String()))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// CredentialOnlyMiddleware rejects capability-authenticated requests. Used on
// routes that make no sense for a single-object bearer token, such as
// credential administration and the query gateway.
func CredentialOnlyMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetCredential(c.Request.Context()); !ok {
			logger.Debug("request requires a credential, not a capability")
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}
