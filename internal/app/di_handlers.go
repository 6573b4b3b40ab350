package app

import (
	"fmt"

	authHTTP "github.com/edgegate/edgegate/internal/auth/http"
	"github.com/edgegate/edgegate/internal/http"
	queryHTTP "github.com/edgegate/edgegate/internal/query/http"
	storageHTTP "github.com/edgegate/edgegate/internal/storage/http"
	uploadHTTP "github.com/edgegate/edgegate/internal/upload/http"
)

// handlers assembles the route handlers for the HTTP server.
func (c *Container) handlers() (http.Handlers, error) {
	logger := c.Logger()

	credentialUseCase, err := c.CredentialUseCase()
	if err != nil {
		return http.Handlers{}, fmt.Errorf("failed to get credential use case for handlers: %w", err)
	}

	gate, err := c.GateUseCase()
	if err != nil {
		return http.Handlers{}, fmt.Errorf("failed to get gate use case for handlers: %w", err)
	}

	signer, err := c.CapabilitySigner()
	if err != nil {
		return http.Handlers{}, fmt.Errorf("failed to get capability signer for handlers: %w", err)
	}

	objectUseCase, err := c.ObjectUseCase()
	if err != nil {
		return http.Handlers{}, fmt.Errorf("failed to get object use case for handlers: %w", err)
	}

	uploadTracker, err := c.UploadTracker()
	if err != nil {
		return http.Handlers{}, fmt.Errorf("failed to get upload tracker for handlers: %w", err)
	}

	queryUC, err := c.QueryUseCase()
	if err != nil {
		return http.Handlers{}, fmt.Errorf("failed to get query use case for handlers: %w", err)
	}

	return http.Handlers{
		Credential: authHTTP.NewCredentialHandler(credentialUseCase, logger),
		Presign:    authHTTP.NewPresignHandler(gate, signer, logger),
		Object:     storageHTTP.NewObjectHandler(objectUseCase, logger),
		Upload:     uploadHTTP.NewUploadHandler(uploadTracker, logger),
		Query:      queryHTTP.NewQueryHandler(queryUC, logger),
	}, nil
}
