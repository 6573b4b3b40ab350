package app

import (
	"fmt"

	"github.com/edgegate/edgegate/internal/storage"
	storageUseCase "github.com/edgegate/edgegate/internal/storage/usecase"
	uploadUseCase "github.com/edgegate/edgegate/internal/upload/usecase"
)

// ObjectBackend returns the S3-compatible object store backend.
func (c *Container) ObjectBackend() (storage.ObjectBackend, error) {
	c.objectBackendInit.Do(func() {
		backend, err := storage.NewMinioBackend(storage.MinioConfig{
			Endpoint:  c.config.ObjectStoreEndpoint,
			AccessKey: c.config.ObjectStoreAccessKey,
			SecretKey: c.config.ObjectStoreSecretKey,
			UseSSL:    c.config.ObjectStoreUseSSL,
		})
		if err != nil {
			c.initErrors["objectBackend"] = fmt.Errorf("failed to create object backend: %w", err)
			return
		}
		c.objectBackend = backend
	})
	if storedErr, exists := c.initErrors["objectBackend"]; exists {
		return nil, storedErr
	}
	return c.objectBackend, nil
}

// ObjectUseCase returns the object storage use case.
func (c *Container) ObjectUseCase() (storageUseCase.ObjectUseCase, error) {
	c.objectUseCaseInit.Do(func() {
		backend, err := c.ObjectBackend()
		if err != nil {
			c.initErrors["objectUseCase"] = fmt.Errorf(
				"failed to get object backend for object use case: %w", err)
			return
		}

		useCase := storageUseCase.NewObjectUseCase(backend)

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["objectUseCase"] = fmt.Errorf(
				"failed to get business metrics for object use case: %w", err)
			return
		}

		c.objectUseCase = storageUseCase.NewObjectUseCaseWithMetrics(useCase, businessMetrics)
	})
	if storedErr, exists := c.initErrors["objectUseCase"]; exists {
		return nil, storedErr
	}
	return c.objectUseCase, nil
}

// UploadTracker returns the multipart upload session tracker. The caller is
// responsible for starting the abandoned-session sweeper.
func (c *Container) UploadTracker() (*uploadUseCase.Tracker, error) {
	c.uploadTrackerInit.Do(func() {
		backend, err := c.ObjectBackend()
		if err != nil {
			c.initErrors["uploadTracker"] = fmt.Errorf(
				"failed to get object backend for upload tracker: %w", err)
			return
		}

		c.uploadTracker = uploadUseCase.NewTracker(
			backend,
			c.config.MultipartMinPartSize,
			c.config.UploadSessionTTL,
			c.Logger(),
		)
	})
	if storedErr, exists := c.initErrors["uploadTracker"]; exists {
		return nil, storedErr
	}
	return c.uploadTracker, nil
}
