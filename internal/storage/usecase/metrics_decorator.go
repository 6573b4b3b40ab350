package usecase

import (
	"context"
	"io"
	"time"

	"github.com/edgegate/edgegate/internal/metrics"
	"github.com/edgegate/edgegate/internal/storage"
)

// objectUseCaseWithMetrics decorates ObjectUseCase with metrics instrumentation.
type objectUseCaseWithMetrics struct {
	next    ObjectUseCase
	metrics metrics.BusinessMetrics
}

// NewObjectUseCaseWithMetrics wraps an ObjectUseCase with metrics recording.
func NewObjectUseCaseWithMetrics(useCase ObjectUseCase, m metrics.BusinessMetrics) ObjectUseCase {
	return &objectUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (o *objectUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	o.metrics.RecordOperation(ctx, "storage", operation, status)
	o.metrics.RecordDuration(ctx, "storage", operation, time.Since(start), status)
}

// Upload records metrics for object upload operations.
func (o *objectUseCaseWithMetrics) Upload(
	ctx context.Context,
	input UploadObjectInput,
) (*storage.PutResult, error) {
	start := time.Now()
	result, err := o.next.Upload(ctx, input)
	o.record(ctx, "object_upload", start, err)
	return result, err
}

// Download records metrics for object download operations. The duration covers
// opening the object, not streaming the body.
func (o *objectUseCaseWithMetrics) Download(
	ctx context.Context,
	input DownloadObjectInput,
) (io.ReadCloser, *storage.ObjectInfo, error) {
	start := time.Now()
	reader, info, err := o.next.Download(ctx, input)
	o.record(ctx, "object_download", start, err)
	return reader, info, err
}

// Stat records metrics for object stat operations.
func (o *objectUseCaseWithMetrics) Stat(ctx context.Context, scope, key string) (*storage.ObjectInfo, error) {
	start := time.Now()
	info, err := o.next.Stat(ctx, scope, key)
	o.record(ctx, "object_stat", start, err)
	return info, err
}

// Delete records metrics for object delete operations.
func (o *objectUseCaseWithMetrics) Delete(ctx context.Context, scope, key string) error {
	start := time.Now()
	err := o.next.Delete(ctx, scope, key)
	o.record(ctx, "object_delete", start, err)
	return err
}

// Copy records metrics for object copy operations.
func (o *objectUseCaseWithMetrics) Copy(
	ctx context.Context,
	input CopyObjectInput,
) (*storage.ObjectInfo, error) {
	start := time.Now()
	info, err := o.next.Copy(ctx, input)
	o.record(ctx, "object_copy", start, err)
	return info, err
}

// List records metrics for object list operations.
func (o *objectUseCaseWithMetrics) List(
	ctx context.Context,
	input ListObjectsInput,
) (*storage.ListPage, error) {
	start := time.Now()
	page, err := o.next.List(ctx, input)
	o.record(ctx, "object_list", start, err)
	return page, err
}
