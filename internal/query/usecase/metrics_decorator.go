package usecase

import (
	"context"
	"time"

	"github.com/edgegate/edgegate/internal/metrics"
	queryDomain "github.com/edgegate/edgegate/internal/query/domain"
)

// queryUseCaseWithMetrics decorates QueryUseCase with metrics instrumentation.
type queryUseCaseWithMetrics struct {
	next    QueryUseCase
	metrics metrics.BusinessMetrics
}

// NewQueryUseCaseWithMetrics wraps a QueryUseCase with metrics recording.
func NewQueryUseCaseWithMetrics(useCase QueryUseCase, m metrics.BusinessMetrics) QueryUseCase {
	return &queryUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (q *queryUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	q.metrics.RecordOperation(ctx, "query", operation, status)
	q.metrics.RecordDuration(ctx, "query", operation, time.Since(start), status)
}

// Query records metrics for read query operations.
func (q *queryUseCaseWithMetrics) Query(
	ctx context.Context,
	input QueryInput,
) (*queryDomain.QueryResult, error) {
	start := time.Now()
	result, err := q.next.Query(ctx, input)
	q.record(ctx, "query", start, err)
	return result, err
}

// Execute records metrics for write statement operations.
func (q *queryUseCaseWithMetrics) Execute(
	ctx context.Context,
	input ExecuteInput,
) (*queryDomain.ExecuteResult, error) {
	start := time.Now()
	result, err := q.next.Execute(ctx, input)
	q.record(ctx, "execute", start, err)
	return result, err
}

// Batch records metrics for transactional batch operations.
func (q *queryUseCaseWithMetrics) Batch(
	ctx context.Context,
	input BatchInput,
) ([]queryDomain.ExecuteResult, error) {
	start := time.Now()
	results, err := q.next.Batch(ctx, input)
	q.record(ctx, "batch", start, err)
	return results, err
}

// ListTables records metrics for table listing operations.
func (q *queryUseCaseWithMetrics) ListTables(ctx context.Context, scope string) ([]string, error) {
	start := time.Now()
	tables, err := q.next.ListTables(ctx, scope)
	q.record(ctx, "list_tables", start, err)
	return tables, err
}
