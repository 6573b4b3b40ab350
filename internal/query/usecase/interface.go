// Package usecase contains the query gateway business logic.
package usecase

import (
	"context"

	queryDomain "github.com/edgegate/edgegate/internal/query/domain"
)

// QueryInput carries a read query against a named database scope. Limit is
// capped and, together with Offset, appended to the statement so a single
// query can never return an unbounded result set.
type QueryInput struct {
	Scope  string
	SQL    string
	Params []any
	Limit  int
	Offset int
}

// ExecuteInput carries a write statement against a named database scope.
type ExecuteInput struct {
	Scope  string
	SQL    string
	Params []any
}

// BatchInput carries a list of write statements executed in one transaction.
type BatchInput struct {
	Scope      string
	Statements []queryDomain.Statement
}

// QueryUseCase defines the query gateway operations.
type QueryUseCase interface {
	// Query runs a read-only statement. Only SELECT and PRAGMA are accepted.
	Query(ctx context.Context, input QueryInput) (*queryDomain.QueryResult, error)
	// Execute runs a single write statement. Read statements are rejected.
	Execute(ctx context.Context, input ExecuteInput) (*queryDomain.ExecuteResult, error)
	// Batch runs the statements inside one transaction. Any failure rolls the
	// whole batch back.
	Batch(ctx context.Context, input BatchInput) ([]queryDomain.ExecuteResult, error)
	// ListTables returns the table names visible in the scope's database.
	ListTables(ctx context.Context, scope string) ([]string, error)
}
