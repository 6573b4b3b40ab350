package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/edgegate/edgegate/internal/database"
	apperrors "github.com/edgegate/edgegate/internal/errors"
	queryDomain "github.com/edgegate/edgegate/internal/query/domain"
)

const (
	defaultQueryLimit = 1000
	maxQueryLimit     = 10000
)

// ScopeDB binds a named database scope to its connection.
type ScopeDB struct {
	DB        *sql.DB
	Driver    string
	TxManager database.TxManager
}

type queryUseCase struct {
	scopes map[string]*ScopeDB
}

// NewQueryUseCase creates a QueryUseCase over the configured database scopes.
func NewQueryUseCase(scopes map[string]*ScopeDB) QueryUseCase {
	return &queryUseCase{scopes: scopes}
}

func (u *queryUseCase) scope(name string) (*ScopeDB, error) {
	scope, ok := u.scopes[name]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "unknown database scope %q", name)
	}
	return scope, nil
}

// statementKeyword returns the uppercased first word of the statement.
func statementKeyword(statement string) string {
	fields := strings.Fields(statement)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

func (u *queryUseCase) Query(ctx context.Context, input QueryInput) (*queryDomain.QueryResult, error) {
	scope, err := u.scope(input.Scope)
	if err != nil {
		return nil, err
	}

	switch statementKeyword(input.SQL) {
	case "SELECT", "PRAGMA":
	case "":
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "empty statement")
	default:
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "only SELECT and PRAGMA statements are allowed")
	}

	if input.Offset < 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "offset must not be negative")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}

	// Appended as literals so the statement keeps its driver-native
	// placeholder numbering.
	statement := fmt.Sprintf("%s LIMIT %d OFFSET %d", strings.TrimRight(input.SQL, "; \t\n"), limit, input.Offset)

	rows, err := scope.DB.QueryContext(ctx, statement, input.Params...)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrBackend, "query failed: %v", err)
	}
	defer rows.Close()

	result, err := collectRows(rows)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (u *queryUseCase) Execute(ctx context.Context, input ExecuteInput) (*queryDomain.ExecuteResult, error) {
	scope, err := u.scope(input.Scope)
	if err != nil {
		return nil, err
	}

	switch statementKeyword(input.SQL) {
	case "":
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "empty statement")
	case "SELECT", "PRAGMA":
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "read statements must go through query")
	}

	result, err := scope.DB.ExecContext(ctx, input.SQL, input.Params...)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrBackend, "execute failed: %v", err)
	}

	return executeResultFrom(result), nil
}

func (u *queryUseCase) Batch(ctx context.Context, input BatchInput) ([]queryDomain.ExecuteResult, error) {
	scope, err := u.scope(input.Scope)
	if err != nil {
		return nil, err
	}

	if len(input.Statements) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "batch must contain at least one statement")
	}
	for i, statement := range input.Statements {
		switch statementKeyword(statement.SQL) {
		case "":
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "statement %d is empty", i)
		case "SELECT", "PRAGMA":
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "statement %d: read statements must go through query", i)
		}
	}

	results := make([]queryDomain.ExecuteResult, 0, len(input.Statements))
	err = scope.TxManager.WithTx(ctx, func(ctx context.Context) error {
		querier := database.GetTx(ctx, scope.DB)
		for i, statement := range input.Statements {
			result, err := querier.ExecContext(ctx, statement.SQL, statement.Params...)
			if err != nil {
				return apperrors.Wrapf(apperrors.ErrBackend, "statement %d failed: %v", i, err)
			}
			results = append(results, *executeResultFrom(result))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (u *queryUseCase) ListTables(ctx context.Context, scopeName string) ([]string, error) {
	scope, err := u.scope(scopeName)
	if err != nil {
		return nil, err
	}

	var statement string
	switch scope.Driver {
	case "postgres":
		statement = "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name"
	case "mysql":
		statement = "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name"
	default:
		return nil, apperrors.Wrapf(apperrors.ErrBackend, "unsupported driver %q", scope.Driver)
	}

	rows, err := scope.DB.QueryContext(ctx, statement)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrBackend, "list tables failed: %v", err)
	}
	defer rows.Close()

	tables := make([]string, 0)
	for rows.Next() {
		var table string
		if err := rows.Scan(&table); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrBackend, "failed to scan table name: %v", err)
		}
		tables = append(tables, table)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrBackend, "list tables failed: %v", err)
	}

	return tables, nil
}

// collectRows converts a result set into named rows. Byte slices become
// strings so JSON encoding stays readable.
func collectRows(rows *sql.Rows) (*queryDomain.QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrBackend, "failed to read columns: %v", err)
	}

	result := &queryDomain.QueryResult{
		Columns: columns,
		Rows:    make([]map[string]any, 0),
	}

	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrBackend, "failed to scan row: %v", err)
		}

		row := make(map[string]any, len(columns))
		for i, column := range columns {
			if raw, ok := values[i].([]byte); ok {
				row[column] = string(raw)
			} else {
				row[column] = values[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrBackend, "query failed: %v", err)
	}

	result.RowCount = len(result.Rows)
	return result, nil
}

// executeResultFrom extracts the affected rows and insert id. Drivers without
// LastInsertId support (postgres) report zero.
func executeResultFrom(result sql.Result) *queryDomain.ExecuteResult {
	out := &queryDomain.ExecuteResult{}
	if affected, err := result.RowsAffected(); err == nil {
		out.RowsAffected = affected
	}
	if lastID, err := result.LastInsertId(); err == nil {
		out.LastInsertID = lastID
	}
	return out
}
