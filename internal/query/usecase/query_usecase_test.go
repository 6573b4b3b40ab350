package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgegate/edgegate/internal/database"
	apperrors "github.com/edgegate/edgegate/internal/errors"
	queryDomain "github.com/edgegate/edgegate/internal/query/domain"
)

func newTestGateway(t *testing.T, driver string) (QueryUseCase, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	useCase := NewQueryUseCase(map[string]*ScopeDB{
		"analytics": {
			DB:        db,
			Driver:    driver,
			TxManager: database.NewTxManager(db),
		},
	})
	return useCase, mock
}

func TestQueryUseCase_Query(t *testing.T) {
	useCase, mock := newTestGateway(t, "postgres")

	mock.ExpectQuery("SELECT id, name FROM users WHERE active = \\$1 LIMIT 1000 OFFSET 0").
		WithArgs(true).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "name"}).
				AddRow(int64(1), []byte("alice")).
				AddRow(int64(2), []byte("bob")),
		)

	result, err := useCase.Query(context.Background(), QueryInput{
		Scope:  "analytics",
		SQL:    "SELECT id, name FROM users WHERE active = $1",
		Params: []any{true},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, result.Columns)
	assert.Equal(t, 2, result.RowCount)
	assert.Equal(t, "alice", result.Rows[0]["name"], "byte columns decode to strings")
	assert.Equal(t, int64(2), result.Rows[1]["id"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryUseCase_QueryLimitAndOffset(t *testing.T) {
	useCase, mock := newTestGateway(t, "postgres")

	mock.ExpectQuery("SELECT \\* FROM events LIMIT 10000 OFFSET 20").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// A trailing semicolon is stripped before the limit is appended, and the
	// requested limit is capped.
	_, err := useCase.Query(context.Background(), QueryInput{
		Scope:  "analytics",
		SQL:    "SELECT * FROM events;",
		Limit:  99999,
		Offset: 20,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryUseCase_QueryRejectsWrites(t *testing.T) {
	useCase, _ := newTestGateway(t, "postgres")

	for _, statement := range []string{
		"DELETE FROM users",
		"UPDATE users SET name = $1",
		"INSERT INTO users VALUES ($1)",
		"DROP TABLE users",
		"",
		"   ",
	} {
		_, err := useCase.Query(context.Background(), QueryInput{Scope: "analytics", SQL: statement})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "statement %q", statement)
	}

	_, err := useCase.Query(context.Background(), QueryInput{
		Scope:  "analytics",
		SQL:    "SELECT 1",
		Offset: -1,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestQueryUseCase_UnknownScope(t *testing.T) {
	useCase, _ := newTestGateway(t, "postgres")

	_, err := useCase.Query(context.Background(), QueryInput{Scope: "nope", SQL: "SELECT 1"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = useCase.Execute(context.Background(), ExecuteInput{Scope: "nope", SQL: "DELETE FROM t"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = useCase.ListTables(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestQueryUseCase_Execute(t *testing.T) {
	useCase, mock := newTestGateway(t, "mysql")

	mock.ExpectExec("INSERT INTO users \\(name\\) VALUES \\(\\?\\)").
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(42, 1))

	result, err := useCase.Execute(context.Background(), ExecuteInput{
		Scope:  "analytics",
		SQL:    "INSERT INTO users (name) VALUES (?)",
		Params: []any{"alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.RowsAffected)
	assert.Equal(t, int64(42), result.LastInsertID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryUseCase_ExecuteRejectsReads(t *testing.T) {
	useCase, _ := newTestGateway(t, "postgres")

	for _, statement := range []string{"SELECT 1", "pragma table_info(users)", ""} {
		_, err := useCase.Execute(context.Background(), ExecuteInput{Scope: "analytics", SQL: statement})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "statement %q", statement)
	}
}

func TestQueryUseCase_Batch(t *testing.T) {
	useCase, mock := newTestGateway(t, "postgres")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO a").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE b SET x = \\$1").WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	results, err := useCase.Batch(context.Background(), BatchInput{
		Scope: "analytics",
		Statements: []queryDomain.Statement{
			{SQL: "INSERT INTO a VALUES (1)"},
			{SQL: "UPDATE b SET x = $1", Params: []any{7}},
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(1), results[0].RowsAffected)
	assert.Equal(t, int64(3), results[1].RowsAffected)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryUseCase_BatchRollsBackOnFailure(t *testing.T) {
	useCase, mock := newTestGateway(t, "postgres")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO a").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO b").WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	_, err := useCase.Batch(context.Background(), BatchInput{
		Scope: "analytics",
		Statements: []queryDomain.Statement{
			{SQL: "INSERT INTO a VALUES (1)"},
			{SQL: "INSERT INTO b VALUES (2)"},
		},
	})
	require.ErrorIs(t, err, apperrors.ErrBackend)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryUseCase_BatchRejectsReadsAndEmpty(t *testing.T) {
	useCase, _ := newTestGateway(t, "postgres")

	_, err := useCase.Batch(context.Background(), BatchInput{Scope: "analytics"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = useCase.Batch(context.Background(), BatchInput{
		Scope: "analytics",
		Statements: []queryDomain.Statement{
			{SQL: "INSERT INTO a VALUES (1)"},
			{SQL: "SELECT * FROM a"},
		},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestQueryUseCase_ListTables(t *testing.T) {
	useCase, mock := newTestGateway(t, "postgres")

	mock.ExpectQuery("SELECT table_name FROM information_schema.tables").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("credentials").AddRow("events"))

	tables, err := useCase.ListTables(context.Background(), "analytics")
	require.NoError(t, err)
	assert.Equal(t, []string{"credentials", "events"}, tables)

	require.NoError(t, mock.ExpectationsWereMet())
}
