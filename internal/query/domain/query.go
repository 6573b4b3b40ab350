// Package domain contains the query gateway entities.
package domain

// Statement is a single parameterized SQL statement. Placeholders follow the
// scope's driver convention ($1 for postgres, ? for mysql).
type Statement struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

// QueryResult holds the rows returned by a read query.
type QueryResult struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
}

// ExecuteResult holds the outcome of a write statement. LastInsertID is zero
// on drivers that do not report it.
type ExecuteResult struct {
	RowsAffected int64 `json:"rows_affected"`
	LastInsertID int64 `json:"last_insert_id"`
}
