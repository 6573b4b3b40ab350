// Package dto provides data transfer objects for query gateway HTTP handling.
package dto

import (
	validation "github.com/jellydator/validation"

	queryDomain "github.com/edgegate/edgegate/internal/query/domain"
	customValidation "github.com/edgegate/edgegate/internal/validation"
)

// QueryRequest contains a read query and its paging parameters.
type QueryRequest struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// Validate checks if the query request is valid. Statement semantics (read
// versus write) are checked by the use case, not here.
func (r *QueryRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SQL,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Limit,
			validation.Min(0),
		),
		validation.Field(&r.Offset,
			validation.Min(0),
		),
	)
}

// ExecuteRequest contains a single write statement.
type ExecuteRequest struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

// Validate checks if the execute request is valid.
func (r *ExecuteRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SQL,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// BatchRequest contains a list of statements to run in one transaction.
type BatchRequest struct {
	Statements []queryDomain.Statement `json:"statements"`
}

// Validate checks if the batch request is valid.
func (r *BatchRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Statements,
			validation.Required,
			validation.Length(1, 100),
			validation.Each(validation.By(validateStatement)),
		),
	)
}

func validateStatement(value interface{}) error {
	statement, ok := value.(queryDomain.Statement)
	if !ok {
		return validation.NewError("validation_statement_type", "must be a statement")
	}

	return validation.ValidateStruct(&statement,
		validation.Field(&statement.SQL,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}
