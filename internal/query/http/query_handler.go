// Package http provides HTTP handlers for the query gateway.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edgegate/edgegate/internal/httputil"
	"github.com/edgegate/edgegate/internal/query/http/dto"
	queryUseCase "github.com/edgegate/edgegate/internal/query/usecase"
	customValidation "github.com/edgegate/edgegate/internal/validation"
)

// QueryHandler handles HTTP requests for the query gateway.
type QueryHandler struct {
	queryUseCase queryUseCase.QueryUseCase
	logger       *slog.Logger
}

// NewQueryHandler creates a new query handler with required dependencies.
func NewQueryHandler(queryUseCase queryUseCase.QueryUseCase, logger *slog.Logger) *QueryHandler {
	return &QueryHandler{
		queryUseCase: queryUseCase,
		logger:       logger,
	}
}

// QueryHandler runs a read-only statement against a database scope.
// POST /v1/databases/:scope/query - Requires read on the database.
func (h *QueryHandler) QueryHandler(c *gin.Context) {
	var req dto.QueryRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.queryUseCase.Query(c.Request.Context(), queryUseCase.QueryInput{
		Scope:  c.Param("scope"),
		SQL:    req.SQL,
		Params: req.Params,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.RespondGin(c, http.StatusOK, result)
}

// ExecuteHandler runs a single write statement against a database scope.
// POST /v1/databases/:scope/execute - Requires write on the database.
func (h *QueryHandler) ExecuteHandler(c *gin.Context) {
	var req dto.ExecuteRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.queryUseCase.Execute(c.Request.Context(), queryUseCase.ExecuteInput{
		Scope:  c.Param("scope"),
		SQL:    req.SQL,
		Params: req.Params,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.RespondGin(c, http.StatusOK, result)
}

// BatchHandler runs a list of write statements in one transaction.
// POST /v1/databases/:scope/batch - Requires write on the database.
// Any failing statement rolls back the whole batch.
func (h *QueryHandler) BatchHandler(c *gin.Context) {
	var req dto.BatchRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	results, err := h.queryUseCase.Batch(c.Request.Context(), queryUseCase.BatchInput{
		Scope:      c.Param("scope"),
		Statements: req.Statements,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.RespondGin(c, http.StatusOK, gin.H{"results": results})
}

// ListTablesHandler returns the table names visible in a database scope.
// GET /v1/databases/:scope/tables - Requires read on the database.
func (h *QueryHandler) ListTablesHandler(c *gin.Context) {
	tables, err := h.queryUseCase.ListTables(c.Request.Context(), c.Param("scope"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.RespondGin(c, http.StatusOK, gin.H{"tables": tables})
}
