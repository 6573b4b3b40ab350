// Package http provides the HTTP server, route registration and server-level
// middleware for the gateway API.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
	authHTTP "github.com/edgegate/edgegate/internal/auth/http"
	authUseCase "github.com/edgegate/edgegate/internal/auth/usecase"
	"github.com/edgegate/edgegate/internal/config"
	"github.com/edgegate/edgegate/internal/metrics"
	queryHTTP "github.com/edgegate/edgegate/internal/query/http"
	storageHTTP "github.com/edgegate/edgegate/internal/storage/http"
	uploadHTTP "github.com/edgegate/edgegate/internal/upload/http"
)

// Handlers groups the route handlers exposed by the server.
type Handlers struct {
	Credential *authHTTP.CredentialHandler
	Presign    *authHTTP.PresignHandler
	Object     *storageHTTP.ObjectHandler
	Upload     *uploadHTTP.UploadHandler
	Query      *queryHTTP.QueryHandler
}

// Server represents the HTTP server.
type Server struct {
	config          *config.Config
	logger          *slog.Logger
	db              *sql.DB
	gate            authUseCase.GateUseCase
	handlers        Handlers
	metricsProvider *metrics.Provider

	router *gin.Engine
	server *http.Server
}

// NewServer creates a new HTTP server. The metrics provider may be nil, in
// which case no HTTP metrics are recorded.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	gate authUseCase.GateUseCase,
	handlers Handlers,
	metricsProvider *metrics.Provider,
) *Server {
	return &Server{
		config:          cfg,
		logger:          logger,
		db:              db,
		gate:            gate,
		handlers:        handlers,
		metricsProvider: metricsProvider,
	}
}

// SetupRouter builds the gin engine with all middleware and routes.
//
// Route protection layers, outermost first: authentication (credential header
// or signed capability), per-credential rate limiting, then per-route
// authorization at the operation level the route needs. Credential
// administration and the query gateway additionally refuse capability
// authentication, since a capability is bound to a single object.
func (s *Server) SetupRouter() *gin.Engine {
	gin.SetMode(s.config.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if s.metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			s.metricsProvider.MeterProvider(), s.config.MetricsNamespace,
		))
	}

	if corsMiddleware := createCORSMiddleware(
		s.config.CORSEnabled, s.config.CORSAllowOrigins, s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	credentialOnly := authHTTP.CredentialOnlyMiddleware(s.logger)
	bucketLevel := func(level authDomain.OperationLevel) gin.HandlerFunc {
		return authHTTP.AuthorizationMiddleware(s.gate, authDomain.FamilyBucket, level, s.logger)
	}
	databaseLevel := func(level authDomain.OperationLevel) gin.HandlerFunc {
		return authHTTP.AuthorizationMiddleware(s.gate, authDomain.FamilyDatabase, level, s.logger)
	}

	v1 := router.Group("/v1")
	v1.Use(authHTTP.AuthenticationMiddleware(s.gate, s.logger))
	if s.config.RateLimitEnabled {
		v1.Use(authHTTP.RateLimitMiddleware(
			s.config.RateLimitRequestsPerSec, s.config.RateLimitBurst, s.logger,
		))
	}

	credentials := v1.Group("/credentials",
		credentialOnly, authHTTP.AdminOnlyMiddleware(s.gate, s.logger))
	credentials.POST("", s.handlers.Credential.CreateHandler)
	credentials.GET("", s.handlers.Credential.ListHandler)
	credentials.GET("/:credential_id", s.handlers.Credential.GetHandler)
	credentials.POST("/:credential_id/rotate", s.handlers.Credential.RotateHandler)
	credentials.DELETE("/:credential_id", s.handlers.Credential.RevokeHandler)

	// Presign authorizes inside the handler: the target scope comes from the
	// request body, not the route.
	v1.POST("/presign", credentialOnly, s.handlers.Presign.PresignURLHandler)

	buckets := v1.Group("/buckets/:scope")
	buckets.GET("", bucketLevel(authDomain.LevelRead), s.handlers.Object.ListHandler)
	buckets.POST("/copy", bucketLevel(authDomain.LevelWrite), s.handlers.Object.CopyHandler)
	buckets.PUT("/objects/*key", bucketLevel(authDomain.LevelWrite), s.handlers.Object.UploadHandler)
	buckets.GET("/objects/*key", bucketLevel(authDomain.LevelRead), s.handlers.Object.DownloadHandler)
	buckets.HEAD("/objects/*key", bucketLevel(authDomain.LevelRead), s.handlers.Object.HeadHandler)
	buckets.DELETE("/objects/*key", bucketLevel(authDomain.LevelDelete), s.handlers.Object.DeleteHandler)

	uploads := buckets.Group("/uploads", bucketLevel(authDomain.LevelWrite))
	uploads.POST("", s.handlers.Upload.CreateHandler)
	uploads.GET("/:session_id", s.handlers.Upload.GetHandler)
	uploads.PUT("/:session_id/parts/:part_number", s.handlers.Upload.UploadPartHandler)
	uploads.POST("/:session_id/complete", s.handlers.Upload.CompleteHandler)
	uploads.DELETE("/:session_id", s.handlers.Upload.AbortHandler)

	databases := v1.Group("/databases/:scope", credentialOnly)
	databases.POST("/query", databaseLevel(authDomain.LevelRead), s.handlers.Query.QueryHandler)
	databases.GET("/tables", databaseLevel(authDomain.LevelRead), s.handlers.Query.ListTablesHandler)
	databases.POST("/execute", databaseLevel(authDomain.LevelWrite), s.handlers.Query.ExecuteHandler)
	databases.POST("/batch", databaseLevel(authDomain.LevelWrite), s.handlers.Query.BatchHandler)

	return router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic, checking the
// database connection.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			components["database"] = "error"
			ready = false
		} else {
			components["database"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		s.router = s.SetupRouter()
	}

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.config.ServerHost, s.config.ServerPort),
		Handler: s.router,
		// Object uploads and downloads stream for as long as they need to;
		// only the header exchange is bounded.
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
