package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/edgegate/edgegate/internal/httputil"
)

// CustomLoggerMiddleware logs every request with its request id, outcome and
// duration. It also marks the request start time so response envelopes can
// report how long handling took.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httputil.MarkRequestStart(c)

		c.Next()

		attrs := []any{
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}

		if len(c.Errors) > 0 {
			logger.Error("http request", append(attrs, slog.String("errors", c.Errors.String()))...)
			return
		}

		logger.Info("http request", attrs...)
	}
}
