package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/anonforum/forum/pkg/httperror"
	"github.com/anonforum/forum/pkg/logger"
	"github.com/anonforum/forum/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestLogger wraps the rest of the chain. The deferred emitter runs on
// every exit path (success, abort or recovered panic) and writes one request
// event plus a latency observation.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		defer func() {
			elapsed := time.Since(start)
			status := c.Writer.Status()
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			metrics.RequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
			logger.Request(logger.RequestFields{
				RequestID: id,
				Method:    c.Request.Method,
				Path:      c.Request.URL.Path,
				Status:    status,
				Duration:  elapsed,
				RemoteIP:  Identity(c),
				UserAgent: c.Request.UserAgent(),
			})
		}()
		c.Next()
	}
}

// RequestID returns the id assigned by RequestLogger.
func RequestID(c *gin.Context) string { return c.GetString(requestIDKey) }

// Recovery turns a panic into an Internal error response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		httperror.Abort(c, httperror.Internal(fmt.Errorf("panic: %v", rec)))
	})
}
