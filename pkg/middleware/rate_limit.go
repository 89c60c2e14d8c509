package middleware

import (
	"math"
	"strconv"

	"github.com/anonforum/forum/pkg/httperror"
	"github.com/anonforum/forum/pkg/logger"
	"github.com/anonforum/forum/pkg/metrics"
	"github.com/anonforum/forum/pkg/ratelimit"
	"github.com/gin-gonic/gin"
)

// Route classes. Each class has its own counters, so the API and the form
// endpoint keep separate write budgets.
const (
	ClassGlobal        = "global"
	ClassCommentsRead  = "comments:read"
	ClassCommentsWrite = "comments:create"
	ClassFormWrite     = "comments:form"
)

// RateLimit admits a request only when the client is within q for class.
// Store failures are reported as 503 and not retried.
func RateLimit(l *ratelimit.Limiter, class string, q ratelimit.Quota) gin.HandlerFunc {
	storeName := l.Store().Name()
	return func(c *gin.Context) {
		id := Identity(c)
		dec, err := l.Allow(c.Request.Context(), id, class, q)
		if err != nil {
			httperror.Abort(c, httperror.StorageUnavailable(err))
			return
		}
		if dec.Limit == 0 {
			c.Next()
			return
		}

		remaining := int64(dec.Limit) - dec.Count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(dec.Reset.Unix(), 10))

		if !dec.Allowed {
			secs := int64(math.Ceil(dec.RetryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.FormatInt(secs, 10))
			metrics.RateLimitRejected.WithLabelValues(storeName, class).Inc()
			logger.Security(logger.EventRateLimitExceeded, c.Request.URL.Path, id)
			httperror.Abort(c, httperror.RateLimited())
			return
		}
		metrics.RateLimitAllowed.WithLabelValues(storeName, class).Inc()
		c.Next()
	}
}
