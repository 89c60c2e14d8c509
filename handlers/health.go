package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/anonforum/forum/pkg/logger"
	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// Pinger is anything with a liveness probe (comment store, redis, ...).
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// RegisterHealth registers GET /health (comment store check) and GET /ready
// (every dependency in deps, keyed by name). Probes are bounded by timeout.
func RegisterHealth(rg gin.IRoutes, store Pinger, deps map[string]Pinger, timeout time.Duration) {
	rg.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logger.Errorf("health: database check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "disconnected"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "connected"})
	})

	rg.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		ready := true
		status := map[string]bool{"store": true}
		if err := store.Ping(ctx); err != nil {
			logger.Warnf("ready: store: %v", err)
			status["store"] = false
			ready = false
		}
		for name, p := range deps {
			ok := p.Ping(ctx) == nil
			status[name] = ok
			if !ok {
				logger.Warnf("ready: %s unavailable", name)
				ready = false
			}
		}

		uptime := time.Since(startTime).Round(time.Second).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": status, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": status, "uptime": uptime})
	})
}
