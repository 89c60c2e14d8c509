// Package server assembles the board's HTTP stack and owns its lifecycle.
package server

import (
	"net/http"
	"time"

	"github.com/anonforum/forum/handlers"
	"github.com/anonforum/forum/internal/comment/handler"
	"github.com/anonforum/forum/internal/comment/service"
	"github.com/anonforum/forum/internal/config"
	"github.com/anonforum/forum/internal/tokens"
	"github.com/anonforum/forum/pkg/httperror"
	"github.com/anonforum/forum/pkg/middleware"
	"github.com/anonforum/forum/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const probeTimeout = 2 * time.Second

// Deps are the collaborators NewRouter wires together.
type Deps struct {
	Config  *config.Config
	Service service.Service
	// Limiter is nil when rate limiting is disabled.
	Limiter *ratelimit.Limiter
	// Ready lists extra dependencies reported by GET /ready.
	Ready map[string]handlers.Pinger
	// Metrics defaults to the prometheus default gatherer.
	Metrics http.Handler
}

// NewRouter builds the gin engine: global middleware, operational endpoints
// and the board routes with their quotas and CSRF guards.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config

	r := gin.New()
	r.Use(
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.SecurityHeaders(),
		middleware.ClientIdentity(cfg.RateLimit.TrustForwarded),
		middleware.BodyLimit(cfg.Comments.MaxBodyBytes),
	)
	handlers.LoadTemplates(r)

	// board routes and unknown paths share the global quota
	var global []gin.HandlerFunc
	if l := d.Limiter; l != nil {
		global = append(global, middleware.RateLimit(l, middleware.ClassGlobal, ratelimit.PerHour(cfg.RateLimit.GlobalPerHour)))
	}
	r.NoRoute(append(global, func(c *gin.Context) { httperror.Abort(c, httperror.NotFound()) })...)

	handlers.RegisterHealth(r, d.Service, d.Ready, probeTimeout)
	metricsHandler := d.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.GET("/metrics", gin.WrapH(metricsHandler))
	handlers.RegisterStatic(r)
	handlers.RegisterSwagger(r)

	opts := handler.Options{FormSilentDrop: cfg.Comments.FormSilentDrop}
	board := r.Group("/", global...)
	if l := d.Limiter; l != nil {
		rl := cfg.RateLimit
		opts.ReadGuards = append(opts.ReadGuards, middleware.RateLimit(l, middleware.ClassCommentsRead, ratelimit.PerMinute(rl.ReadPerMinute)))
		opts.WriteGuards = append(opts.WriteGuards, middleware.RateLimit(l, middleware.ClassCommentsWrite, ratelimit.PerMinute(rl.WritePerMinute)))
		opts.FormGuards = append(opts.FormGuards, middleware.RateLimit(l, middleware.ClassFormWrite, ratelimit.PerMinute(rl.WritePerMinute)))
	}
	if sec := cfg.Security; sec.CSRFEnabled {
		issuer := tokens.NewCSRF(sec.SecretKey, sec.CSRFTTL)
		opts.PageGuards = append(opts.PageGuards, middleware.CSRFIssue(issuer, sec.CSRFTTL, sec.SecureCookies))
		opts.FormGuards = append(opts.FormGuards, middleware.CSRFProtect(issuer))
	}
	handler.RegisterCommentRoutes(board, d.Service, opts)

	return r
}
