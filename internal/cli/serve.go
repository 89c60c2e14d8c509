package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/anonforum/forum/handlers"
	"github.com/anonforum/forum/internal/comment/service"
	"github.com/anonforum/forum/internal/server"
	"github.com/anonforum/forum/pkg/logger"
	"github.com/anonforum/forum/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()
	logger.Infof("config loaded: env=%s driver=%s ratelimit=%v redis=%v csrf=%v",
		cfg.Server.Environment, cfg.Database.Driver, cfg.RateLimit.Enabled, cfg.RateLimit.UseRedis, cfg.Security.CSRFEnabled)

	store, err := server.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	limiter, rdb, err := server.NewLimiter(ctx, cfg)
	if err != nil {
		return err
	}
	ready := map[string]handlers.Pinger{}
	if rdb != nil {
		defer rdb.Close()
		ready["redis"] = handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	r := server.NewRouter(server.Deps{
		Config:  cfg,
		Service: service.New(store, cfg.Comments.MaxLength),
		Limiter: limiter,
		Ready:   ready,
	})
	return server.Run(ctx, cfg, r)
}
