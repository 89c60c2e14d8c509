// Package cli defines the cobra command tree for the board service.
package cli

import (
	"github.com/anonforum/forum/internal/config"
	"github.com/anonforum/forum/pkg/logger"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command with the serve, migrate and archive
// subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "board",
		Short:         "Anonymous comment board",
		Long:          "An anonymous, append-only comment board with a JSON API and an HTML form.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		NewArchiveCmd(),
	)
	return root
}

// loadConfig reads configuration and applies the log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel)
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())
	return cfg, nil
}
