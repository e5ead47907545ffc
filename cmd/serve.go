package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-leaderboard-badge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the leaderboard badge over HTTP",
	Long: `Starts an HTTP server answering GET <badge-path>?org=<organization> with an
SVG badge of the organization's top contributors. The port is taken from the
--port flag, the PORT environment variable or the configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, aggregator, err := setup(cmd)
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Port = port
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		handler := server.NewBadgeHandler(aggregator, logger, server.BadgeOptions{
			LeaderboardSize: cfg.LeaderboardSize,
			CacheMaxAge:     cfg.CacheMaxAge,
			RequestTimeout:  cfg.RequestTimeout,
		})
		router := server.NewRouter(server.RouterConfig{
			BadgePath:    cfg.BadgePath,
			BadgeHandler: handler,
			Logger:       logger,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return server.NewServer(cfg.Addr(), router, logger).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides PORT and config)")
}
