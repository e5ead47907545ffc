// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-leaderboard-badge/internal/config"
	"github.com/naka-gawa/github-leaderboard-badge/internal/gateway"
	"github.com/naka-gawa/github-leaderboard-badge/internal/logging"
	"github.com/naka-gawa/github-leaderboard-badge/internal/usecase"
)

var rootCmd = &cobra.Command{
	Use:   "github-leaderboard-badge",
	Short: "Renders a top-contributors badge for a GitHub organization.",
	Long: `github-leaderboard-badge aggregates contributor commit counts across
every repository of a GitHub organization and renders the top contributors
as a standalone SVG badge, either served over HTTP or written to a file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().Int("concurrency", 0, "Max simultaneous contributor fetches (overrides config)")
}

// setup loads the configuration and builds the logger and the aggregation
// pipeline shared by all subcommands.
func setup(cmd *cobra.Command) (*config.Config, *log.Logger, *usecase.Aggregator, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := logging.New(os.Stderr, verbose)

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}
	if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
		cfg.Concurrency = n
	}

	fetcher, err := gateway.NewGitHubGateway(gateway.Options{
		Token:     cfg.Token,
		BaseURL:   cfg.APIBaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.UpstreamTimeout,
	}, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, usecase.NewAggregator(fetcher, logger, cfg.Concurrency), nil
}
