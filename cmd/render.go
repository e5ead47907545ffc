package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-leaderboard-badge/internal/badge"
	"github.com/naka-gawa/github-leaderboard-badge/internal/domain"
	"github.com/naka-gawa/github-leaderboard-badge/internal/usecase"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Renders the leaderboard badge once and writes it to a file or stdout",
	Long:  `Aggregates contributor commit counts for a GitHub organization and writes the badge as SVG, or the underlying summary as JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		org, _ := cmd.Flags().GetString("org")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		if format != "svg" && format != "json" {
			fmt.Fprintf(os.Stderr, "Invalid --format %q. Please use svg or json.\n", format)
			os.Exit(1)
		}

		cfg, logger, aggregator, err := setup(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		defer cancel()

		ledger, err := aggregator.Aggregate(ctx, org)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to aggregate contributors: %v\n", err)
			os.Exit(1)
		}
		if len(ledger.SkippedRepos) > 0 {
			logger.Warn("Badge built from partial data", "org", org, "skipped", ledger.SkippedRepos)
		}

		summary, err := usecase.Summarize(org, ledger, cfg.LeaderboardSize, time.Now())
		if errors.Is(err, domain.ErrEmptyLedger) {
			fmt.Fprintf(os.Stderr, "No contributor data found for organization %s\n", org)
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build leaderboard: %v\n", err)
			os.Exit(1)
		}

		data, err := encodeSummary(summary, format)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode badge: %v\n", err)
			os.Exit(1)
		}

		if output == "" || output == "-" {
			os.Stdout.Write(data)
			return
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", output, err)
			os.Exit(1)
		}
		logger.Info("Badge written", "path", output, "bytes", len(data))
	},
}

// encodeSummary serializes the summary as a pretty-printed JSON document or
// as the rendered SVG badge.
func encodeSummary(s *domain.Summary, format string) ([]byte, error) {
	if format == "json" {
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return badge.Render(s).SVG(), nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("org", "o", "", "Target GitHub organization name (required)")
	renderCmd.Flags().StringP("format", "f", "svg", "Output format: svg or json")
	renderCmd.Flags().String("output", "", "Output file (default: stdout)")
	renderCmd.MarkFlagRequired("org")
}
