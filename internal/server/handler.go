package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/naka-gawa/github-leaderboard-badge/internal/badge"
	"github.com/naka-gawa/github-leaderboard-badge/internal/domain"
	"github.com/naka-gawa/github-leaderboard-badge/internal/logging"
	"github.com/naka-gawa/github-leaderboard-badge/internal/usecase"
)

const (
	svgContentType = "image/svg+xml; charset=utf-8"

	msgMissingOrg     = "Missing org parameter"
	msgInvalidOrg     = "Invalid org parameter"
	msgUpstreamFailed = "Failed to fetch repositories for organization"
	msgInternal       = "Error generating leaderboard"
)

// LedgerSource builds a contributor ledger for an organization.
type LedgerSource interface {
	Aggregate(ctx context.Context, org string) (*domain.Ledger, error)
}

// BadgeOptions configures a BadgeHandler.
type BadgeOptions struct {
	LeaderboardSize int
	CacheMaxAge     time.Duration
	RequestTimeout  time.Duration
	StatsColumns    int
	Now             func() time.Time
}

// BadgeHandler serves the leaderboard badge.
type BadgeHandler struct {
	source LedgerSource
	logger *log.Logger
	opts   BadgeOptions
}

// NewBadgeHandler creates a BadgeHandler. Zero option fields take defaults.
func NewBadgeHandler(source LedgerSource, logger *log.Logger, opts BadgeOptions) *BadgeHandler {
	if opts.LeaderboardSize < 1 {
		opts.LeaderboardSize = usecase.DefaultLeaderboardSize
	}
	if opts.StatsColumns < 1 {
		opts.StatsColumns = badge.StatsColumns
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &BadgeHandler{source: source, logger: logger, opts: opts}
}

// ServeBadge handles GET ?org=<organization>[&format=json].
func (h *BadgeHandler) ServeBadge(c *gin.Context) {
	org := strings.TrimSpace(c.Query("org"))
	if org == "" {
		c.String(http.StatusBadRequest, msgMissingOrg)
		return
	}
	if !domain.ValidOrganization(org) {
		c.String(http.StatusBadRequest, msgInvalidOrg)
		return
	}

	ctx := logging.WithLogger(c.Request.Context(), h.logger.With("org", org))
	if h.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.RequestTimeout)
		defer cancel()
	}

	ledger, err := h.source.Aggregate(ctx, org)
	if err != nil {
		h.fail(ctx, c, org, err)
		return
	}
	if len(ledger.SkippedRepos) > 0 {
		logging.FromContext(ctx).Warn("Badge built from partial data", "skipped", ledger.SkippedRepos)
	}

	summary, err := usecase.Summarize(org, ledger, h.opts.LeaderboardSize, h.opts.Now())
	if err != nil {
		h.fail(ctx, c, org, err)
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.opts.CacheMaxAge.Seconds())))
	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, summary)
		return
	}
	doc := badge.Render(summary, badge.WithStatsColumns(h.opts.StatsColumns))
	c.Data(http.StatusOK, svgContentType, doc.SVG())
}

func (h *BadgeHandler) fail(ctx context.Context, c *gin.Context, org string, err error) {
	status, msg := statusFor(err, org)
	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("Failed to build badge", "err", err)
	case status >= http.StatusBadRequest:
		logger.Warn("Upstream rejected badge request", "status", status, "err", err)
	}
	c.String(status, msg)
}

// statusFor maps an error to the response status and the message shown to
// the caller. Error details never reach the message.
func statusFor(err error, org string) (int, string) {
	var listErr *domain.UpstreamListError
	switch {
	case errors.Is(err, domain.ErrMissingOrganization):
		return http.StatusBadRequest, msgMissingOrg
	case errors.Is(err, domain.ErrInvalidOrganization):
		return http.StatusBadRequest, msgInvalidOrg
	case errors.Is(err, domain.ErrEmptyLedger):
		return http.StatusOK, "No contributor data found for organization " + org
	case errors.As(err, &listErr) && listErr.StatusCode >= http.StatusBadRequest:
		return listErr.StatusCode, msgUpstreamFailed
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
