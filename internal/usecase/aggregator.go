// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-leaderboard-badge/internal/domain"
	"github.com/naka-gawa/github-leaderboard-badge/internal/gateway"
)

// Aggregator is the use case for building an organization-wide contributor ledger.
// It orchestrates the fetching and merging of per-repository data.
type Aggregator struct {
	fetcher     gateway.Fetcher
	logger      *log.Logger
	concurrency int
}

// NewAggregator creates a new Aggregator instance. concurrency caps the number
// of contributor fetches in flight at once; 1 fetches repositories one by one.
func NewAggregator(fetcher gateway.Fetcher, logger *log.Logger, concurrency int) *Aggregator {
	return &Aggregator{
		fetcher:     fetcher,
		logger:      logger,
		concurrency: max(concurrency, 1),
	}
}

// Aggregate lists the organization's repositories and merges their
// contributors into a fresh ledger.
//
// A failed repository list aborts the call. A failed contributor fetch only
// skips that repository. Results are merged in repository-list order once all
// fetches finish, so the ledger does not depend on completion order.
func (a *Aggregator) Aggregate(ctx context.Context, org string) (*domain.Ledger, error) {
	if strings.TrimSpace(org) == "" {
		return nil, domain.ErrMissingOrganization
	}
	if !domain.ValidOrganization(org) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidOrganization, org)
	}
	a.logger.Debug("Usecase: Starting data aggregation...", "org", org)

	repos, err := a.fetcher.ListRepositories(ctx, org)
	if err != nil {
		return nil, err
	}

	results := make([][]domain.ContributorSighting, len(repos))
	failures := make([]error, len(repos))

	var eg errgroup.Group
	eg.SetLimit(a.concurrency)
	for i, repo := range repos {
		eg.Go(func() error {
			sightings, err := a.fetcher.ListContributors(ctx, org, repo.Name)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = sightings
			return nil
		})
	}
	_ = eg.Wait()

	// A cancelled request would otherwise look like an organization whose
	// repositories all failed.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aggregation for %q interrupted: %w", org, err)
	}

	ledger := domain.NewLedger()
	ledger.RepoCount = len(repos)
	for i, repo := range repos {
		if failures[i] != nil {
			a.logger.Warn("Skipping repository", "org", org, "repo", repo.Name, "err", failures[i])
			ledger.Skip(repo.Name)
			continue
		}
		ledger.Add(results[i])
	}

	a.logger.Debug("Usecase: Aggregation complete.",
		"org", org,
		"repos", ledger.RepoCount,
		"skipped", len(ledger.SkippedRepos),
		"contributors", ledger.Len(),
		"commits", ledger.TotalCommits,
	)
	return ledger, nil
}
