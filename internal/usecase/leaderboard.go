package usecase

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-leaderboard-badge/internal/domain"
)

// DefaultLeaderboardSize is the number of contributors shown on a badge.
const DefaultLeaderboardSize = 5

// BuildLeaderboard ranks the ledger by commits, highest first, and keeps the
// top limit entries. Equal commit counts keep their encounter order.
func BuildLeaderboard(ledger *domain.Ledger, limit int) []domain.LeaderboardEntry {
	records := ledger.Records()
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Commits > records[j].Commits
	})

	n := min(max(limit, 0), len(records))
	entries := make([]domain.LeaderboardEntry, 0, n)
	for i, rec := range records[:n] {
		share := 0.0
		if ledger.TotalCommits > 0 {
			share = float64(rec.Commits) / float64(ledger.TotalCommits)
		}
		entries = append(entries, domain.LeaderboardEntry{
			ContributorRecord: rec,
			Rank:              i + 1,
			Share:             share,
			SharePercent:      sharePercent(share),
		})
	}
	return entries
}

// Summarize derives every figure the badge displays. limit is capped at
// DefaultLeaderboardSize. It returns
// domain.ErrEmptyLedger when there is nothing to rank.
func Summarize(org string, ledger *domain.Ledger, limit int, now time.Time) (*domain.Summary, error) {
	if ledger.Len() == 0 {
		return nil, domain.ErrEmptyLedger
	}
	if limit < 1 || limit > DefaultLeaderboardSize {
		limit = DefaultLeaderboardSize
	}
	board := BuildLeaderboard(ledger, limit)
	top := board[0]
	return &domain.Summary{
		Organization:        org,
		RepositoriesScanned: ledger.RepoCount,
		UniqueContributors:  ledger.Len(),
		TotalCommits:        ledger.TotalCommits,
		TopSharePercent:     top.SharePercent,
		MaxCommits:          max(top.Commits, 1),
		Leaderboard:         board,
		GeneratedAt:         now.UTC(),
	}, nil
}

func sharePercent(share float64) float64 {
	p, err := stats.Round(share*100, 1)
	if err != nil {
		return 0
	}
	return p
}
