package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-leaderboard-badge/internal/domain"
)

func ledgerOf(repos ...[]domain.ContributorSighting) *domain.Ledger {
	l := domain.NewLedger()
	l.RepoCount = len(repos)
	for _, r := range repos {
		l.Add(r)
	}
	return l
}

func TestBuildLeaderboard_AcmeScenario(t *testing.T) {
	board := BuildLeaderboard(ledgerOf(acmeRepoA, acmeRepoB), DefaultLeaderboardSize)

	require.Len(t, board, 2)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, "x", board[0].Login)
	assert.Equal(t, 13, board[0].Commits)
	assert.InDelta(t, 13.0/18.0, board[0].Share, 1e-9)
	assert.Equal(t, 72.2, board[0].SharePercent)

	assert.Equal(t, 2, board[1].Rank)
	assert.Equal(t, "y", board[1].Login)
	assert.Equal(t, 5, board[1].Commits)
	assert.Equal(t, 27.8, board[1].SharePercent)
}

func TestBuildLeaderboard_TruncatesAndSorts(t *testing.T) {
	var sightings []domain.ContributorSighting
	for i := range 9 {
		sightings = append(sightings, domain.ContributorSighting{
			Login:         fmt.Sprintf("user%d", i),
			Contributions: (i * 7) % 5,
		})
	}
	ledger := ledgerOf(sightings)

	for _, limit := range []int{0, 1, 5, 9, 20} {
		board := BuildLeaderboard(ledger, limit)
		assert.Len(t, board, min(limit, ledger.Len()))
		for i := 1; i < len(board); i++ {
			assert.GreaterOrEqual(t, board[i-1].Commits, board[i].Commits)
			assert.Equal(t, i+1, board[i].Rank)
		}
	}
}

func TestBuildLeaderboard_TiesKeepEncounterOrder(t *testing.T) {
	ledger := ledgerOf(
		[]domain.ContributorSighting{{Login: "b", Contributions: 3}, {Login: "a", Contributions: 3}},
		[]domain.ContributorSighting{{Login: "c", Contributions: 3}},
	)
	board := BuildLeaderboard(ledger, DefaultLeaderboardSize)
	require.Len(t, board, 3)
	assert.Equal(t, "b", board[0].Login)
	assert.Equal(t, "a", board[1].Login)
	assert.Equal(t, "c", board[2].Login)
}

func TestBuildLeaderboard_ZeroCommits(t *testing.T) {
	board := BuildLeaderboard(ledgerOf([]domain.ContributorSighting{{Login: "ghost", Contributions: 0}}), 5)
	require.Len(t, board, 1)
	assert.Equal(t, 0.0, board[0].Share)
	assert.Equal(t, 0.0, board[0].SharePercent)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 30, 0, 0, time.FixedZone("JST", 9*3600))

	t.Run("acme", func(t *testing.T) {
		s, err := Summarize("acme", ledgerOf(acmeRepoA, acmeRepoB), 5, now)
		require.NoError(t, err)
		assert.Equal(t, "acme", s.Organization)
		assert.Equal(t, 2, s.RepositoriesScanned)
		assert.Equal(t, 2, s.UniqueContributors)
		assert.Equal(t, 18, s.TotalCommits)
		assert.Equal(t, 72.2, s.TopSharePercent)
		assert.Equal(t, 13, s.MaxCommits)
		assert.Equal(t, time.UTC, s.GeneratedAt.Location())
		assert.True(t, s.GeneratedAt.Equal(now))
	})

	t.Run("max commits floor", func(t *testing.T) {
		s, err := Summarize("acme", ledgerOf([]domain.ContributorSighting{{Login: "z"}}), 0, now)
		require.NoError(t, err)
		assert.Equal(t, 1, s.MaxCommits)
		assert.Len(t, s.Leaderboard, 1)
	})

	t.Run("limit above five is capped", func(t *testing.T) {
		var sightings []domain.ContributorSighting
		for i, login := range []string{"a", "b", "c", "d", "e", "f", "g"} {
			sightings = append(sightings, domain.ContributorSighting{Login: login, Contributions: 10 - i})
		}
		s, err := Summarize("acme", ledgerOf(sightings), 9, now)
		require.NoError(t, err)
		require.Len(t, s.Leaderboard, DefaultLeaderboardSize)
		assert.Equal(t, "e", s.Leaderboard[4].Login)
		assert.Equal(t, 7, s.UniqueContributors)
	})

	t.Run("empty ledger", func(t *testing.T) {
		s, err := Summarize("acme", domain.NewLedger(), 5, now)
		assert.Nil(t, s)
		assert.ErrorIs(t, err, domain.ErrEmptyLedger)
	})
}
