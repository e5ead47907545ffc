package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-leaderboard-badge/internal/domain"
	"github.com/naka-gawa/github-leaderboard-badge/internal/logging"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) ListRepositories(ctx context.Context, org string) ([]domain.RepositoryRef, error) {
	args := m.Called(ctx, org)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RepositoryRef), args.Error(1)
}

func (m *mockFetcher) ListContributors(ctx context.Context, org, repo string) ([]domain.ContributorSighting, error) {
	args := m.Called(ctx, org, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContributorSighting), args.Error(1)
}

func repoRefs(names ...string) []domain.RepositoryRef {
	refs := make([]domain.RepositoryRef, 0, len(names))
	for _, n := range names {
		refs = append(refs, domain.RepositoryRef{Name: n})
	}
	return refs
}

var (
	acmeRepoA = []domain.ContributorSighting{{Login: "x", Contributions: 10}, {Login: "y", Contributions: 5}}
	acmeRepoB = []domain.ContributorSighting{{Login: "x", Contributions: 3}}
	errServer = &domain.UpstreamItemError{Repo: "b", Err: errors.New("500 Internal Server Error")}
)

// TestAggregator_Aggregate uses a table-driven approach to test the aggregator.
func TestAggregator_Aggregate(t *testing.T) {
	testCases := []struct {
		name          string
		repos         []domain.RepositoryRef
		contributors  map[string][]domain.ContributorSighting
		failures      map[string]error
		expected      map[string]int
		expectedTotal int
		expectedSkip  []string
	}{
		{
			name:          "two repositories merge into one ledger",
			repos:         repoRefs("a", "b"),
			contributors:  map[string][]domain.ContributorSighting{"a": acmeRepoA, "b": acmeRepoB},
			expected:      map[string]int{"x": 13, "y": 5},
			expectedTotal: 18,
		},
		{
			name:          "failed repository is skipped",
			repos:         repoRefs("a", "b"),
			contributors:  map[string][]domain.ContributorSighting{"a": acmeRepoA},
			failures:      map[string]error{"b": errServer},
			expected:      map[string]int{"x": 10, "y": 5},
			expectedTotal: 15,
			expectedSkip:  []string{"b"},
		},
		{
			name:     "organization without repositories",
			repos:    repoRefs(),
			expected: map[string]int{},
		},
		{
			name:         "all repositories empty",
			repos:        repoRefs("a", "b"),
			contributors: map[string][]domain.ContributorSighting{"a": {}, "b": {}},
			expected:     map[string]int{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			fetcher := new(mockFetcher)
			fetcher.On("ListRepositories", mock.Anything, "acme").Return(tc.repos, nil)
			for _, r := range tc.repos {
				if err, ok := tc.failures[r.Name]; ok {
					fetcher.On("ListContributors", mock.Anything, "acme", r.Name).Return(nil, err)
					continue
				}
				fetcher.On("ListContributors", mock.Anything, "acme", r.Name).Return(tc.contributors[r.Name], nil)
			}
			aggregator := NewAggregator(fetcher, logging.Discard(), 1)

			// --- Act ---
			ledger, err := aggregator.Aggregate(context.Background(), "acme")

			// --- Assert ---
			require.NoError(t, err)
			got := map[string]int{}
			for _, r := range ledger.Records() {
				got[r.Login] = r.Commits
			}
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.expectedTotal, ledger.TotalCommits)
			assert.Equal(t, len(tc.repos), ledger.RepoCount)
			assert.Equal(t, tc.expectedSkip, ledger.SkippedRepos)
			fetcher.AssertExpectations(t)
		})
	}
}

func TestAggregator_Aggregate_ListFailureIsFatal(t *testing.T) {
	listErr := &domain.UpstreamListError{Org: "acme", StatusCode: http.StatusForbidden, Err: errors.New("rate limited")}
	fetcher := new(mockFetcher)
	fetcher.On("ListRepositories", mock.Anything, "acme").Return(nil, listErr)

	ledger, err := NewAggregator(fetcher, logging.Discard(), 4).Aggregate(context.Background(), "acme")

	assert.Nil(t, ledger)
	assert.ErrorIs(t, err, listErr)
	fetcher.AssertNotCalled(t, "ListContributors", mock.Anything, mock.Anything, mock.Anything)
}

func TestAggregator_Aggregate_MissingOrganization(t *testing.T) {
	fetcher := new(mockFetcher)
	_, err := NewAggregator(fetcher, logging.Discard(), 1).Aggregate(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrMissingOrganization)
	fetcher.AssertNotCalled(t, "ListRepositories", mock.Anything, mock.Anything)
}

func TestAggregator_Aggregate_InvalidOrganization(t *testing.T) {
	fetcher := new(mockFetcher)
	_, err := NewAggregator(fetcher, logging.Discard(), 1).Aggregate(context.Background(), "../user")
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
	fetcher.AssertNotCalled(t, "ListRepositories", mock.Anything, mock.Anything)
}

func TestAggregator_Aggregate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := new(mockFetcher)
	fetcher.On("ListRepositories", mock.Anything, "acme").Return(repoRefs("a"), nil)
	fetcher.On("ListContributors", mock.Anything, "acme", "a").
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, &domain.UpstreamItemError{Repo: "a", Err: context.Canceled})

	_, err := NewAggregator(fetcher, logging.Discard(), 1).Aggregate(ctx, "acme")
	assert.ErrorIs(t, err, context.Canceled)
}

// The ledger and the leaderboard tie-break must not depend on how many
// fetches run at once or in which order they finish.
func TestAggregator_Aggregate_ConcurrencyIndependent(t *testing.T) {
	repos := repoRefs("r1", "r2", "r3", "r4", "r5", "r6")
	contributors := map[string][]domain.ContributorSighting{
		"r1": {{Login: "p", Contributions: 4}, {Login: "q", Contributions: 4}},
		"r2": {{Login: "r", Contributions: 8}},
		"r3": {{Login: "q", Contributions: 4}, {Login: "s", Contributions: 1}},
		"r4": {{Login: "t", Contributions: 2}},
		"r5": {{Login: "p", Contributions: 4}},
		"r6": {{Login: "u", Contributions: 8}},
	}

	run := func(concurrency int) []domain.LeaderboardEntry {
		fetcher := new(mockFetcher)
		fetcher.On("ListRepositories", mock.Anything, "acme").Return(repos, nil)
		for name, c := range contributors {
			fetcher.On("ListContributors", mock.Anything, "acme", name).Return(c, nil)
		}
		ledger, err := NewAggregator(fetcher, logging.Discard(), concurrency).Aggregate(context.Background(), "acme")
		require.NoError(t, err)
		return BuildLeaderboard(ledger, DefaultLeaderboardSize)
	}

	sequential := run(1)
	for _, k := range []int{2, 4, 16} {
		assert.Equal(t, sequential, run(k), "concurrency %d", k)
	}

	logins := []string{}
	for _, e := range sequential {
		logins = append(logins, e.Login)
	}
	// p, q and r, u tie; encounter order decides.
	assert.Equal(t, []string{"p", "q", "r", "u", "t"}, logins)
}
