// Package gateway provides a gateway to the GitHub REST API,
// abstracting away the underlying client.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/naka-gawa/github-leaderboard-badge/internal/domain"
)

// errNotAList marks a successful response whose body decoded to no list at all.
var errNotAList = errors.New("repository list body is not a JSON list")

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	ListRepositories(ctx context.Context, org string) ([]domain.RepositoryRef, error)
	ListContributors(ctx context.Context, org, repo string) ([]domain.ContributorSighting, error)
}

// Options configures a GitHubGateway.
type Options struct {
	Token     string        // Optional; anonymous requests when empty
	BaseURL   string        // Optional; api.github.com when empty
	UserAgent string        // Fixed client-identifying header
	Timeout   time.Duration // Per-call timeout; zero means none
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
// Only the first page of each listing is read; larger organizations and
// repositories are under-counted.
type GitHubGateway struct {
	restClient *github.Client
	logger     *log.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger *log.Logger) (Fetcher, error) {
	httpClient := &http.Client{Timeout: opts.Timeout}
	if opts.Token != "" {
		httpClient.Transport = &oauth2.Transport{
			Base:   http.DefaultTransport,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
		}
	}

	client := github.NewClient(httpClient)
	if opts.UserAgent != "" {
		client.UserAgent = opts.UserAgent
	}
	if opts.BaseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API base URL %q: %w", opts.BaseURL, err)
		}
		client.BaseURL = baseURL
	}
	return &GitHubGateway{restClient: client, logger: logger}, nil
}

// ListRepositories returns the first page of the organization's public
// repositories, so an authenticated client sees what an anonymous one does.
// Any upstream failure is reported as *domain.UpstreamListError.
func (g *GitHubGateway) ListRepositories(ctx context.Context, org string) ([]domain.RepositoryRef, error) {
	g.logger.Debug("Fetching repository list", "org", org)
	opts := &github.RepositoryListByOrgOptions{Type: "public"}
	repos, resp, err := g.restClient.Repositories.ListByOrg(ctx, org, opts)
	if err != nil {
		if status, ok := upstreamStatus(resp, err); ok {
			return nil, &domain.UpstreamListError{Org: org, StatusCode: status, Err: err}
		}
		return nil, fmt.Errorf("failed to list repositories with REST API: %w", err)
	}
	// `null` and an empty body decode without error; `[]` gives a non-nil slice.
	if repos == nil {
		return nil, &domain.UpstreamListError{Org: org, StatusCode: http.StatusNotFound, Err: errNotAList}
	}

	refs := make([]domain.RepositoryRef, 0, len(repos))
	for _, r := range repos {
		if name := r.GetName(); name != "" {
			refs = append(refs, domain.RepositoryRef{Name: name})
		}
	}
	g.logger.Debug("Completed fetching repository list", "org", org, "repos", len(refs))
	return refs, nil
}

// ListContributors returns the first page of a repository's contributors.
// Any failure is reported as *domain.UpstreamItemError.
func (g *GitHubGateway) ListContributors(ctx context.Context, org, repo string) ([]domain.ContributorSighting, error) {
	contributors, _, err := g.restClient.Repositories.ListContributors(ctx, org, repo, nil)
	if err != nil {
		return nil, &domain.UpstreamItemError{Repo: repo, Err: err}
	}

	sightings := make([]domain.ContributorSighting, 0, len(contributors))
	for _, c := range contributors {
		sightings = append(sightings, domain.ContributorSighting{
			Login:         c.GetLogin(),
			Contributions: c.GetContributions(),
			AvatarURL:     c.GetAvatarURL(),
		})
	}
	return sightings, nil
}

// upstreamStatus picks the status to report for a failed list call: the
// upstream's own error status, or 404 when a successful response carried a
// body that is not a JSON list. Transport failures have no status.
func upstreamStatus(resp *github.Response, err error) (int, bool) {
	if isMalformedBody(err) {
		return http.StatusNotFound, true
	}
	if resp != nil && resp.Response != nil && resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, true
	}
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode, true
	}
	return 0, false
}

func isMalformedBody(err error) bool {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	return errors.As(err, &typeErr) || errors.As(err, &syntaxErr)
}
