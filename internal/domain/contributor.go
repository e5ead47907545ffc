// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"net/url"
	"regexp"
	"time"
)

var organizationPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{0,38}$`)

// ValidOrganization reports whether org has the shape of a GitHub login.
// Anything else could alter the upstream request path.
func ValidOrganization(org string) bool {
	return organizationPattern.MatchString(org)
}

// RepositoryRef names a single repository of an organization.
type RepositoryRef struct {
	Name string `json:"name"`
}

// ContributorSighting is one contributor entry as returned for a single repository.
type ContributorSighting struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
	AvatarURL     string `json:"avatar_url"`
}

// ContributorRecord is the organization-wide tally for one login.
// AvatarURL is fixed when the record is created and never overwritten.
type ContributorRecord struct {
	Login     string `json:"login"`
	Commits   int    `json:"commits"`
	AvatarURL string `json:"avatar_url"`
}

// FallbackAvatarURL returns the avatar used when upstream supplies none.
func FallbackAvatarURL(login string) string {
	return "https://github.com/" + url.PathEscape(login) + ".png"
}

// LeaderboardEntry is a ranked contributor.
type LeaderboardEntry struct {
	ContributorRecord
	Rank         int     `json:"rank"`
	Share        float64 `json:"share"`
	SharePercent float64 `json:"share_percent"`
}

// Summary holds everything the badge displays. The metric fields are
// precomputed so that rendering never re-derives them.
type Summary struct {
	Organization        string             `json:"organization"`
	RepositoriesScanned int                `json:"repositories_scanned"`
	UniqueContributors  int                `json:"unique_contributors"`
	TotalCommits        int                `json:"total_commits"`
	TopSharePercent     float64            `json:"top_share_percent"`
	MaxCommits          int                `json:"-"`
	Leaderboard         []LeaderboardEntry `json:"leaderboard"`
	GeneratedAt         time.Time          `json:"generated_at"`
}
