package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingOrganization is returned when no organization identifier was supplied.
	ErrMissingOrganization = errors.New("missing org parameter")

	// ErrInvalidOrganization is returned when the organization is not a valid GitHub login.
	ErrInvalidOrganization = errors.New("invalid org parameter")

	// ErrEmptyLedger is returned when aggregation produced no contributors.
	// It is an informational outcome, not a failure.
	ErrEmptyLedger = errors.New("no contributor data")
)

// UpstreamListError reports a failed or malformed repository-list fetch.
// StatusCode is the upstream status, or 404 when the body was not a list.
type UpstreamListError struct {
	Org        string
	StatusCode int
	Err        error
}

func (e *UpstreamListError) Error() string {
	return fmt.Sprintf("failed to list repositories for %q (status %d): %v", e.Org, e.StatusCode, e.Err)
}

func (e *UpstreamListError) Unwrap() error { return e.Err }

// UpstreamItemError reports a failed or malformed contributor fetch for one repository.
// The aggregator recovers from it by skipping the repository.
type UpstreamItemError struct {
	Repo string
	Err  error
}

func (e *UpstreamItemError) Error() string {
	return fmt.Sprintf("failed to list contributors for %q: %v", e.Repo, e.Err)
}

func (e *UpstreamItemError) Unwrap() error { return e.Err }
