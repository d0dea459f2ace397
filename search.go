package coldemail

import (
	"context"
	"errors"
	"fmt"
)

// SearchProvider queries an external search engine for company URLs.
type SearchProvider interface {
	// Search returns at most limit results for the query.
	// Failures are returned as *SearchError.
	Search(ctx context.Context, query string, limit int) ([]CandidateURL, error)

	// Name identifies the provider in logs and metrics.
	Name() string
}

// SearchErrorKind classifies search provider failures.
type SearchErrorKind string

// Search failure kinds.
const (
	SearchTimeout   SearchErrorKind = "timeout"
	SearchNetwork   SearchErrorKind = "network"
	SearchAuth      SearchErrorKind = "auth"
	SearchRateLimit SearchErrorKind = "rate_limit"
	SearchStatus    SearchErrorKind = "status"
	SearchParse     SearchErrorKind = "parse"
)

// SearchError describes a failed provider call.
type SearchError struct {
	Provider string
	Kind     SearchErrorKind
	Err      error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("%s search: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// SearchErrorKindOf returns the kind of a search failure. Errors that are
// not a *SearchError are reported as SearchNetwork. Returns "" for nil.
func SearchErrorKindOf(err error) SearchErrorKind {
	if err == nil {
		return ""
	}
	var se *SearchError
	if errors.As(err, &se) {
		return se.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return SearchTimeout
	}
	return SearchNetwork
}

// SearchKindForStatus maps a non-200 HTTP status to a failure kind.
func SearchKindForStatus(code int) SearchErrorKind {
	switch code {
	case 401, 403:
		return SearchAuth
	case 429:
		return SearchRateLimit
	default:
		return SearchStatus
	}
}
