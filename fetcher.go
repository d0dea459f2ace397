package coldemail

import (
	"context"
	"errors"
	"fmt"
)

// Response is the outcome of a successful page fetch.
type Response struct {
	// URL is the final URL after redirects.
	URL         string
	StatusCode  int
	ContentType string
	// Body is the decoded UTF-8 body. It may be empty.
	Body string
}

// Fetcher retrieves a single page with a bounded timeout.
type Fetcher interface {
	// Fetch performs one GET request. Failures are returned as *FetchError.
	Fetch(ctx context.Context, url string) (*Response, error)
}

// FetchErrorKind classifies fetch failures.
type FetchErrorKind string

// Fetch failure kinds.
const (
	FetchTimeout    FetchErrorKind = "timeout"
	FetchNetwork    FetchErrorKind = "network"
	FetchStatus     FetchErrorKind = "status"
	FetchRedirects  FetchErrorKind = "redirects"
	FetchDisallowed FetchErrorKind = "disallowed"
)

// FetchError is a soft failure confined to one URL.
type FetchError struct {
	Kind       FetchErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == FetchStatus {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FetchErrorKindOf returns the kind of a fetch failure, or FetchNetwork for
// errors that are not a *FetchError. Returns "" for nil.
func FetchErrorKindOf(err error) FetchErrorKind {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return FetchNetwork
}

// RobotsChecker decides whether a URL may be fetched.
type RobotsChecker interface {
	Allowed(ctx context.Context, url string) bool
}

// DomainLimiter provides per-host politeness.
type DomainLimiter interface {
	// Wait blocks until a request to the host is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}
