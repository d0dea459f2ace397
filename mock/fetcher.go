package mock

import (
	"context"

	"github.com/sheetsprojectsofficial/coldemail"
)

var _ coldemail.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of coldemail.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*coldemail.Response, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*coldemail.Response, error) {
	return f.FetchFn(ctx, url)
}

var _ coldemail.RobotsChecker = (*RobotsChecker)(nil)

// RobotsChecker is a mock implementation of coldemail.RobotsChecker.
type RobotsChecker struct {
	AllowedFn func(ctx context.Context, url string) bool
}

func (r *RobotsChecker) Allowed(ctx context.Context, url string) bool {
	return r.AllowedFn(ctx, url)
}

var _ coldemail.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of coldemail.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	return d.WaitFn(ctx, host)
}
