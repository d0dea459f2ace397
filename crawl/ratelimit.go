package crawl

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sheetsprojectsofficial/coldemail"
	"golang.org/x/time/rate"
)

// Limiter cache bounds.
const (
	DefaultLimiterCacheSize = 1024
	minLimiterTTL           = time.Minute
)

var _ coldemail.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter enforces a minimum interval between requests to the same
// host using one token bucket per host (burst 1). Requests to different
// hosts do not wait for each other. It is shared across crawl runs so
// concurrent runs stay polite to a common host.
//
// Per-host limiters live in an LRU of DefaultLimiterCacheSize hosts and
// expire once a host has been idle for well over the interval, when a
// fresh bucket is equivalent.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	interval time.Duration
}

// NewDomainLimiter creates a DomainLimiter allowing one request per
// interval per host. A non-positive interval disables limiting.
func NewDomainLimiter(interval time.Duration) *DomainLimiter {
	ttl := max(10*interval, minLimiterTTL)
	return &DomainLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](DefaultLimiterCacheSize, nil, ttl),
		interval: interval,
	}
}

// Hosts returns the number of hosts currently tracked.
func (d *DomainLimiter) Hosts() int {
	if d == nil {
		return 0
	}
	return d.limiters.Len()
}

// Wait blocks until the host's bucket allows a request.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d == nil || d.interval <= 0 || host == "" {
		return nil
	}
	host = strings.ToLower(host)

	d.mu.Lock()
	limiter, ok := d.limiters.Get(host)
	if !ok {
		limiter = rate.NewLimiter(rate.Every(d.interval), 1)
	}
	// Re-adding refreshes the entry's expiry.
	d.limiters.Add(host, limiter)
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// sleep pauses for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
