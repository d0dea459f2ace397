package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sheetsprojectsofficial/coldemail"
	"github.com/temoto/robotstxt"
)

// Robots cache defaults.
const (
	DefaultRobotsCacheTTL  = 30 * time.Minute
	DefaultRobotsCacheSize = 512
)

var _ coldemail.RobotsChecker = (*RobotsAgent)(nil)

// RobotsAgent evaluates robots.txt rules with a per-host cache.
// Missing or unreadable robots.txt files allow everything.
type RobotsAgent struct {
	client    *http.Client
	userAgent string
	cache     *expirable.LRU[string, *robotstxt.RobotsData]
}

// NewRobotsAgent constructs a robots agent. A nil client gets a default
// one with DefaultFetchTimeout. A non-positive ttl uses DefaultRobotsCacheTTL.
func NewRobotsAgent(client *http.Client, userAgent string, ttl time.Duration) *RobotsAgent {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	if ttl <= 0 {
		ttl = DefaultRobotsCacheTTL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &RobotsAgent{
		client:    client,
		userAgent: userAgent,
		cache:     expirable.NewLRU[string, *robotstxt.RobotsData](DefaultRobotsCacheSize, nil, ttl),
	}
}

// Allowed reports whether the target URL may be fetched.
func (a *RobotsAgent) Allowed(ctx context.Context, rawURL string) bool {
	target, err := url.Parse(rawURL)
	if err != nil || !target.IsAbs() || target.Host == "" {
		return false
	}

	rules, err := a.rules(ctx, target)
	if err != nil {
		return true
	}

	group := rules.FindGroup(a.userAgent)
	if group == nil {
		return true
	}
	path := target.EscapedPath()
	if path == "" {
		path = "/"
	}
	if target.RawQuery != "" {
		path += "?" + target.RawQuery
	}
	return group.Test(path)
}

func (a *RobotsAgent) rules(ctx context.Context, target *url.URL) (*robotstxt.RobotsData, error) {
	key := strings.ToLower(target.Scheme + "://" + target.Host)
	if data, ok := a.cache.Get(key); ok {
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("build robots request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("robots returned status %d", resp.StatusCode)
	}

	// FromResponse maps 4xx to allow-all.
	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	a.cache.Add(key, data)
	return data, nil
}

// Purge evicts cached robots rules for an origin such as "https://acme.com".
func (a *RobotsAgent) Purge(origin string) {
	a.cache.Remove(strings.ToLower(strings.TrimSuffix(strings.TrimSpace(origin), "/")))
}
