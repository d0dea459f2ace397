// Package crawl provides company email discovery orchestration.
// It resolves a company into candidate URLs and walks them with a
// bounded, polite, depth-limited crawl, extracting email addresses
// from every page.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/sheetsprojectsofficial/coldemail"
)

// Crawl limits.
const (
	// MaxDepth is the deepest level expanded from a seed page.
	MaxDepth = 1

	DefaultDelay          = time.Second
	DefaultMaxURLs        = 20
	DefaultMaxChildLinks  = 3
	DefaultEmailThreshold = 10

	// frontierFalsePositiveRate is the chance of dropping an unseen URL.
	frontierFalsePositiveRate = 1e-6
)

var _ coldemail.EmailFinder = (*Crawler)(nil)

// Limits bounds a single crawl run. Zero fields use the defaults.
type Limits struct {
	// MaxURLs caps the number of visited pages.
	MaxURLs int
	// MaxChildLinks caps the links followed from each seed page.
	MaxChildLinks int
	// EmailThreshold stops the run once more unique emails were found.
	EmailThreshold int
}

// DefaultLimits returns the default crawl limits.
func DefaultLimits() Limits {
	return Limits{
		MaxURLs:        DefaultMaxURLs,
		MaxChildLinks:  DefaultMaxChildLinks,
		EmailThreshold: DefaultEmailThreshold,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxURLs <= 0 {
		l.MaxURLs = d.MaxURLs
	}
	if l.MaxChildLinks <= 0 {
		l.MaxChildLinks = d.MaxChildLinks
	}
	if l.EmailThreshold <= 0 {
		l.EmailThreshold = d.EmailThreshold
	}
	return l
}

// Crawler orchestrates email discovery for a company or a single URL.
type Crawler struct {
	Resolver    coldemail.CandidateResolver
	Fetcher     coldemail.Fetcher
	Parser      coldemail.Parser
	Extractors  []coldemail.EmailExtractor
	RateLimiter coldemail.DomainLimiter
	// Robots is consulted before each fetch when set.
	Robots coldemail.RobotsChecker
	// Delay is the pause between consecutive fetches of one run. Zero
	// means no pause; callers wanting the usual politeness set DefaultDelay.
	Delay  time.Duration
	Limits Limits
	Logger *slog.Logger
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Emails    int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// runResult holds the outcome of one frontier walk.
type runResult struct {
	pages   []*coldemail.PageResult
	visited int
	emails  []string
}

// SearchURLs resolves company into ranked candidate URLs without crawling.
func (c *Crawler) SearchURLs(ctx context.Context, company string) ([]coldemail.CandidateURL, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, coldemail.Errorf(coldemail.EINVALID, "company name required")
	}
	if c.Resolver == nil {
		return coldemail.GenerateCandidates(company), nil
	}
	return c.Resolver.Resolve(ctx, company)
}

// FindCompanyEmails runs a full crawl for company.
func (c *Crawler) FindCompanyEmails(ctx context.Context, company string) (*coldemail.CompanyReport, error) {
	return c.Crawl(ctx, company, nil)
}

// Crawl resolves company, crawls its candidates and aggregates a report.
// Returns an error only for invalid input; run failures are reported
// through the report status. The progress callback, if provided, receives
// events as crawling proceeds.
func (c *Crawler) Crawl(ctx context.Context, company string, progress ProgressFunc) (*coldemail.CompanyReport, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, coldemail.Errorf(coldemail.EINVALID, "company name required")
	}

	candidates, err := c.SearchURLs(ctx, company)
	if err != nil {
		if coldemail.ErrorCode(err) == coldemail.EINVALID {
			return nil, err
		}
		return Aggregate(company, 0, nil, 0, err), nil
	}
	if len(candidates) == 0 {
		return Aggregate(company, 0, nil, 0, nil), nil
	}

	seeds := make([]QueuedURL, 0, len(candidates))
	for _, cand := range candidates {
		seeds = append(seeds, QueuedURL{URL: cand.URL, Source: cand.Source})
	}

	res, err := c.run(ctx, seeds, progress)
	return Aggregate(company, len(candidates), res.pages, res.visited, err), nil
}

// ExtractFromURL crawls a single seed URL and its contact-like links.
// A URL without a scheme is treated as https.
func (c *Crawler) ExtractFromURL(ctx context.Context, rawURL string) (*coldemail.URLReport, error) {
	target := coldemail.EnsureScheme(rawURL)
	if target == "" {
		return nil, coldemail.Errorf(coldemail.EINVALID, "url required")
	}
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return nil, coldemail.Errorf(coldemail.EINVALID, "invalid url %q", rawURL)
	}

	res, err := c.run(ctx, []QueuedURL{{URL: target}}, nil)
	if err != nil && len(res.pages) == 0 {
		return nil, err
	}
	return &coldemail.URLReport{
		URL:               target,
		Emails:            res.emails,
		ProcessedURLCount: res.visited,
		Pages:             res.pages,
	}, nil
}

// run walks the frontier starting from seeds. The returned error is set
// when the run stopped early because of ctx or a configuration fault.
func (c *Crawler) run(ctx context.Context, seeds []QueuedURL, progress ProgressFunc) (runResult, error) {
	res := runResult{emails: []string{}}
	if c.Fetcher == nil || c.Parser == nil {
		return res, coldemail.Errorf(coldemail.EINTERNAL, "crawler requires a fetcher and a parser")
	}

	limits := c.Limits.withDefaults()
	frontier := NewFrontier(uint(len(seeds)+limits.MaxURLs*limits.MaxChildLinks), frontierFalsePositiveRate)
	for _, seed := range seeds {
		frontier.Push(seed)
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: min(frontier.Len(), limits.MaxURLs),
		})
	}

	seen := make(map[string]bool)
	hashes := make(map[string][]string)
	var runErr error

	for {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if frontier.Visited() >= limits.MaxURLs || len(res.emails) > limits.EmailThreshold {
			break
		}
		if frontier.Len() == 0 {
			break
		}
		if frontier.Visited() > 0 {
			if err := sleep(ctx, c.Delay); err != nil {
				runErr = err
				break
			}
		}

		item, ok := frontier.Pop()
		if !ok {
			break
		}

		page := c.visit(ctx, item, hashes)
		res.pages = append(res.pages, page)

		for _, e := range page.Emails {
			if !seen[e] {
				seen[e] = true
				res.emails = append(res.emails, e)
			}
		}

		if page.Err != nil {
			c.logger().Debug("page skipped", "url", item.URL, "kind", string(page.ErrorKind()), "err", page.Err)
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: frontier.Visited(),
					Total:     min(frontier.Visited()+frontier.Len(), limits.MaxURLs),
					URL:       item.URL,
					Error:     page.Err,
				})
			}
			continue
		}

		if item.Depth < MaxDepth {
			pushed := 0
			for _, link := range page.Links {
				if pushed >= limits.MaxChildLinks {
					break
				}
				if frontier.Push(QueuedURL{URL: link, Depth: item.Depth + 1, Source: item.Source, Parent: item.URL}) {
					pushed++
				}
			}
		}

		if progress != nil {
			progress(ProgressEvent{
				Type:      ProgressCompleted,
				Completed: frontier.Visited(),
				Total:     min(frontier.Visited()+frontier.Len(), limits.MaxURLs),
				URL:       item.URL,
				Emails:    len(page.Emails),
			})
		}
	}

	res.visited = frontier.Visited()

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: res.visited,
			Total:     res.visited,
			Emails:    len(res.emails),
			Error:     runErr,
		})
	}

	return res, runErr
}

// visit fetches, parses and extracts one page. Failures are recorded on the
// returned PageResult and never abort the run.
func (c *Crawler) visit(ctx context.Context, item QueuedURL, hashes map[string][]string) *coldemail.PageResult {
	page := &coldemail.PageResult{
		URL:    item.URL,
		Depth:  item.Depth,
		Emails: []string{},
		Links:  []string{},
	}

	if c.Robots != nil && !c.Robots.Allowed(ctx, item.URL) {
		page.Err = &coldemail.FetchError{Kind: coldemail.FetchDisallowed, URL: item.URL}
		return page
	}

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, coldemail.Hostname(item.URL)); err != nil {
			page.Err = err
			return page
		}
	}

	resp, err := c.Fetcher.Fetch(ctx, item.URL)
	if err != nil {
		page.Err = err
		return page
	}
	if resp == nil || resp.Body == "" {
		return page
	}

	hash := computeHash(resp.Body)
	page.ContentHash = hash
	if prev, ok := hashes[hash]; ok {
		page.Emails = prev
		return page
	}

	base := resp.URL
	if base == "" {
		base = item.URL
	}
	parsed, err := c.Parser.Parse(resp.Body, base)
	if err != nil {
		page.Err = err
		return page
	}

	page.Emails = c.extractEmails(ctx, parsed, item.Depth)
	if parsed.Links != nil {
		page.Links = parsed.Links
	}
	hashes[hash] = page.Emails
	return page
}

// extractEmails runs every applicable strategy and filters the union.
// A failing strategy is logged and skipped.
func (c *Crawler) extractEmails(ctx context.Context, parsed *coldemail.ParsedPage, depth int) []string {
	var found []string
	for _, ex := range c.Extractors {
		if ex.Scope() == coldemail.ScopeRootPages && depth > 0 {
			continue
		}
		emails, err := ex.ExtractEmails(ctx, parsed)
		if err != nil {
			c.logger().Warn("extraction degraded", "strategy", ex.Name(), "url", parsed.URL, "err", err)
			continue
		}
		found = append(found, emails...)
	}
	return coldemail.FilterEmails(found)
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
