package prometheus

import (
	"context"
	"time"

	"github.com/sheetsprojectsofficial/coldemail"
)

var (
	_ coldemail.Fetcher        = (*Fetcher)(nil)
	_ coldemail.SearchProvider = (*SearchProvider)(nil)
	_ coldemail.EmailFinder    = (*Finder)(nil)
)

// Fetcher records fetch counts and latency.
type Fetcher struct {
	next    coldemail.Fetcher
	metrics *Metrics
}

// NewFetcher wraps next.
func NewFetcher(next coldemail.Fetcher, metrics *Metrics) *Fetcher {
	return &Fetcher{next: next, metrics: metrics}
}

// Fetch delegates to the wrapped fetcher.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*coldemail.Response, error) {
	begin := time.Now()
	resp, err := f.next.Fetch(ctx, url)
	f.metrics.ObserveFetch(time.Since(begin), err)
	return resp, err
}

// SearchProvider records provider call counts and latency.
type SearchProvider struct {
	next    coldemail.SearchProvider
	metrics *Metrics
}

// NewSearchProvider wraps next.
func NewSearchProvider(next coldemail.SearchProvider, metrics *Metrics) *SearchProvider {
	return &SearchProvider{next: next, metrics: metrics}
}

// Name delegates to the wrapped provider.
func (p *SearchProvider) Name() string {
	return p.next.Name()
}

// Search delegates to the wrapped provider.
func (p *SearchProvider) Search(ctx context.Context, query string, limit int) ([]coldemail.CandidateURL, error) {
	begin := time.Now()
	results, err := p.next.Search(ctx, query, limit)
	p.metrics.ObserveSearch(p.next.Name(), time.Since(begin), err)
	return results, err
}

// Finder records the outcome of every company and URL run.
type Finder struct {
	next    coldemail.EmailFinder
	metrics *Metrics
}

// NewFinder wraps next.
func NewFinder(next coldemail.EmailFinder, metrics *Metrics) *Finder {
	return &Finder{next: next, metrics: metrics}
}

// SearchURLs delegates to the wrapped finder.
func (f *Finder) SearchURLs(ctx context.Context, company string) ([]coldemail.CandidateURL, error) {
	return f.next.SearchURLs(ctx, company)
}

// ExtractFromURL delegates to the wrapped finder. Failed runs are counted
// with the error status.
func (f *Finder) ExtractFromURL(ctx context.Context, rawURL string) (*coldemail.URLReport, error) {
	report, err := f.next.ExtractFromURL(ctx, rawURL)
	switch {
	case coldemail.ErrorCode(err) == coldemail.EINVALID:
	case err != nil:
		f.metrics.ObserveRun(coldemail.StatusError, 0, 0)
	case len(report.Emails) == 0:
		f.metrics.ObserveRun(coldemail.StatusNoEmailsFound, report.ProcessedURLCount, 0)
	default:
		f.metrics.ObserveRun(coldemail.StatusCompleted, report.ProcessedURLCount, len(report.Emails))
	}
	return report, err
}

// FindCompanyEmails delegates to the wrapped finder. Validation failures
// are not counted.
func (f *Finder) FindCompanyEmails(ctx context.Context, company string) (*coldemail.CompanyReport, error) {
	report, err := f.next.FindCompanyEmails(ctx, company)
	if err != nil {
		if coldemail.ErrorCode(err) != coldemail.EINVALID {
			f.metrics.ObserveRun(coldemail.StatusError, 0, 0)
		}
		return report, err
	}
	f.metrics.ObserveRun(report.Status, report.ProcessedURLCount, len(report.Emails))
	return report, nil
}
