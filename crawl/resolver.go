package crawl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sheetsprojectsofficial/coldemail"
)

// Resolver defaults.
const (
	DefaultSearchTimeout = 15 * time.Second
	DefaultSearchLimit   = 10
	DefaultMaxCandidates = 30
)

var _ coldemail.CandidateResolver = (*Resolver)(nil)

// Resolver turns a company name into crawl seeds. Search results come first,
// followed by generated guesses. Search is best-effort: a failing or missing
// provider degrades to guesses only.
type Resolver struct {
	// Search is the primary provider. Optional.
	Search coldemail.SearchProvider
	// Fallback is queried when the primary fails or returns nothing. Optional.
	Fallback coldemail.SearchProvider

	Timeout       time.Duration
	SearchLimit   int
	MaxCandidates int

	Logger *slog.Logger
}

// SearchQuery returns the query sent to search providers for a company.
func SearchQuery(company string) string {
	return strings.TrimSpace(company) + " official website"
}

// Resolve returns ordered, deduplicated candidate URLs for company.
// Returns EINVALID if company is blank. Search failures never surface.
func (r *Resolver) Resolve(ctx context.Context, company string) ([]coldemail.CandidateURL, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, coldemail.Errorf(coldemail.EINVALID, "company name required")
	}

	found := r.search(ctx, company)
	generated := coldemail.GenerateCandidates(company)
	merged := coldemail.MergeCandidates(found, generated)

	if max := r.maxCandidates(); len(merged) > max {
		merged = merged[:max]
	}
	return merged, nil
}

func (r *Resolver) search(ctx context.Context, company string) []coldemail.CandidateURL {
	query := SearchQuery(company)
	var results []coldemail.CandidateURL
	if r.Search != nil {
		results = r.query(ctx, r.Search, query, coldemail.SourceSearch)
	}
	if len(results) == 0 && r.Fallback != nil {
		results = r.query(ctx, r.Fallback, query, coldemail.SourceFallback)
	}
	return results
}

func (r *Resolver) query(ctx context.Context, p coldemail.SearchProvider, query string, source coldemail.Source) []coldemail.CandidateURL {
	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	results, err := p.Search(ctx, query, r.searchLimit())
	if err != nil {
		r.logger().Warn("search degraded",
			"provider", p.Name(),
			"kind", string(coldemail.SearchErrorKindOf(err)),
			"err", err,
		)
		return nil
	}

	out := make([]coldemail.CandidateURL, 0, len(results))
	for _, res := range results {
		if !isHTTPURL(res.URL) {
			continue
		}
		if res.Source == "" {
			res.Source = source
		}
		out = append(out, res)
	}
	return out
}

func (r *Resolver) timeout() time.Duration {
	if r.Timeout <= 0 || r.Timeout > DefaultSearchTimeout {
		return DefaultSearchTimeout
	}
	return r.Timeout
}

func (r *Resolver) searchLimit() int {
	if r.SearchLimit <= 0 {
		return DefaultSearchLimit
	}
	return r.SearchLimit
}

func (r *Resolver) maxCandidates() int {
	if r.MaxCandidates <= 0 {
		return DefaultMaxCandidates
	}
	return r.MaxCandidates
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func isHTTPURL(rawURL string) bool {
	lower := strings.ToLower(strings.TrimSpace(rawURL))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
