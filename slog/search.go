package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/sheetsprojectsofficial/coldemail"
)

// Ensure LoggingSearchProvider implements coldemail.SearchProvider.
var _ coldemail.SearchProvider = (*LoggingSearchProvider)(nil)

// LoggingSearchProvider wraps a SearchProvider with logging.
type LoggingSearchProvider struct {
	next   coldemail.SearchProvider
	logger *slog.Logger
}

// NewLoggingSearchProvider creates a new LoggingSearchProvider.
func NewLoggingSearchProvider(next coldemail.SearchProvider, logger *slog.Logger) *LoggingSearchProvider {
	return &LoggingSearchProvider{next: next, logger: logger}
}

// Name delegates to the wrapped provider.
func (p *LoggingSearchProvider) Name() string {
	return p.next.Name()
}

// Search delegates to the wrapped provider and logs the operation.
func (p *LoggingSearchProvider) Search(ctx context.Context, query string, limit int) (results []coldemail.CandidateURL, err error) {
	defer func(begin time.Time) {
		p.logger.Info("search",
			"provider", p.next.Name(),
			"query", query,
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Search(ctx, query, limit)
}
