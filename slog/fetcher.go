// Package slog provides logging decorators for the coldemail interfaces.
package slog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sheetsprojectsofficial/coldemail"
)

// Ensure LoggingFetcher implements coldemail.Fetcher.
var _ coldemail.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   coldemail.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next coldemail.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (resp *coldemail.Response, err error) {
	defer func(begin time.Time) {
		var status, size int
		if resp != nil {
			status, size = resp.StatusCode, len(resp.Body)
		}
		var fe *coldemail.FetchError
		if errors.As(err, &fe) && fe.StatusCode != 0 {
			status = fe.StatusCode
		}
		f.logger.Debug("fetch",
			"url", url,
			"status", status,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}
