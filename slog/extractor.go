package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/sheetsprojectsofficial/coldemail"
)

// Ensure LoggingExtractor implements coldemail.EmailExtractor.
var _ coldemail.EmailExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an EmailExtractor with debug logging.
type LoggingExtractor struct {
	next   coldemail.EmailExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next coldemail.EmailExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Name delegates to the wrapped extractor.
func (e *LoggingExtractor) Name() string {
	return e.next.Name()
}

// Scope delegates to the wrapped extractor.
func (e *LoggingExtractor) Scope() coldemail.ExtractionScope {
	return e.next.Scope()
}

// ExtractEmails delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) ExtractEmails(ctx context.Context, page *coldemail.ParsedPage) (emails []string, err error) {
	defer func(begin time.Time) {
		var url string
		if page != nil {
			url = page.URL
		}
		e.logger.Debug("extract",
			"strategy", e.next.Name(),
			"url", url,
			"count", len(emails),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractEmails(ctx, page)
}
