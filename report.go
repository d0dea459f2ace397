package coldemail

import (
	"context"
	"time"
)

// Status is the outcome of a company crawl.
type Status string

// Report statuses.
const (
	StatusProcessing    Status = "processing"
	StatusCompleted     Status = "completed"
	StatusNoResults     Status = "no_results"
	StatusNoEmailsFound Status = "no_emails_found"
	StatusError         Status = "error"
)

// CompanyReport is the aggregated result of one company crawl run.
type CompanyReport struct {
	ID                string        `json:"id,omitempty"`
	Company           string        `json:"company"`
	Emails            []string      `json:"emails"`
	ProcessedURLCount int           `json:"processedUrls"`
	Status            Status        `json:"status"`
	Error             string        `json:"error,omitempty"`
	Pages             []*PageResult `json:"-"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// Validate returns an error if the report contains invalid fields.
func (r *CompanyReport) Validate() error {
	if r.Company == "" {
		return Errorf(EINVALID, "report company required")
	}
	switch r.Status {
	case StatusProcessing, StatusCompleted, StatusNoResults, StatusNoEmailsFound, StatusError:
	default:
		return Errorf(EINVALID, "invalid report status %q", r.Status)
	}
	return nil
}

// URLReport is the result of a crawl seeded with a single URL.
type URLReport struct {
	URL               string        `json:"url"`
	Emails            []string      `json:"emails"`
	ProcessedURLCount int           `json:"processedUrls"`
	Pages             []*PageResult `json:"-"`
}

// ReportService stores finished company reports.
type ReportService interface {
	// CreateReport assigns an ID and stores the report.
	CreateReport(ctx context.Context, report *CompanyReport) error

	// FindReportByID retrieves a report by ID.
	// Returns ENOTFOUND if the report does not exist.
	FindReportByID(ctx context.Context, id string) (*CompanyReport, error)

	// FindReports retrieves reports matching the filter, newest first.
	FindReports(ctx context.Context, filter ReportFilter) ([]*CompanyReport, error)
}

// ReportFilter represents a filter for FindReports.
type ReportFilter struct {
	Company *string `json:"company"`
	Status  *Status `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
