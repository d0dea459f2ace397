package mock

import (
	"context"

	"github.com/sheetsprojectsofficial/coldemail"
)

var _ coldemail.ReportService = (*ReportService)(nil)

// ReportService is a mock implementation of coldemail.ReportService.
type ReportService struct {
	CreateReportFn   func(ctx context.Context, report *coldemail.CompanyReport) error
	FindReportByIDFn func(ctx context.Context, id string) (*coldemail.CompanyReport, error)
	FindReportsFn    func(ctx context.Context, filter coldemail.ReportFilter) ([]*coldemail.CompanyReport, error)
}

func (s *ReportService) CreateReport(ctx context.Context, report *coldemail.CompanyReport) error {
	return s.CreateReportFn(ctx, report)
}

func (s *ReportService) FindReportByID(ctx context.Context, id string) (*coldemail.CompanyReport, error) {
	return s.FindReportByIDFn(ctx, id)
}

func (s *ReportService) FindReports(ctx context.Context, filter coldemail.ReportFilter) ([]*coldemail.CompanyReport, error) {
	return s.FindReportsFn(ctx, filter)
}
