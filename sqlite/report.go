package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sheetsprojectsofficial/coldemail"
)

// Compile-time interface verification.
var _ coldemail.ReportService = (*ReportService)(nil)

const reportColumns = "id, company, emails, processed_urls, status, error, created_at"

// ReportService implements coldemail.ReportService using SQLite.
type ReportService struct {
	db *DB
}

// NewReportService creates a new ReportService.
func NewReportService(db *DB) *ReportService {
	return &ReportService{db: db}
}

// CreateReport stores report under a new ID. A zero CreatedAt is set to
// the current time.
func (s *ReportService) CreateReport(ctx context.Context, report *coldemail.CompanyReport) error {
	if err := report.Validate(); err != nil {
		return err
	}

	emails := report.Emails
	if emails == nil {
		emails = []string{}
	}
	encoded, err := json.Marshal(emails)
	if err != nil {
		return fmt.Errorf("failed to encode emails: %w", err)
	}

	report.ID = uuid.New().String()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (`+reportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, report.ID, report.Company, string(encoded), report.ProcessedURLCount, string(report.Status),
		report.Error, formatTimestamp(report.CreatedAt))

	return err
}

// FindReportByID retrieves a report by ID.
func (s *ReportService) FindReportByID(ctx context.Context, id string) (*coldemail.CompanyReport, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+reportColumns+" FROM reports WHERE id = ?", id)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, coldemail.Errorf(coldemail.ENOTFOUND, "report not found")
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// FindReports retrieves reports matching the filter, newest first.
// Company names match case-insensitively.
func (s *ReportService) FindReports(ctx context.Context, filter coldemail.ReportFilter) ([]*coldemail.CompanyReport, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + reportColumns + " FROM reports WHERE 1=1")

	if filter.Company != nil {
		query.WriteString(" AND company = ? COLLATE NOCASE")
		args = append(args, strings.TrimSpace(*filter.Company))
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []*coldemail.CompanyReport{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*coldemail.CompanyReport, error) {
	var report coldemail.CompanyReport
	var emails, status, createdAt string

	if err := row.Scan(&report.ID, &report.Company, &emails, &report.ProcessedURLCount,
		&status, &report.Error, &createdAt); err != nil {
		return nil, err
	}

	report.Status = coldemail.Status(status)
	if err := json.Unmarshal([]byte(emails), &report.Emails); err != nil {
		return nil, fmt.Errorf("failed to decode emails: %w", err)
	}
	if report.Emails == nil {
		report.Emails = []string{}
	}

	var err error
	report.CreatedAt, err = parseTimestamp(createdAt, "created_at")
	if err != nil {
		return nil, err
	}

	return &report, nil
}
