package crawl

import (
	"errors"
	"strings"
	"time"

	"github.com/sheetsprojectsofficial/coldemail"
)

// Aggregate folds the page results of one run into a CompanyReport.
// Emails are the lower-cased union of page emails in first-seen order,
// re-validated. runErr is the error that stopped the run, if any.
func Aggregate(company string, candidates int, pages []*coldemail.PageResult, visited int, runErr error) *coldemail.CompanyReport {
	report := &coldemail.CompanyReport{
		Company:           company,
		Emails:            CollectEmails(pages),
		ProcessedURLCount: visited,
		Pages:             pages,
		CreatedAt:         time.Now().UTC(),
	}

	switch {
	case candidates == 0 && runErr == nil:
		report.Status = coldemail.StatusNoResults
	case runErr != nil && len(pages) == 0:
		report.Status = coldemail.StatusError
		report.Error = errorText(runErr)
	case len(report.Emails) == 0:
		report.Status = coldemail.StatusNoEmailsFound
	default:
		report.Status = coldemail.StatusCompleted
	}
	return report
}

// CollectEmails returns the valid, deduplicated emails of pages in
// first-seen order.
func CollectEmails(pages []*coldemail.PageResult) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, p := range pages {
		if p == nil {
			continue
		}
		for _, e := range p.Emails {
			e = strings.ToLower(strings.TrimSpace(e))
			if seen[e] || !coldemail.IsValidEmail(e) {
				continue
			}
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

// errorText returns the message of an application error, or the error text
// of any other error.
func errorText(err error) string {
	var e *coldemail.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
