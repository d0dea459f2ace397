package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/sheetsprojectsofficial/coldemail"
	"github.com/sheetsprojectsofficial/coldemail/crawl"
)

// Run executes the reports command.
func (c *ReportsCmd) Run(deps *Dependencies) error {
	if deps.Reports == nil {
		fmt.Fprintf(deps.Stderr, "error: report storage is not configured. Set %s to a database path.\n", envDatabasePath)
		return coldemail.Errorf(coldemail.EINVALID, "report storage is not configured")
	}

	filter := coldemail.ReportFilter{Limit: c.Limit}
	if company := strings.TrimSpace(c.Company); company != "" {
		filter.Company = &company
	}
	if c.Status != "" {
		status := coldemail.Status(c.Status)
		filter.Status = &status
	}

	reports, err := deps.Reports.FindReports(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coldemail.ErrorMessage(err))
		return err
	}

	if len(reports) == 0 {
		fmt.Fprintln(deps.Stdout, "No reports found. Use 'coldemail find' to create one.")
		return nil
	}

	for _, r := range reports {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  %s\n",
			r.ID, r.CreatedAt.Format(time.DateTime), r.Company, r.Status, crawl.FormatEmails(len(r.Emails)))
	}
	return nil
}
