package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sheetsprojectsofficial/coldemail"
	"github.com/sheetsprojectsofficial/coldemail/crawl"
	"golang.org/x/sync/errgroup"
)

// progressURLWidth bounds URLs printed in progress lines.
const progressURLWidth = 60

// Run executes the find command.
func (c *FindCmd) Run(deps *Dependencies) error {
	var mu sync.Mutex
	printf := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(deps.Stderr, format, args...)
	}

	reports := make([]*coldemail.CompanyReport, len(c.Companies))
	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(max(c.Concurrency, 1))
	for i, company := range c.Companies {
		g.Go(func() error {
			report, err := c.find(ctx, deps, company, printf)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coldemail.ErrorMessage(err))
		return err
	}

	if deps.Reports != nil && !c.NoSave {
		for _, report := range reports {
			if err := deps.Reports.CreateReport(deps.Ctx, report); err != nil {
				fmt.Fprintf(deps.Stderr, "warning: report for %q not saved: %v\n", report.Company, err)
			}
		}
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	for _, report := range reports {
		fmt.Fprintf(deps.Stdout, "%s: %s (%s, %d pages)\n",
			report.Company, report.Status, crawl.FormatEmails(len(report.Emails)), report.ProcessedURLCount)
		if report.Error != "" {
			fmt.Fprintf(deps.Stdout, "  error: %s\n", report.Error)
		}
		for _, email := range report.Emails {
			fmt.Fprintf(deps.Stdout, "  %s\n", email)
		}
		if report.ID != "" {
			fmt.Fprintf(deps.Stdout, "  report %s\n", report.ID)
		}
	}
	return nil
}

// find crawls one company, printing progress when a Crawler is available.
func (c *FindCmd) find(ctx context.Context, deps *Dependencies, company string, printf func(string, ...any)) (*coldemail.CompanyReport, error) {
	if deps.Crawler == nil {
		return deps.Finder.FindCompanyEmails(ctx, company)
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			printf("%s: crawling up to %d URLs\n", company, event.Total)
		case crawl.ProgressCompleted:
			printf("  [%d/%d] %s (%s)\n", event.Completed, event.Total,
				crawl.TruncateURL(event.URL, progressURLWidth), crawl.FormatEmails(event.Emails))
		case crawl.ProgressFailed:
			printf("  skip %s: %v\n", crawl.TruncateURL(event.URL, progressURLWidth), event.Error)
		case crawl.ProgressFinished:
			if event.Error != nil {
				printf("  stopped early: %v\n", event.Error)
			}
		}
	}
	return deps.Crawler.Crawl(ctx, company, progress)
}
