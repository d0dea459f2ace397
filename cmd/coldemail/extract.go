package main

import (
	"fmt"

	"github.com/sheetsprojectsofficial/coldemail"
	"github.com/sheetsprojectsofficial/coldemail/crawl"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	report, err := deps.Finder.ExtractFromURL(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coldemail.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s: %s from %d pages\n",
		report.URL, crawl.FormatEmails(len(report.Emails)), report.ProcessedURLCount)
	for _, email := range report.Emails {
		fmt.Fprintf(deps.Stdout, "  %s\n", email)
	}
	return nil
}
