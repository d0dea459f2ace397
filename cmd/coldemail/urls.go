package main

import (
	"fmt"

	"github.com/sheetsprojectsofficial/coldemail"
)

// Run executes the urls command.
func (c *URLsCmd) Run(deps *Dependencies) error {
	candidates, err := deps.Finder.SearchURLs(deps.Ctx, c.Company)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coldemail.ErrorMessage(err))
		return err
	}

	if len(candidates) == 0 {
		fmt.Fprintln(deps.Stdout, "No candidate URLs found.")
		return nil
	}

	for i, cand := range candidates {
		fmt.Fprintf(deps.Stdout, "%2d  %-9s %s\n", i+1, cand.Source, coldemail.DisplayURL(cand.URL))
	}
	return nil
}
