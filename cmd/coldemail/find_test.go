package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/sheetsprojectsofficial/coldemail"
	main "github.com/sheetsprojectsofficial/coldemail/cmd/coldemail"
	"github.com/sheetsprojectsofficial/coldemail/crawl"
	"github.com/sheetsprojectsofficial/coldemail/goquery"
	"github.com/sheetsprojectsofficial/coldemail/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeps(stdout, stderr *bytes.Buffer) *main.Dependencies {
	cfg := main.DefaultConfig()
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Config: &cfg,
	}
}

func TestFindCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints reports in input order", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Finder = &mock.EmailFinder{
			FindCompanyEmailsFn: func(_ context.Context, company string) (*coldemail.CompanyReport, error) {
				if company == "Globex" {
					return &coldemail.CompanyReport{Company: company, Emails: []string{}, Status: coldemail.StatusNoEmailsFound, ProcessedURLCount: 3}, nil
				}
				return &coldemail.CompanyReport{Company: company, Emails: []string{"info@acmecorp.com"}, Status: coldemail.StatusCompleted, ProcessedURLCount: 1}, nil
			},
		}

		cmd := &main.FindCmd{Companies: []string{"Acme Corp", "Globex"}, Concurrency: 2}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t,
			"Acme Corp: completed (1 email, 1 pages)\n  info@acmecorp.com\n"+
				"Globex: no_emails_found (0 emails, 3 pages)\n",
			stdout.String())
	})

	t.Run("stores reports", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var stored []string
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Finder = &mock.EmailFinder{
			FindCompanyEmailsFn: func(_ context.Context, company string) (*coldemail.CompanyReport, error) {
				return &coldemail.CompanyReport{Company: company, Emails: []string{}, Status: coldemail.StatusNoResults}, nil
			},
		}
		deps.Reports = &mock.ReportService{
			CreateReportFn: func(_ context.Context, report *coldemail.CompanyReport) error {
				mu.Lock()
				defer mu.Unlock()
				report.ID = "rep-1"
				stored = append(stored, report.Company)
				return nil
			},
		}

		err := (&main.FindCmd{Companies: []string{"Acme"}, Concurrency: 1}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"Acme"}, stored)
		assert.Contains(t, stdout.String(), "report rep-1")
	})

	t.Run("prints JSON", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Finder = &mock.EmailFinder{
			FindCompanyEmailsFn: func(_ context.Context, company string) (*coldemail.CompanyReport, error) {
				return &coldemail.CompanyReport{Company: company, Emails: []string{"info@acmecorp.com"}, Status: coldemail.StatusCompleted, ProcessedURLCount: 1}, nil
			},
		}

		err := (&main.FindCmd{Companies: []string{"Acme"}, Concurrency: 1, JSON: true}).Run(deps)

		require.NoError(t, err)
		var got []map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "Acme", got[0]["company"])
		assert.Equal(t, "completed", got[0]["status"])
		assert.InDelta(t, 1, got[0]["processedUrls"], 0)
	})

	t.Run("returns validation errors", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Finder = &mock.EmailFinder{
			FindCompanyEmailsFn: func(context.Context, string) (*coldemail.CompanyReport, error) {
				return nil, coldemail.Errorf(coldemail.EINVALID, "company name required")
			},
		}

		err := (&main.FindCmd{Companies: []string{" "}, Concurrency: 1}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: company name required")
	})

	t.Run("prints crawl progress", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Crawler = &crawl.Crawler{
			Resolver: &mock.CandidateResolver{
				ResolveFn: func(context.Context, string) ([]coldemail.CandidateURL, error) {
					return []coldemail.CandidateURL{
						{URL: "https://www.acmecorp.com", Source: coldemail.SourceGenerated},
						{URL: "https://acmecorp.io", Source: coldemail.SourceGenerated},
					}, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*coldemail.Response, error) {
					if url != "https://www.acmecorp.com" {
						return nil, &coldemail.FetchError{Kind: coldemail.FetchNetwork, URL: url, Err: errors.New("no such host")}
					}
					return &coldemail.Response{
						URL:        url,
						StatusCode: 200,
						Body:       `<html><body><a href="mailto:info@acmecorp.com">Email us</a></body></html>`,
					}, nil
				},
			},
			Parser:     goquery.NewParser(),
			Extractors: []coldemail.EmailExtractor{coldemail.NewRegexExtractor()},
		}

		err := (&main.FindCmd{Companies: []string{"Acme Corp"}, Concurrency: 1}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "Acme Corp: crawling up to 2 URLs")
		assert.Contains(t, stderr.String(), "[1/2] https://www.acmecorp.com (1 email)")
		assert.Contains(t, stderr.String(), "skip https://acmecorp.io:")
		assert.Contains(t, stdout.String(), "Acme Corp: completed (1 email, 2 pages)\n  info@acmecorp.com\n")
	})

	t.Run("reports a crawl stopped by cancellation", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		deps.Ctx = ctx
		deps.Crawler = &crawl.Crawler{
			Resolver: &mock.CandidateResolver{
				ResolveFn: func(context.Context, string) ([]coldemail.CandidateURL, error) {
					return []coldemail.CandidateURL{{URL: "https://www.acmecorp.com", Source: coldemail.SourceGenerated}}, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (*coldemail.Response, error) {
					t.Error("fetch after cancellation")
					return nil, nil
				},
			},
			Parser: goquery.NewParser(),
		}

		err := (&main.FindCmd{Companies: []string{"Acme Corp"}, Concurrency: 1}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "stopped early: context canceled")
		assert.Contains(t, stdout.String(), "Acme Corp: error (0 emails, 0 pages)")
	})
}
