// Package coldemail discovers public contact email addresses for a company.
// It expands a company name into candidate URLs, optionally asks a search
// provider for more, crawls a bounded set of pages and extracts, validates
// and deduplicates the addresses it finds.
//
// This package contains domain types, interfaces and the pure algorithms
// (candidate generation, email filtering) following Ben Johnson's Standard
// Package Layout. Implementations live in subdirectories named after their
// primary dependency (e.g., goquery/, gemini/, sqlite/).
package coldemail

import "context"

// EmailFinder is the service exposed to callers (HTTP API, CLI).
type EmailFinder interface {
	// SearchURLs returns the ranked candidate URLs for a company without
	// fetching any of them. Returns EINVALID for a blank company name.
	SearchURLs(ctx context.Context, company string) ([]CandidateURL, error)

	// ExtractFromURL runs a crawl seeded with a single URL.
	// Returns EINVALID for a blank or unparsable URL.
	ExtractFromURL(ctx context.Context, rawURL string) (*URLReport, error)

	// FindCompanyEmails resolves candidates and crawls them.
	// Only validation failures are returned as errors; every other
	// outcome is described by the report status.
	FindCompanyEmails(ctx context.Context, company string) (*CompanyReport, error)
}
