package mock

import (
	"context"

	"github.com/sheetsprojectsofficial/coldemail"
)

var _ coldemail.EmailFinder = (*EmailFinder)(nil)

// EmailFinder is a mock implementation of coldemail.EmailFinder.
type EmailFinder struct {
	SearchURLsFn        func(ctx context.Context, company string) ([]coldemail.CandidateURL, error)
	ExtractFromURLFn    func(ctx context.Context, rawURL string) (*coldemail.URLReport, error)
	FindCompanyEmailsFn func(ctx context.Context, company string) (*coldemail.CompanyReport, error)
}

func (f *EmailFinder) SearchURLs(ctx context.Context, company string) ([]coldemail.CandidateURL, error) {
	return f.SearchURLsFn(ctx, company)
}

func (f *EmailFinder) ExtractFromURL(ctx context.Context, rawURL string) (*coldemail.URLReport, error) {
	return f.ExtractFromURLFn(ctx, rawURL)
}

func (f *EmailFinder) FindCompanyEmails(ctx context.Context, company string) (*coldemail.CompanyReport, error) {
	return f.FindCompanyEmailsFn(ctx, company)
}
