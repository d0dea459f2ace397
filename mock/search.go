package mock

import (
	"context"

	"github.com/sheetsprojectsofficial/coldemail"
)

var _ coldemail.SearchProvider = (*SearchProvider)(nil)

// SearchProvider is a mock implementation of coldemail.SearchProvider.
type SearchProvider struct {
	NameFn   func() string
	SearchFn func(ctx context.Context, query string, limit int) ([]coldemail.CandidateURL, error)
}

func (p *SearchProvider) Name() string {
	return p.NameFn()
}

func (p *SearchProvider) Search(ctx context.Context, query string, limit int) ([]coldemail.CandidateURL, error) {
	return p.SearchFn(ctx, query, limit)
}

var _ coldemail.CandidateResolver = (*CandidateResolver)(nil)

// CandidateResolver is a mock implementation of coldemail.CandidateResolver.
type CandidateResolver struct {
	ResolveFn func(ctx context.Context, company string) ([]coldemail.CandidateURL, error)
}

func (r *CandidateResolver) Resolve(ctx context.Context, company string) ([]coldemail.CandidateURL, error) {
	return r.ResolveFn(ctx, company)
}
