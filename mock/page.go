package mock

import (
	"context"

	"github.com/sheetsprojectsofficial/coldemail"
)

var _ coldemail.Parser = (*Parser)(nil)

// Parser is a mock implementation of coldemail.Parser.
type Parser struct {
	ParseFn func(html, baseURL string) (*coldemail.ParsedPage, error)
}

func (p *Parser) Parse(html, baseURL string) (*coldemail.ParsedPage, error) {
	return p.ParseFn(html, baseURL)
}

var _ coldemail.EmailExtractor = (*EmailExtractor)(nil)

// EmailExtractor is a mock implementation of coldemail.EmailExtractor.
type EmailExtractor struct {
	NameFn          func() string
	ScopeFn         func() coldemail.ExtractionScope
	ExtractEmailsFn func(ctx context.Context, page *coldemail.ParsedPage) ([]string, error)
}

func (e *EmailExtractor) Name() string {
	return e.NameFn()
}

func (e *EmailExtractor) Scope() coldemail.ExtractionScope {
	return e.ScopeFn()
}

func (e *EmailExtractor) ExtractEmails(ctx context.Context, page *coldemail.ParsedPage) ([]string, error) {
	return e.ExtractEmailsFn(ctx, page)
}
