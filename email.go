package coldemail

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

// ExtractionScope declares which pages a strategy runs on.
type ExtractionScope int

const (
	// ScopeAllPages runs the strategy on every fetched page.
	ScopeAllPages ExtractionScope = iota
	// ScopeRootPages runs the strategy on depth-0 pages only.
	ScopeRootPages
)

// EmailExtractor is one email extraction strategy.
type EmailExtractor interface {
	// Name identifies the strategy in logs.
	Name() string

	// Scope reports which pages the strategy applies to.
	Scope() ExtractionScope

	// ExtractEmails returns candidate addresses found in the page.
	// Results are filtered by the caller.
	ExtractEmails(ctx context.Context, page *ParsedPage) ([]string, error)
}

var (
	// emailPattern finds addresses inside free text.
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// strictEmailPattern validates a single, already isolated token.
	strictEmailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

	// structuralEmailPattern is the final local@domain.tld shape check.
	structuralEmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[A-Za-z]{2,}$`)
)

// maxEmailLength bounds accepted addresses.
const maxEmailLength = 100

var (
	imageExtensions   = []string{".png", ".jpg", ".jpeg", ".gif"}
	noReplyMarkers    = []string{"noreply", "no-reply", "donotreply"}
	placeholderMarker = []string{"email@", "@email", "your-email"}
)

var _ EmailExtractor = (*RegexExtractor)(nil)

// RegexExtractor finds addresses with a regular expression in the visible
// text, the raw HTML and mailto: hrefs. It is always registered.
type RegexExtractor struct{}

// NewRegexExtractor returns a new RegexExtractor.
func NewRegexExtractor() *RegexExtractor {
	return &RegexExtractor{}
}

// Name returns "regex".
func (e *RegexExtractor) Name() string { return "regex" }

// Scope returns ScopeAllPages.
func (e *RegexExtractor) Scope() ExtractionScope { return ScopeAllPages }

// ExtractEmails returns lower-cased regex matches.
func (e *RegexExtractor) ExtractEmails(_ context.Context, page *ParsedPage) ([]string, error) {
	if page == nil {
		return nil, nil
	}

	var found []string
	collect := func(s string) {
		for _, m := range emailPattern.FindAllString(s, -1) {
			found = append(found, strings.ToLower(m))
		}
	}

	collect(page.Text)
	collect(page.HTML)
	for _, href := range page.Mailto {
		collect(mailtoAddress(href))
	}
	return found, nil
}

// mailtoAddress strips the scheme and query from a mailto: href and
// decodes percent escapes.
func mailtoAddress(href string) string {
	addr := strings.TrimSpace(href)
	if len(addr) >= len("mailto:") && strings.EqualFold(addr[:len("mailto:")], "mailto:") {
		addr = addr[len("mailto:"):]
	}
	if i := strings.IndexByte(addr, '?'); i >= 0 {
		addr = addr[:i]
	}
	if decoded, err := url.PathUnescape(addr); err == nil {
		addr = decoded
	}
	return addr
}

// IsStrictEmail reports whether s is exactly one address.
func IsStrictEmail(s string) bool {
	return strictEmailPattern.MatchString(s)
}

// IsValidEmail reports whether the address passes the post-filter: it has
// a local@domain.tld shape and none of the rejected markers (image file
// names, example/test domains, no-reply mailboxes, placeholders).
func IsValidEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(email) > maxEmailLength {
		return false
	}
	if !structuralEmailPattern.MatchString(email) {
		return false
	}
	for _, ext := range imageExtensions {
		if strings.Contains(email, ext) {
			return false
		}
	}
	if strings.Contains(email, "example") {
		return false
	}
	for _, m := range noReplyMarkers {
		if strings.Contains(email, m) {
			return false
		}
	}
	for _, m := range placeholderMarker {
		if strings.Contains(email, m) {
			return false
		}
	}
	domain := email[strings.LastIndexByte(email, '@')+1:]
	for _, label := range strings.Split(domain, ".") {
		if label == "test" {
			return false
		}
	}
	return true
}

// FilterEmails lower-cases, validates and deduplicates addresses,
// preserving first-seen order.
func FilterEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	seen := make(map[string]bool, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if seen[e] || !IsValidEmail(e) {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
