package coldemail

// ParsedPage is the parser's view of one fetched HTML document.
type ParsedPage struct {
	URL string
	// Text is the visible text with script/style content removed.
	Text string
	// HTML is the raw document, scanned for addresses hidden in
	// attributes and comments.
	HTML string
	// Mailto holds the href of every mailto: anchor, unmodified.
	Mailto []string
	// Links are same-host contact/about style links in priority order.
	Links []string
}

// Parser turns raw HTML into text and relevant links.
type Parser interface {
	// Parse parses html and resolves links against baseURL.
	// Malformed hrefs are skipped rather than reported.
	Parse(html string, baseURL string) (*ParsedPage, error)
}

// PageResult is the outcome of fetching and parsing one URL.
type PageResult struct {
	URL         string   `json:"url"`
	Depth       int      `json:"depth"`
	Emails      []string `json:"emails"`
	Links       []string `json:"links"`
	ContentHash string   `json:"contentHash,omitempty"`
	Err         error    `json:"-"`
}

// ErrorKind returns the fetch failure kind, or "" if the page succeeded.
func (p *PageResult) ErrorKind() FetchErrorKind {
	return FetchErrorKindOf(p.Err)
}
