package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sheetsprojectsofficial/coldemail"
	"golang.org/x/net/html"
)

// DefaultMaxLinks is the default number of links returned per page.
const DefaultMaxLinks = 8

// contactKeywords mark links likely to lead to contact details.
var contactKeywords = []string{"contact", "about", "team", "staff", "people", "email", "support", "help"}

// priorityKeywords in anchor text rank a link ahead of the others.
var priorityKeywords = []string{"contact", "about"}

// textSelectors are elements whose text is appended to the visible text.
const textSelectors = "p, div, span, li, td, footer, header"

var _ coldemail.Parser = (*Parser)(nil)

// Parser extracts visible text, mailto hrefs and contact-like links
// from HTML.
type Parser struct {
	// MaxLinks caps the returned links. Zero uses DefaultMaxLinks.
	MaxLinks int
}

// NewParser creates a Parser with default limits.
func NewParser() *Parser {
	return &Parser{MaxLinks: DefaultMaxLinks}
}

// Parse parses htmlContent fetched from baseURL.
func (p *Parser) Parse(htmlContent, baseURL string) (*coldemail.ParsedPage, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, coldemail.Errorf(coldemail.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, coldemail.Errorf(coldemail.EINVALID, "failed to parse HTML: %v", err)
	}

	page := &coldemail.ParsedPage{
		URL:    baseURL,
		HTML:   htmlContent,
		Mailto: mailtoHrefs(doc),
		Links:  p.extractLinks(doc, base),
	}

	doc.Find("script, style, noscript").Remove()
	page.Text = visibleText(doc)
	return page, nil
}

// visibleText joins the body's text nodes with spaces, followed by the
// distinct texts of common content elements.
func visibleText(doc *goquery.Document) string {
	var parts []string
	for _, n := range doc.Find("body").Nodes {
		parts = appendTextNodes(parts, n)
	}

	seen := make(map[string]bool)
	doc.Find(textSelectors).Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		parts = append(parts, text)
	})

	return strings.Join(parts, " ")
}

func appendTextNodes(parts []string, n *html.Node) []string {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			parts = append(parts, text)
		}
		return parts
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parts = appendTextNodes(parts, c)
	}
	return parts
}

func mailtoHrefs(doc *goquery.Document) []string {
	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if strings.HasPrefix(strings.ToLower(href), "mailto:") {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}

// extractLinks returns same-host links whose URL or anchor text matches a
// contact keyword. Links with "contact" or "about" in their anchor text
// come first; document order is kept otherwise.
func (p *Parser) extractLinks(doc *goquery.Document, base *url.URL) []string {
	var preferred, others []string
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return
		}

		// Skip non-HTTP links (javascript:, mailto:, etc.)
		if isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, strings.TrimSpace(href))
		if resolved == "" || seen[resolved] {
			return
		}

		if !isSameHost(base, resolved) {
			return
		}

		text := strings.ToLower(sel.Text())
		if !containsAny(strings.ToLower(resolved), contactKeywords) && !containsAny(text, contactKeywords) {
			return
		}

		seen[resolved] = true
		if containsAny(text, priorityKeywords) {
			preferred = append(preferred, resolved)
		} else {
			others = append(others, resolved)
		}
	})

	links := append(preferred, others...)
	if limit := p.maxLinks(); len(links) > limit {
		links = links[:limit]
	}
	if links == nil {
		links = []string{}
	}
	return links
}

func (p *Parser) maxLinks() int {
	if p.MaxLinks <= 0 {
		return DefaultMaxLinks
	}
	return p.MaxLinks
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed, does not resolve to
// an http(s) URL, or is self-referential (same as base URL after stripping
// fragment). Fragments are stripped from the resolved URL for deduplication
// purposes.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	// Filter self-referential links (e.g., anchor-only links pointing to same page)
	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isSameHost checks if the resolved URL is on the base URL's site.
// Hosts are compared case-insensitively with a leading "www." ignored, so
// links survive the common bare/www redirect.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return siteHost(u.Hostname()) == siteHost(base.Hostname())
}

func siteHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
