package goquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sheetsprojectsofficial/coldemail"
)

// DefaultDuckDuckGoURL is the HTML-only results endpoint.
const DefaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

const duckDuckGoUserAgent = "Mozilla/5.0 (compatible; coldemail/1.0)"

var _ coldemail.SearchProvider = (*DuckDuckGo)(nil)

// DuckDuckGo is a keyless search provider that scrapes the DuckDuckGo HTML
// results page. It is used as the fallback when the API provider is not
// configured or fails.
type DuckDuckGo struct {
	// BaseURL overrides DefaultDuckDuckGoURL.
	BaseURL string
	Client  *http.Client
}

// NewDuckDuckGo creates a DuckDuckGo provider using client.
// A nil client uses http.DefaultClient.
func NewDuckDuckGo(client *http.Client) *DuckDuckGo {
	return &DuckDuckGo{BaseURL: DefaultDuckDuckGoURL, Client: client}
}

// Name returns "duckduckgo".
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Search returns up to limit organic results for query.
// Failures are returned as *coldemail.SearchError.
func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]coldemail.CandidateURL, error) {
	endpoint := d.BaseURL
	if endpoint == "" {
		endpoint = DefaultDuckDuckGoURL
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, d.error(coldemail.SearchNetwork, err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, d.error(coldemail.SearchNetwork, err)
	}
	req.Header.Set("User-Agent", duckDuckGoUserAgent)
	req.Header.Set("Accept", "text/html")

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, d.error(coldemail.SearchTimeout, err)
		}
		return nil, d.error(coldemail.SearchNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, d.error(coldemail.SearchKindForStatus(resp.StatusCode), fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, d.error(coldemail.SearchParse, err)
	}
	return ParseDuckDuckGoResults(doc, limit), nil
}

func (d *DuckDuckGo) error(kind coldemail.SearchErrorKind, err error) error {
	return &coldemail.SearchError{Provider: d.Name(), Kind: kind, Err: err}
}

// ParseDuckDuckGoResults reads organic results from a results page.
// Redirect links are unwrapped to their target. A non-positive limit
// returns every result.
func ParseDuckDuckGoResults(doc *goquery.Document, limit int) []coldemail.CandidateURL {
	results := []coldemail.CandidateURL{}
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if limit > 0 && len(results) >= limit {
			return false
		}
		link := sel.Find("a.result__a").First()
		target := unwrapRedirect(link.AttrOr("href", ""))
		if target == "" {
			return true
		}
		results = append(results, coldemail.CandidateURL{
			URL:     target,
			Source:  coldemail.SourceFallback,
			Title:   strings.TrimSpace(link.Text()),
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").First().Text()),
		})
		return true
	})
	return results
}

// unwrapRedirect returns the uddg target of a DuckDuckGo redirect link, or
// href itself when it already points at an http(s) URL.
func unwrapRedirect(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return href
}
