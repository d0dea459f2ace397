// Package googlesearch implements coldemail.SearchProvider with the Google
// Custom Search JSON API.
package googlesearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sheetsprojectsofficial/coldemail"
)

// DefaultBaseURL is the Custom Search JSON API endpoint.
const DefaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// maxResultsPerRequest is the API's upper bound for the num parameter.
const maxResultsPerRequest = 10

var _ coldemail.SearchProvider = (*Client)(nil)

// Client queries the Custom Search API.
type Client struct {
	APIKey   string
	EngineID string

	// BaseURL overrides DefaultBaseURL.
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a Client for the given API key and search engine id.
func NewClient(apiKey, engineID string, httpClient *http.Client) *Client {
	return &Client{
		APIKey:     apiKey,
		EngineID:   engineID,
		BaseURL:    DefaultBaseURL,
		HTTPClient: httpClient,
	}
}

// Name returns "google".
func (c *Client) Name() string { return "google" }

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Search returns up to limit results for query, at most ten per request.
// Failures are returned as *coldemail.SearchError.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]coldemail.CandidateURL, error) {
	if strings.TrimSpace(c.APIKey) == "" || strings.TrimSpace(c.EngineID) == "" {
		return nil, c.error(coldemail.SearchAuth, errors.New("api key and engine id are required"))
	}

	endpoint := c.BaseURL
	if endpoint == "" {
		endpoint = DefaultBaseURL
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, c.error(coldemail.SearchNetwork, err)
	}

	num := limit
	if num <= 0 || num > maxResultsPerRequest {
		num = maxResultsPerRequest
	}
	q := u.Query()
	q.Set("key", c.APIKey)
	q.Set("cx", c.EngineID)
	q.Set("q", query)
	q.Set("num", strconv.Itoa(num))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, c.error(coldemail.SearchNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, c.error(classifyError(err), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.error(coldemail.SearchKindForStatus(resp.StatusCode), fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, c.error(coldemail.SearchParse, fmt.Errorf("decode response: %w", err))
	}

	results := make([]coldemail.CandidateURL, 0, len(body.Items))
	for _, item := range body.Items {
		if len(results) >= num {
			break
		}
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		results = append(results, coldemail.CandidateURL{
			URL:     link,
			Source:  coldemail.SourceSearch,
			Title:   strings.TrimSpace(item.Title),
			Snippet: strings.TrimSpace(item.Snippet),
		})
	}
	return results, nil
}

func (c *Client) error(kind coldemail.SearchErrorKind, err error) error {
	return &coldemail.SearchError{Provider: c.Name(), Kind: kind, Err: err}
}

func classifyError(err error) coldemail.SearchErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return coldemail.SearchTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return coldemail.SearchTimeout
	}
	return coldemail.SearchNetwork
}
