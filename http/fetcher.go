// Package http provides the HTTP side of the service: a page Fetcher for
// static sites, a robots.txt policy agent and the JSON API server.
package http

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/sheetsprojectsofficial/coldemail"
	"golang.org/x/net/html/charset"
)

// Fetcher defaults.
const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultMaxRedirects = 5
	DefaultMaxBodyBytes = 5 << 20
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// errTooManyRedirects is returned by CheckRedirect when the cap is hit.
var errTooManyRedirects = errors.New("too many redirects")

// skippedContentTypes are media types whose bodies are never read.
var skippedContentTypes = []string{"image/", "audio/", "video/", "application/pdf", "application/octet-stream", "application/zip"}

// Ensure Fetcher implements coldemail.Fetcher at compile time.
var _ coldemail.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages with plain HTTP GET requests. It does not
// execute JavaScript.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	userAgent    string
	maxRedirects int
	maxBodyBytes int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxRedirects sets the number of redirects followed.
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		f.maxRedirects = n
	}
}

// WithMaxBodyBytes sets the size at which bodies are truncated.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodyBytes = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		userAgent:    DefaultUserAgent,
		maxRedirects: DefaultMaxRedirects,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: f.timeout, KeepAlive: 30 * time.Second}).DialContext,
		TLSHandshakeTimeout:   f.timeout,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		// Decoding is done by readBody so that brotli is covered too.
		DisableCompression: true,
	}

	f.client = &http.Client{
		Timeout:   f.timeout,
		Transport: transport,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) > f.maxRedirects {
				return errTooManyRedirects
			}
			return nil
		},
	}

	return f
}

// Client exposes the underlying HTTP client for reuse (eg. robots.txt fetches).
func (f *Fetcher) Client() *http.Client {
	return f.client
}

// Fetch retrieves the page at url. Non-2xx statuses, timeouts, redirect
// loops and network failures are returned as *coldemail.FetchError.
// Non-textual content yields a response with an empty body.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*coldemail.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &coldemail.FetchError{Kind: coldemail.FetchNetwork, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &coldemail.FetchError{Kind: classifyError(err), URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &coldemail.FetchError{Kind: coldemail.FetchStatus, URL: url, StatusCode: resp.StatusCode}
	}

	out := &coldemail.Response{
		URL:         finalURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if !isTextual(out.ContentType) {
		return out, nil
	}

	body, err := f.readBody(resp)
	if err != nil {
		return nil, &coldemail.FetchError{Kind: classifyError(err), URL: url, Err: err}
	}
	out.Body = body
	return out, nil
}

// readBody decodes the content encoding and charset of resp and returns at
// most maxBodyBytes of it.
func (f *Fetcher) readBody(resp *http.Response) (string, error) {
	reader := io.Reader(resp.Body)
	var closers []io.Closer

	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch encoding {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("gzip decode: %w", err)
		}
		reader = gz
		closers = append(closers, gz)
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		fl := flate.NewReader(resp.Body)
		reader = fl
		closers = append(closers, fl)
	}
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}()

	decoded, err := charset.NewReader(reader, resp.Header.Get("Content-Type"))
	if err != nil {
		// Unknown charset: keep the raw bytes.
		decoded = reader
	}

	body, err := io.ReadAll(io.LimitReader(decoded, f.maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

// classifyError maps a client error to a fetch failure kind.
func classifyError(err error) coldemail.FetchErrorKind {
	if errors.Is(err, errTooManyRedirects) {
		return coldemail.FetchRedirects
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return coldemail.FetchTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return coldemail.FetchTimeout
	}
	return coldemail.FetchNetwork
}

// isTextual reports whether a body of contentType may contain addresses.
// A missing content type is treated as text.
func isTextual(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(contentType)
	}
	for _, prefix := range skippedContentTypes {
		if strings.HasPrefix(mediaType, prefix) {
			return false
		}
	}
	return true
}
