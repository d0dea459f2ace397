package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/sheetsprojectsofficial/coldemail"
	"github.com/sheetsprojectsofficial/coldemail/mock"
	ceslog "github.com/sheetsprojectsofficial/coldemail/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDebugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with status, bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*coldemail.Response, error) {
				return &coldemail.Response{URL: url, StatusCode: 200, Body: "<html>content</html>"}, nil
			},
		}

		fetcher := ceslog.NewLoggingFetcher(inner, newDebugLogger(&buf))
		resp, err := fetcher.Fetch(context.Background(), "https://acmecorp.com/contact")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", resp.Body)
		output := buf.String()
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "url=https://acmecorp.com/contact")
		assert.Contains(t, output, "status=200")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs status of failed fetch", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*coldemail.Response, error) {
				return nil, &coldemail.FetchError{Kind: coldemail.FetchStatus, URL: url, StatusCode: 404}
			},
		}

		fetcher := ceslog.NewLoggingFetcher(inner, newDebugLogger(&buf))
		_, err := fetcher.Fetch(context.Background(), "https://acmecorp.com/missing")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "status=404")
		assert.Contains(t, output, "bytes=0")
		assert.Contains(t, output, "HTTP 404")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(context.Context, string) (*coldemail.Response, error) {
				return nil, errors.New("network error")
			},
		}

		fetcher := ceslog.NewLoggingFetcher(inner, newDebugLogger(&buf))
		_, err := fetcher.Fetch(context.Background(), "https://acmecorp.com/")

		require.Error(t, err)
		assert.Contains(t, buf.String(), `err="network error"`)
	})

	t.Run("silent at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*coldemail.Response, error) {
				return &coldemail.Response{URL: url, StatusCode: 200}, nil
			},
		}

		fetcher := ceslog.NewLoggingFetcher(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := fetcher.Fetch(context.Background(), "https://acmecorp.com/")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}
