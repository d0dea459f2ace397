package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	coldemailhttp "github.com/sheetsprojectsofficial/coldemail/http"
	"github.com/stretchr/testify/assert"
)

func newRobotsServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestRobotsAgent_Allowed(t *testing.T) {
	t.Parallel()

	t.Run("applies disallow rules", func(t *testing.T) {
		t.Parallel()

		srv, _ := newRobotsServer(t, http.StatusOK, "User-agent: *\nDisallow: /private\n")
		agent := coldemailhttp.NewRobotsAgent(srv.Client(), "", 0)

		assert.True(t, agent.Allowed(context.Background(), srv.URL+"/contact"))
		assert.False(t, agent.Allowed(context.Background(), srv.URL+"/private/team"))
	})

	t.Run("caches rules per origin", func(t *testing.T) {
		t.Parallel()

		srv, hits := newRobotsServer(t, http.StatusOK, "User-agent: *\nDisallow:\n")
		agent := coldemailhttp.NewRobotsAgent(srv.Client(), "", 0)

		agent.Allowed(context.Background(), srv.URL+"/a")
		agent.Allowed(context.Background(), srv.URL+"/b")

		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("allows everything when robots.txt is missing", func(t *testing.T) {
		t.Parallel()

		srv, _ := newRobotsServer(t, http.StatusNotFound, "")
		agent := coldemailhttp.NewRobotsAgent(srv.Client(), "", 0)

		assert.True(t, agent.Allowed(context.Background(), srv.URL+"/contact"))
	})

	t.Run("fails open on server errors", func(t *testing.T) {
		t.Parallel()

		srv, _ := newRobotsServer(t, http.StatusInternalServerError, "")
		agent := coldemailhttp.NewRobotsAgent(srv.Client(), "", 0)

		assert.True(t, agent.Allowed(context.Background(), srv.URL+"/contact"))
	})

	t.Run("rejects relative URLs", func(t *testing.T) {
		t.Parallel()

		agent := coldemailhttp.NewRobotsAgent(nil, "", 0)

		assert.False(t, agent.Allowed(context.Background(), "/contact"))
	})

	t.Run("purge forces a refetch", func(t *testing.T) {
		t.Parallel()

		srv, hits := newRobotsServer(t, http.StatusOK, "User-agent: *\nDisallow:\n")
		agent := coldemailhttp.NewRobotsAgent(srv.Client(), "", 0)

		agent.Allowed(context.Background(), srv.URL+"/a")
		agent.Purge(srv.URL)
		agent.Allowed(context.Background(), srv.URL+"/a")

		assert.Equal(t, int32(2), hits.Load())
	})
}
