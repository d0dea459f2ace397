// Package prometheus exposes Prometheus metrics for fetches, searches and
// company runs, plus decorators that record them.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sheetsprojectsofficial/coldemail"
)

// outcomeOK labels successful operations.
const outcomeOK = "ok"

// Metrics bundles the service's Prometheus collectors.
type Metrics struct {
	Registry *prometheus.Registry

	FetchesTotal     *prometheus.CounterVec
	FetchDuration    prometheus.Histogram
	SearchesTotal    *prometheus.CounterVec
	SearchDuration   prometheus.Histogram
	RunsTotal        *prometheus.CounterVec
	PagesVisited     prometheus.Counter
	EmailsFoundTotal prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coldemail_fetches_total",
			Help: "Total page fetches by outcome.",
		},
		[]string{"outcome"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coldemail_fetch_duration_seconds",
			Help:    "Page fetch latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	searches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coldemail_searches_total",
			Help: "Total search provider calls by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)
	searchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coldemail_search_duration_seconds",
			Help:    "Search provider latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coldemail_runs_total",
			Help: "Total crawl runs by final status.",
		},
		[]string{"status"},
	)
	pages := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coldemail_pages_visited_total",
			Help: "Total pages visited by crawl runs.",
		},
	)
	emails := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coldemail_emails_found_total",
			Help: "Total unique addresses reported by crawl runs.",
		},
	)

	registry.MustRegister(fetches, fetchDuration, searches, searchDuration, runs, pages, emails)

	return &Metrics{
		Registry:         registry,
		FetchesTotal:     fetches,
		FetchDuration:    fetchDuration,
		SearchesTotal:    searches,
		SearchDuration:   searchDuration,
		RunsTotal:        runs,
		PagesVisited:     pages,
		EmailsFoundTotal: emails,
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveFetch records one fetch. A nil err is labeled "ok", otherwise the
// fetch failure kind.
func (m *Metrics) ObserveFetch(d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := outcomeOK
	if err != nil {
		outcome = string(coldemail.FetchErrorKindOf(err))
	}
	m.FetchesTotal.WithLabelValues(outcome).Inc()
	m.FetchDuration.Observe(d.Seconds())
}

// ObserveSearch records one provider call.
func (m *Metrics) ObserveSearch(provider string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := outcomeOK
	if err != nil {
		outcome = string(coldemail.SearchErrorKindOf(err))
	}
	m.SearchesTotal.WithLabelValues(provider, outcome).Inc()
	m.SearchDuration.Observe(d.Seconds())
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(status coldemail.Status, visited, emails int) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(string(status)).Inc()
	m.PagesVisited.Add(float64(visited))
	m.EmailsFoundTotal.Add(float64(emails))
}
