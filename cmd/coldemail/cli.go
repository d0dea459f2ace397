package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/sheetsprojectsofficial/coldemail"
	"github.com/sheetsprojectsofficial/coldemail/crawl"
	"github.com/sheetsprojectsofficial/coldemail/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Config  *Config
	Finder  coldemail.EmailFinder
	Crawler *crawl.Crawler
	Reports coldemail.ReportService
	Metrics *prometheus.Metrics
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `short:"c" type:"path" help:"Path to a YAML config file"`

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API"`
	Find    FindCmd    `cmd:"" help:"Find contact emails for one or more companies"`
	URLs    URLsCmd    `cmd:"" name:"urls" help:"List candidate URLs for a company without crawling"`
	Extract ExtractCmd `cmd:"" help:"Extract emails from a single website"`
	Reports ReportsCmd `cmd:"" help:"List stored company reports"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides server.addr)"`
}

// FindCmd is the "find" subcommand.
type FindCmd struct {
	Companies   []string `arg:"" help:"Company names"`
	Concurrency int      `short:"j" default:"3" help:"Companies processed concurrently"`
	JSON        bool     `help:"Print reports as JSON"`
	NoSave      bool     `help:"Do not store reports"`
}

// URLsCmd is the "urls" subcommand.
type URLsCmd struct {
	Company string `arg:"" help:"Company name"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL string `arg:"" help:"Website URL; https is assumed without a scheme"`
}

// ReportsCmd is the "reports" subcommand.
type ReportsCmd struct {
	Company string `help:"Only reports for this company"`
	Status  string `help:"Only reports with this status"`
	Limit   int    `short:"n" default:"20" help:"Maximum reports shown"`
}
