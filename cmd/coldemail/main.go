package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/sheetsprojectsofficial/coldemail"
	"github.com/sheetsprojectsofficial/coldemail/crawl"
	"github.com/sheetsprojectsofficial/coldemail/gemini"
	"github.com/sheetsprojectsofficial/coldemail/goquery"
	"github.com/sheetsprojectsofficial/coldemail/googlesearch"
	coldemailhttp "github.com/sheetsprojectsofficial/coldemail/http"
	"github.com/sheetsprojectsofficial/coldemail/prometheus"
	ceslog "github.com/sheetsprojectsofficial/coldemail/slog"
	"github.com/sheetsprojectsofficial/coldemail/sqlite"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Getenv reads secrets. Defaults to os.Getenv.
	Getenv func(string) string

	// SQLite database used for report storage, when configured.
	DB *sqlite.DB

	// Services for end-to-end testing. When set they replace the wired
	// implementations.
	Finder  coldemail.EmailFinder
	Reports coldemail.ReportService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Getenv: os.Getenv}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("coldemail"),
		kong.Description("Discover public contact email addresses for companies"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'coldemail --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(cli.Config, m.Getenv)
	if err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: newLogger(cfg.Log, stderr),
		Config: cfg,
	}

	if err := m.wire(ctx, deps); err != nil {
		return err
	}
	defer m.Close()

	return kongCtx.Run(deps)
}

// wire builds the service graph described by deps.Config.
func (m *Main) wire(ctx context.Context, deps *Dependencies) error {
	cfg, logger := deps.Config, deps.Logger

	deps.Reports = m.Reports
	if deps.Reports == nil && cfg.Database.Path != "" {
		m.DB = sqlite.NewDB(cfg.Database.Path)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(deps.Stderr, "Hint: Set %s to use a different database path\n", envDatabasePath)
			return fmt.Errorf("failed to open database at %q: %w", cfg.Database.Path, err)
		}
		deps.Reports = sqlite.NewReportService(m.DB)
	}

	if m.Finder != nil {
		deps.Finder = m.Finder
		return nil
	}

	deps.Metrics = prometheus.NewMetrics()

	httpFetcher := coldemailhttp.NewFetcher(
		coldemailhttp.WithTimeout(cfg.Fetch.Timeout.Duration),
		coldemailhttp.WithUserAgent(cfg.Fetch.UserAgent),
		coldemailhttp.WithMaxRedirects(cfg.Fetch.MaxRedirects),
		coldemailhttp.WithMaxBodyBytes(cfg.Fetch.MaxBodyBytes),
	)
	fetcher := ceslog.NewLoggingFetcher(prometheus.NewFetcher(httpFetcher, deps.Metrics), logger)

	resolver := &crawl.Resolver{
		Timeout:       cfg.Search.Timeout.Duration,
		SearchLimit:   cfg.Search.Limit,
		MaxCandidates: cfg.Search.MaxCandidates,
		Logger:        logger,
	}
	if cfg.Search.Enabled() {
		google := googlesearch.NewClient(cfg.Search.APIKey, cfg.Search.EngineID, httpFetcher.Client())
		resolver.Search = m.searchProvider(google, deps)
	}
	if cfg.Search.Fallback {
		resolver.Fallback = m.searchProvider(goquery.NewDuckDuckGo(httpFetcher.Client()), deps)
	}

	extractors := []coldemail.EmailExtractor{coldemail.NewRegexExtractor()}
	if cfg.AI.APIKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.AI.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "Hint: Check your %s is valid\n", envGeminiAPIKey)
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		ai := gemini.NewExtractor(client)
		ai.Model = cfg.AI.Model
		ai.MaxChars = cfg.AI.MaxChars
		extractors = append(extractors, ceslog.NewLoggingExtractor(ai, logger))
	}

	deps.Crawler = &crawl.Crawler{
		Resolver:    resolver,
		Fetcher:     fetcher,
		Parser:      goquery.NewParser(),
		Extractors:  extractors,
		RateLimiter: crawl.NewDomainLimiter(cfg.Crawl.HostInterval.Duration),
		Delay:       cfg.Crawl.Delay.Duration,
		Limits: crawl.Limits{
			MaxURLs:        cfg.Crawl.MaxURLs,
			MaxChildLinks:  cfg.Crawl.MaxChildLinks,
			EmailThreshold: cfg.Crawl.EmailThreshold,
		},
		Logger: logger,
	}
	if cfg.Fetch.RespectRobots {
		deps.Crawler.Robots = coldemailhttp.NewRobotsAgent(httpFetcher.Client(), cfg.Fetch.UserAgent, cfg.Fetch.RobotsCacheTTL.Duration)
	}

	deps.Finder = prometheus.NewFinder(deps.Crawler, deps.Metrics)
	return nil
}

// searchProvider decorates a provider with metrics and logging.
func (m *Main) searchProvider(p coldemail.SearchProvider, deps *Dependencies) coldemail.SearchProvider {
	return ceslog.NewLoggingSearchProvider(prometheus.NewSearchProvider(p, deps.Metrics), deps.Logger)
}

func newLogger(cfg LogConfig, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	_ = level.UnmarshalText([]byte(cfg.Level))
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
