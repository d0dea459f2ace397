package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sheetsprojectsofficial/coldemail"
)

// Server defaults.
const (
	DefaultShutdownTimeout = 10 * time.Second
	maxRequestBodyBytes    = 1 << 20
	defaultReportsLimit    = 50
)

// endpoints are listed by the test endpoint.
var endpoints = []string{
	"POST /cold-email/search-urls",
	"POST /cold-email/extract-from-url",
	"POST /cold-email/scrape",
	"POST /cold-email/search",
	"GET /cold-email/test",
	"GET /cold-email/reports",
	"GET /cold-email/reports/{id}",
}

// Server exposes an EmailFinder over a JSON API.
type Server struct {
	ln     net.Listener
	server *http.Server
	mux    *http.ServeMux

	// Addr is the bind address, e.g. ":8080".
	Addr string

	Finder coldemail.EmailFinder
	// Reports stores company reports when set.
	Reports coldemail.ReportService
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	Logger  *slog.Logger
}

// NewServer returns a new Server. Dependencies are assigned by the caller
// before Open.
func NewServer() *Server {
	s := &Server{
		server: &http.Server{ReadHeaderTimeout: 10 * time.Second},
		mux:    http.NewServeMux(),
	}
	s.server.Handler = s

	s.mux.HandleFunc("POST /cold-email/search-urls", s.handleSearchURLs)
	s.mux.HandleFunc("POST /cold-email/extract-from-url", s.handleExtractFromURL)
	s.mux.HandleFunc("POST /cold-email/scrape", s.handleScrape)
	s.mux.HandleFunc("POST /cold-email/search", s.handleScrape)
	s.mux.HandleFunc("GET /cold-email/test", s.handleTest)
	s.mux.HandleFunc("GET /cold-email/reports", s.handleReports)
	s.mux.HandleFunc("GET /cold-email/reports/{id}", s.handleReport)
	s.mux.HandleFunc("GET /metrics", s.handleMetrics)
	return s
}

// Open begins listening on Addr and serves requests in the background.
func (s *Server) Open() (err error) {
	if s.Finder == nil {
		return coldemail.Errorf(coldemail.EINTERNAL, "server requires an email finder")
	}
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr, err)
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger().Error("server stopped", "err", err)
		}
	}()
	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close(ctx context.Context) error {
	if s.ln == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// URL returns the local base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// ServeHTTP satisfies the http.Handler interface and logs each request.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.logger().Info("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start),
	)
}

type companyRequest struct {
	CompanyName string `json:"companyName"`
}

type urlRequest struct {
	URL string `json:"url"`
}

// urlItem is one entry of the search-urls response.
type urlItem struct {
	ID         int              `json:"id"`
	URL        string           `json:"url"`
	Status     string           `json:"status"`
	DisplayURL string           `json:"displayUrl"`
	Source     coldemail.Source `json:"source"`
}

func (s *Server) handleSearchURLs(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if isBlank(req.CompanyName) {
		s.writeError(w, r, coldemail.Errorf(coldemail.EINVALID, "companyName is required"))
		return
	}

	candidates, err := s.Finder.SearchURLs(r.Context(), req.CompanyName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	urls := make([]urlItem, len(candidates))
	for i, c := range candidates {
		urls[i] = urlItem{
			ID:         i + 1,
			URL:        c.URL,
			Status:     "pending",
			DisplayURL: coldemail.DisplayURL(c.URL),
			Source:     c.Source,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"company":   req.CompanyName,
		"urls":      urls,
		"totalUrls": len(urls),
	})
}

func (s *Server) handleExtractFromURL(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if isBlank(req.URL) {
		s.writeError(w, r, coldemail.Errorf(coldemail.EINVALID, "url is required"))
		return
	}

	report, err := s.Finder.ExtractFromURL(r.Context(), req.URL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"url":           report.URL,
		"emails":        report.Emails,
		"totalEmails":   len(report.Emails),
		"processedUrls": report.ProcessedURLCount,
	})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if isBlank(req.CompanyName) {
		s.writeError(w, r, coldemail.Errorf(coldemail.EINVALID, "companyName is required"))
		return
	}

	report, err := s.Finder.FindCompanyEmails(r.Context(), req.CompanyName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if s.Reports != nil {
		if err := s.Reports.CreateReport(r.Context(), report); err != nil {
			s.logger().Warn("report not stored", "company", report.Company, "err", err)
		}
	}

	resp := map[string]any{
		"success":       report.Status != coldemail.StatusError,
		"company":       report.Company,
		"emails":        report.Emails,
		"processedUrls": report.ProcessedURLCount,
		"status":        report.Status,
		"totalEmails":   len(report.Emails),
	}
	if report.ID != "" {
		resp["reportId"] = report.ID
	}
	if report.Error != "" {
		resp["error"] = report.Error
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTest(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Cold email service is operational",
		"timestamp": time.Now().UTC(),
		"endpoints": endpoints,
	})
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if s.Reports == nil {
		s.writeError(w, r, coldemail.Errorf(coldemail.ENOTFOUND, "report storage is not configured"))
		return
	}

	filter, err := parseReportFilter(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	reports, err := s.Reports.FindReports(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if reports == nil {
		reports = []*coldemail.CompanyReport{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"reports": reports,
		"total":   len(reports),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.Reports == nil {
		s.writeError(w, r, coldemail.Errorf(coldemail.ENOTFOUND, "report storage is not configured"))
		return
	}

	report, err := s.Reports.FindReportByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"report":  report,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.Metrics == nil {
		http.NotFound(w, r)
		return
	}
	s.Metrics.ServeHTTP(w, r)
}

func parseReportFilter(r *http.Request) (coldemail.ReportFilter, error) {
	q := r.URL.Query()
	filter := coldemail.ReportFilter{Limit: defaultReportsLimit}

	if v := q.Get("company"); v != "" {
		filter.Company = &v
	}
	if v := q.Get("status"); v != "" {
		status := coldemail.Status(v)
		filter.Status = &status
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, coldemail.Errorf(coldemail.EINVALID, "invalid limit %q", v)
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, coldemail.Errorf(coldemail.EINVALID, "invalid offset %q", v)
		}
		filter.Offset = n
	}
	return filter, nil
}

// writeError writes err as {success:false, error}. Validation errors map
// to 400 and missing resources to 404; everything else is a 500 whose
// message is logged and hidden from the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := coldemail.ErrorCode(err), coldemail.ErrorMessage(err)

	status := http.StatusInternalServerError
	switch code {
	case coldemail.EINVALID:
		status = http.StatusBadRequest
	case coldemail.ENOTFOUND:
		status = http.StatusNotFound
	default:
		s.logger().Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return coldemail.Errorf(coldemail.EINVALID, "invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
