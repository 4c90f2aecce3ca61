// Package server serves a generated HTML report and its summary over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/pthm/issuesreport/internal/report"
	"github.com/pthm/issuesreport/internal/reporter"
)

// Options configures the server
type Options struct {
	Addr string
	// ReportDir holds the HTML report files
	ReportDir string
	// Index is the report file "/" redirects to
	Index string
}

// Server serves one built report
type Server struct {
	*http.Server
	report *report.Report
}

// New creates a server for rep. rep may be nil when only the report
// directory is served.
func New(ctx context.Context, opts Options, rep *report.Report) (*Server, error) {
	if opts.ReportDir != "" {
		if info, err := os.Stat(opts.ReportDir); err != nil || !info.IsDir() {
			return nil, goerr.New("report directory not found", goerr.V("dir", opts.ReportDir))
		}
	}

	s := &Server{report: rep}
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(loggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", handleHealth)
	router.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/files/*", s.handleFile)
	})

	if opts.ReportDir != "" {
		if opts.Index != "" {
			router.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/"+opts.Index, http.StatusFound)
			})
		}
		router.Handle("/*", http.FileServer(http.Dir(opts.ReportDir)))
	}

	s.Server = &http.Server{
		Addr:              opts.Addr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
	}
	return s, nil
}

func loggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = r.WithContext(ctxlog.With(r.Context(), ctxlog.From(ctx)))
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			ctxlog.From(r.Context()).Debug("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.report == nil {
		writeError(w, r, goerr.New("no report available"), http.StatusNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, reporter.Output(s.report))
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	if s.report == nil {
		writeError(w, r, goerr.New("no report available"), http.StatusNotFound)
		return
	}

	name := chi.URLParam(r, "*")
	for _, file := range reporter.Output(s.report).Files {
		if file.Name == name {
			writeJSON(w, r, http.StatusOK, file)
			return
		}
	}
	writeError(w, r, goerr.New("file not in report", goerr.V("name", name)), http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error, status int) {
	writeJSON(w, r, status, map[string]string{"error": err.Error()})
}
