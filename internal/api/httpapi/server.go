// Package httpapi exposes the upload/progress/result endpoints and the HTML
// report pages.
package httpapi

import (
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	expreg "transcheck/internal/adapters/exporter/registry"
	"transcheck/internal/ports"
	"transcheck/internal/usecase/jobs"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Server struct {
	runs       ports.RunRepository
	glossaries ports.GlossaryRepository
	runner     *jobs.Runner
	exporters  *expreg.Registry
	reviewer   ports.Reviewer
	maxUpload  int64
	tpl        *template.Template
	db         interface{ Ping() error }
}

type Deps struct {
	Runs       ports.RunRepository
	Glossaries ports.GlossaryRepository
	Runner     *jobs.Runner
	Exporters  *expreg.Registry
	Reviewer   ports.Reviewer
	MaxUpload  int64
	DB         interface{ Ping() error }
}

func NewServer(d Deps) *Server {
	return &Server{
		runs:       d.Runs,
		glossaries: d.Glossaries,
		runner:     d.Runner,
		exporters:  d.Exporters,
		reviewer:   d.Reviewer,
		maxUpload:  d.MaxUpload,
		tpl:        template.Must(template.ParseFS(templatesFS, "templates/*.html")),
		db:         d.DB,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/runs", s.handleListRuns)
	mux.HandleFunc("GET /api/runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /api/runs/{id}/progress", s.handleProgress)
	mux.HandleFunc("GET /api/runs/{id}/export/{format}", s.handleExport)
	mux.HandleFunc("DELETE /api/runs/{id}", s.handleDeleteRun)
	mux.HandleFunc("POST /api/glossaries", s.handleSaveGlossary)
	mux.HandleFunc("GET /api/glossaries", s.handleListGlossaries)
	mux.HandleFunc("GET /api/glossaries/{name}", s.handleGetGlossary)
	mux.HandleFunc("DELETE /api/glossaries/{name}", s.handleDeleteGlossary)
	mux.HandleFunc("GET /report/{id}", s.handleReport)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return logRequests(mux)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("http request", "method", r.Method, "path", r.URL.Path, "duration_ms", time.Since(start).Milliseconds())
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(); err != nil {
			writeError(w, http.StatusServiceUnavailable, "db: "+err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"review_configured": s.reviewer != nil,
	})
}
