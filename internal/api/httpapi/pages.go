package httpapi

import (
	"net/http"
	"strings"

	"transcheck/internal/domain"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = s.tpl.ExecuteTemplate(w, "index.html", map[string]any{
		"ReviewEnabled": s.reviewer != nil,
	})
}

// handleReport serves the annotated HTML report for a finished run. It is the
// same document the html export produces, rendered in place.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.NotFound(w, r)
		return
	}
	if run.Status != domain.StatusDone {
		if strings.HasPrefix(run.Status, "error") {
			http.Error(w, "run failed: "+run.Status, http.StatusConflict)
			return
		}
		http.Error(w, "run not finished: "+run.Status, http.StatusConflict)
		return
	}
	exp, ok := s.exporters.Get("html")
	if !ok {
		http.Error(w, "html export unavailable", http.StatusInternalServerError)
		return
	}
	data, err := exp.Export(run)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
