package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"transcheck/internal/domain"
	"transcheck/internal/usecase/jobs"
)

type analyzeResponse struct {
	RunID string `json:"run_id"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", s.maxUpload))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	origName, orig, err := readUpload(r, "original")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	transName, trans, err := readUpload(r, "translation")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mode := strings.TrimSpace(r.FormValue("mode"))
	switch mode {
	case "", domain.ModeChecks, domain.ModeReview:
	default:
		writeError(w, http.StatusBadRequest, "mode must be \"checks\" or \"review\"")
		return
	}
	glossary, err := s.resolveGlossary(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	runID, err := s.runner.Start(r.Context(), jobs.StartParams{
		Mode:            mode,
		OriginalName:    origName,
		Original:        orig,
		TranslationName: transName,
		Translation:     trans,
		Glossary:        glossary,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, analyzeResponse{RunID: runID})
}

func readUpload(r *http.Request, field string) (string, []byte, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, fmt.Errorf("missing %q file", field)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("read %q file: %w", field, err)
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("%q file is empty", field)
	}
	return header.Filename, data, nil
}

// resolveGlossary reads an uploaded glossary CSV or loads a saved glossary by
// name. An uploaded file wins when both are present.
func (s *Server) resolveGlossary(r *http.Request) ([]domain.GlossaryEntry, error) {
	if file, _, err := r.FormFile("glossary"); err == nil {
		defer file.Close()
		entries, err := parseGlossaryCSV(file)
		if err != nil {
			return nil, fmt.Errorf("glossary file: %w", err)
		}
		return entries, nil
	}
	name := strings.TrimSpace(r.FormValue("glossary_name"))
	if name == "" {
		name = strings.TrimSpace(r.FormValue("glossary"))
	}
	if name == "" {
		return nil, nil
	}
	g, err := s.glossaries.Get(r.Context(), name)
	if err != nil {
		return nil, fmt.Errorf("load glossary: %w", err)
	}
	if g == nil {
		return nil, fmt.Errorf("glossary %q not found", name)
	}
	return g.Entries, nil
}

type progressResponse struct {
	Percent int    `json:"percent"`
	Status  string `json:"status"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, progressResponse{Percent: run.Progress, Status: run.Status})
}

type resultResponse struct {
	ID      string            `json:"id"`
	Mode    string            `json:"mode"`
	Status  string            `json:"status"`
	Note    string            `json:"note,omitempty"`
	Summary domain.Summary    `json:"summary"`
	Issues  []domain.Issue    `json:"issues"`
	Links   map[string]string `json:"links"`
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if run.Status != domain.StatusDone && !strings.HasPrefix(run.Status, "error") {
		writeError(w, http.StatusConflict, "run not finished: "+run.Status)
		return
	}
	links := map[string]string{"report": "/report/" + run.ID}
	for _, f := range s.exporters.Formats() {
		links[f] = "/api/runs/" + run.ID + "/export/" + f
	}
	issues := run.Issues
	if issues == nil {
		issues = []domain.Issue{}
	}
	writeJSON(w, http.StatusOK, resultResponse{
		ID:      run.ID,
		Mode:    run.Mode,
		Status:  run.Status,
		Note:    run.Note,
		Summary: run.Summary,
		Issues:  issues,
		Links:   links,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	exp, ok := s.exporters.Get(r.PathValue("format"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown export format")
		return
	}
	run, err := s.runs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if run.Status != domain.StatusDone {
		writeError(w, http.StatusConflict, "run not finished: "+run.Status)
		return
	}
	data, err := exp.Export(run)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", exp.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "report-"+run.ID+"."+exp.Format()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type runListItem struct {
	ID        string         `json:"id"`
	Mode      string         `json:"mode"`
	Status    string         `json:"status"`
	Progress  int            `json:"progress"`
	Summary   domain.Summary `json:"summary"`
	CreatedAt string         `json:"created_at"`
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.runs.List(r.Context(), 100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	items := make([]runListItem, 0, len(runs))
	for _, run := range runs {
		items = append(items, runListItem{
			ID:        run.ID,
			Mode:      run.Mode,
			Status:    run.Status,
			Progress:  run.Progress,
			Summary:   run.Summary,
			CreatedAt: run.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": items})
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	run, err := s.runs.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err := s.runs.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.runner.RemoveRunDir(id)
	w.WriteHeader(http.StatusNoContent)
}
