package httpapi

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"transcheck/internal/domain"
)

// parseGlossaryCSV reads term,translation rows. A "term,translation" header
// row is skipped when present. Rows with a blank term are ignored.
func parseGlossaryCSV(r io.Reader) ([]domain.GlossaryEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	var entries []domain.GlossaryEntry
	for i := 0; ; i++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if len(rec) < 2 {
			continue
		}
		term := strings.TrimSpace(rec[0])
		translation := strings.TrimSpace(rec[1])
		if term == "" {
			continue
		}
		if i == 0 && strings.EqualFold(term, "term") && strings.EqualFold(translation, "translation") {
			continue
		}
		entries = append(entries, domain.GlossaryEntry{Term: term, Translation: translation})
	}
	if len(entries) == 0 {
		return nil, errors.New("no entries")
	}
	return entries, nil
}

func (s *Server) handleSaveGlossary(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing glossary name")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing glossary file")
		return
	}
	defer file.Close()
	entries, err := parseGlossaryCSV(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "glossary file: "+err.Error())
		return
	}
	g := &domain.Glossary{Name: name, Entries: entries}
	if err := s.glossaries.Upsert(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"name": name, "entries": len(entries)})
}

func (s *Server) handleListGlossaries(w http.ResponseWriter, r *http.Request) {
	list, err := s.glossaries.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	type item struct {
		Name    string `json:"name"`
		Entries int    `json:"entries"`
	}
	items := make([]item, 0, len(list))
	for _, g := range list {
		items = append(items, item{Name: g.Name, Entries: len(g.Entries)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"glossaries": items})
}

func (s *Server) handleGetGlossary(w http.ResponseWriter, r *http.Request) {
	g, err := s.glossaries.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if g == nil {
		writeError(w, http.StatusNotFound, "glossary not found")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleDeleteGlossary(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	g, err := s.glossaries.Get(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if g == nil {
		writeError(w, http.StatusNotFound, "glossary not found")
		return
	}
	if err := s.glossaries.Delete(r.Context(), name); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
