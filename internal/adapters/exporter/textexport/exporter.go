package textexport

import (
	"bytes"

	"transcheck/internal/domain"
)

// Exporter writes the plain target segments, one per line, for downstream
// editing.
type Exporter struct{}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) Format() string { return "txt" }

func (e *Exporter) ContentType() string { return "text/plain; charset=utf-8" }

func (e *Exporter) Export(run *domain.Run) ([]byte, error) {
	var buf bytes.Buffer
	for _, seg := range run.Segments {
		buf.WriteString(seg.Target)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
