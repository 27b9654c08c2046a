package csvreport

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"

	"transcheck/internal/domain"
)

// Exporter renders one CSV row per issue.
type Exporter struct{}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) Format() string { return "csv" }

func (e *Exporter) ContentType() string { return "text/csv; charset=utf-8" }

func (e *Exporter) Export(run *domain.Run) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"segment", "type", "severity", "source", "target", "detail"})
	for _, it := range run.Issues {
		detail := ""
		if len(it.Detail) > 0 {
			if b, err := json.Marshal(it.Detail); err == nil {
				detail = string(b)
			}
		}
		_ = w.Write([]string{strconv.Itoa(it.Segment), it.Type, it.Severity, it.Source, it.Target, detail})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
