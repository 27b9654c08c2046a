package registry

import "transcheck/internal/ports"

type Registry struct {
	byFormat map[string]ports.ReportExporter
}

func New() *Registry { return &Registry{byFormat: map[string]ports.ReportExporter{}} }

func (r *Registry) Register(e ports.ReportExporter) { r.byFormat[e.Format()] = e }

func (r *Registry) Get(format string) (ports.ReportExporter, bool) {
	e, ok := r.byFormat[format]
	return e, ok
}

func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.byFormat))
	for f := range r.byFormat {
		out = append(out, f)
	}
	return out
}
