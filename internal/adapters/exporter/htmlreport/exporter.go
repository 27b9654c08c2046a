// Package htmlreport renders the annotated translation: each target segment
// as a paragraph, highlighted by its top issue severity, with the issue
// notes listed underneath.
package htmlreport

import (
	"bytes"
	"html/template"

	"transcheck/internal/domain"
)

type Exporter struct {
	tpl *template.Template
}

func New() *Exporter {
	return &Exporter{tpl: template.Must(template.New("annotated").Parse(annotatedTemplate))}
}

func (e *Exporter) Format() string { return "html" }

func (e *Exporter) ContentType() string { return "text/html; charset=utf-8" }

type annotatedSegment struct {
	Index    int
	Target   string
	Severity string
	Issues   []domain.Issue
}

func (e *Exporter) Export(run *domain.Run) ([]byte, error) {
	bySegment := map[int][]domain.Issue{}
	for _, it := range run.Issues {
		bySegment[it.Segment] = append(bySegment[it.Segment], it)
	}
	segs := make([]annotatedSegment, 0, len(run.Segments))
	for _, seg := range run.Segments {
		issues := bySegment[seg.Index]
		segs = append(segs, annotatedSegment{
			Index:    seg.Index,
			Target:   seg.Target,
			Severity: domain.TopSeverity(issues),
			Issues:   issues,
		})
	}
	var buf bytes.Buffer
	err := e.tpl.Execute(&buf, map[string]any{
		"RunID":    run.ID,
		"Summary":  run.Summary,
		"Note":     run.Note,
		"Segments": segs,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const annotatedTemplate = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Annotated translation {{.RunID}}</title>
<style>
body { font-family: Georgia, serif; max-width: 50rem; margin: 2rem auto; line-height: 1.5; }
.high { background: #ffe08a; }
.medium { background: #c8f2c0; }
.low { background: #e2e2e2; }
ul.issues { font-size: 0.85rem; color: #555; }
.note { color: #946200; font-style: italic; }
</style>
</head>
<body>
<h1>Annotated translation</h1>
<p>Segments: {{.Summary.Segments}} · high: {{.Summary.High}} · medium: {{.Summary.Medium}} · low: {{.Summary.Low}}</p>
{{if .Note}}<p class="note">{{.Note}}</p>{{end}}
{{range .Segments}}
<p{{if .Severity}} class="{{.Severity}}"{{end}}>{{.Target}}{{if .Issues}} <small>[{{range $i, $it := .Issues}}{{if $i}}, {{end}}{{$it.Type}}{{end}}]</small>{{end}}</p>
{{if .Issues}}<ul class="issues">
{{range .Issues}}<li>Segment {{.Segment}} — {{.Type}} ({{.Severity}}){{with .Detail.evidence}}: {{.}}{{end}}{{with .Detail.suggestion}} | Suggestion: {{.}}{{end}}</li>
{{end}}</ul>{{end}}
{{end}}
</body>
</html>
`
