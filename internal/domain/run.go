package domain

import "time"

// Severity tiers for reported issues.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Run statuses. Error states use "error: <reason>".
const (
	StatusQueued  = "queued"
	StatusRunning = "running"
	StatusDone    = "done"
)

// Analysis modes.
const (
	ModeChecks = "checks"
	ModeReview = "review"
)

// Segment is one aligned source/target pair. Indices start at 1 and are
// stable for the lifetime of the run.
type Segment struct {
	Index  int    `json:"segment"`
	Source string `json:"src"`
	Target string `json:"tgt"`
}

// Issue is a single finding against a segment. Never mutated after creation.
type Issue struct {
	Type     string         `json:"type"`
	Severity string         `json:"severity"`
	Segment  int            `json:"segment"`
	Source   string         `json:"src"`
	Target   string         `json:"tgt"`
	Detail   map[string]any `json:"detail,omitempty"`
}

// Summary aggregates issue counts per severity. Counts always equal the
// number of issues carrying that severity.
type Summary struct {
	Segments int `json:"segments"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Run is one upload-and-analyze session.
type Run struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	Note      string    `json:"note,omitempty"`
	Summary   Summary   `json:"summary"`
	Issues    []Issue   `json:"issues"`
	Segments  []Segment `json:"segments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summarize recounts issues per severity.
func Summarize(segments int, issues []Issue) Summary {
	s := Summary{Segments: segments}
	for _, it := range issues {
		switch it.Severity {
		case SeverityHigh:
			s.High++
		case SeverityMedium:
			s.Medium++
		default:
			s.Low++
		}
	}
	return s
}

// TopSeverity returns the highest severity among issues, or "" when empty.
func TopSeverity(issues []Issue) string {
	top := ""
	for _, it := range issues {
		switch it.Severity {
		case SeverityHigh:
			return SeverityHigh
		case SeverityMedium:
			top = SeverityMedium
		case SeverityLow:
			if top == "" {
				top = SeverityLow
			}
		}
	}
	return top
}
