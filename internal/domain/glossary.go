package domain

import "time"

// GlossaryEntry maps a source term to its preferred translation.
type GlossaryEntry struct {
	Term        string `json:"term"`
	Translation string `json:"translation"`
}

// Glossary is a named, reusable term mapping.
type Glossary struct {
	Name      string          `json:"name"`
	Entries   []GlossaryEntry `json:"entries"`
	UpdatedAt time.Time       `json:"updated_at"`
}
