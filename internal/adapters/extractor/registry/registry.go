package registry

import (
	"path/filepath"
	"strings"

	"transcheck/internal/ports"
)

// Registry maps document formats to extractors. Unknown extensions fall
// back to the plain-text extractor when one is registered under "txt".
type Registry struct {
	byFormat map[string]ports.Extractor
	aliases  map[string]string
}

func New() *Registry {
	return &Registry{
		byFormat: map[string]ports.Extractor{},
		aliases: map[string]string{
			"":    "txt",
			"md":  "txt",
			"htm": "html",
		},
	}
}

func (r *Registry) Register(e ports.Extractor) { r.byFormat[e.Format()] = e }

func (r *Registry) Get(format string) (ports.Extractor, bool) {
	f := strings.ToLower(strings.TrimSpace(format))
	if alias, ok := r.aliases[f]; ok {
		f = alias
	}
	e, ok := r.byFormat[f]
	return e, ok
}

// ForFilename resolves an extractor from a file name's extension, falling
// back to plain text for unrecognized extensions.
func (r *Registry) ForFilename(name string) (ports.Extractor, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if e, ok := r.Get(ext); ok {
		return e, true
	}
	e, ok := r.byFormat["txt"]
	return e, ok
}
