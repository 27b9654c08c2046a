package plaintext

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Format() string { return "txt" }

// Extract reads the document as UTF-8 text, stripping a BOM and replacing
// invalid byte sequences so a badly encoded upload degrades instead of failing.
func (e *Extractor) Extract(data []byte) (string, error) {
	data = stripBOM(data)
	if utf8.Valid(data) {
		return string(data), nil
	}
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			data = data[1:]
			continue
		}
		b.WriteRune(r)
		data = data[size:]
	}
	return b.String(), nil
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
