package htmldoc

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Format() string { return "html" }

// Extract runs readability over an uploaded HTML document and returns the
// main text content. Falls back to the raw text when readability finds
// nothing usable (e.g. a fragment without body structure).
func (e *Extractor) Extract(data []byte) (string, error) {
	u, _ := url.Parse("file:///upload.html")
	article, err := readability.FromReader(bytes.NewReader(data), u)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return strings.TrimSpace(stripTags(string(data))), nil
	}
	return text, nil
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteByte(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
