// Package align splits extracted text into sentence segments and pairs
// source with target positionally. No reordering, no DP aligner: position i
// maps to position i.
package align

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"transcheck/internal/domain"
)

// Sentence boundary: terminal punctuation followed by whitespace. The
// original split used a lookbehind; RE2 has none, so the terminator is kept
// in the capture and reattached.
var sentenceRE = regexp.MustCompile(`([.!?。؟])[\s\x{00A0}]+`)

// SplitSentences breaks text into trimmed, NFC-normalized sentences.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" {
		return nil
	}
	withBreaks := sentenceRE.ReplaceAllString(text, "$1\n")
	var out []string
	for _, part := range strings.Split(withBreaks, "\n") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Result is the aligned segment list plus a coverage note when the two sides
// had different segment counts.
type Result struct {
	Segments []domain.Segment
	Note     string
}

// Align pairs source and target sentences 1:1 by position. When counts
// differ the longer side is truncated and the caveat recorded in Note.
func Align(srcText, tgtText string) Result {
	src := SplitSentences(srcText)
	tgt := SplitSentences(tgtText)
	n := len(src)
	if len(tgt) < n {
		n = len(tgt)
	}
	segments := make([]domain.Segment, 0, n)
	for i := 0; i < n; i++ {
		segments = append(segments, domain.Segment{Index: i + 1, Source: src[i], Target: tgt[i]})
	}
	var note string
	if len(src) != len(tgt) {
		note = fmt.Sprintf("segment counts differ: aligned %d of %d source / %d target segments", n, len(src), len(tgt))
	}
	return Result{Segments: segments, Note: note}
}
