package checks

import (
	"regexp"
	"strings"
)

var (
	nameTokenRE = regexp.MustCompile(`\p{L}[\p{L}\-']*`)
	titleCaseRE = regexp.MustCompile(`^\p{Lu}\p{Ll}+$`)
	allCapsRE   = regexp.MustCompile(`^\p{Lu}{2,}$`)
)

// extractNameSpans returns multi-token Title-Case runs ("Marie Curie");
// single capitalized words are too noisy (sentence starts) and ALLCAPS
// tokens (acronyms) are dropped from a run.
func extractNameSpans(text string) []string {
	if text == "" {
		return nil
	}
	var spans [][]string
	var cur []string
	for _, tok := range nameTokenRE.FindAllString(text, -1) {
		if titleCaseRE.MatchString(tok) {
			cur = append(cur, tok)
			continue
		}
		if len(cur) >= 2 {
			spans = append(spans, cur)
		}
		cur = nil
	}
	if len(cur) >= 2 {
		spans = append(spans, cur)
	}
	var out []string
	for _, grp := range spans {
		kept := grp[:0:0]
		for _, t := range grp {
			if !allCapsRE.MatchString(t) {
				kept = append(kept, t)
			}
		}
		if len(kept) >= 2 {
			out = append(out, strings.Join(kept, " "))
		}
	}
	return out
}

// nameMatch pairs a source name with its closest fuzzy counterpart in the target.
type nameMatch struct {
	Source string
	Target string
	Score  float64 // percentage, 0..100
}

// findNameTypos reports source names missing verbatim from the target but
// with a near match there, which usually means the name was mistyped in the
// translation.
func findNameTypos(src, tgt string, threshold float64) []nameMatch {
	srcNames := extractNameSpans(src)
	if len(srcNames) == 0 {
		return nil
	}
	tgtNames := extractNameSpans(tgt)
	var out []nameMatch
	for _, sn := range srcNames {
		if strings.Contains(tgt, sn) {
			continue
		}
		best, bestScore := "", 0.0
		for _, tn := range tgtNames {
			if sc := Ratio(sn, tn) * 100; sc > bestScore {
				best, bestScore = tn, sc
			}
		}
		if bestScore >= threshold {
			out = append(out, nameMatch{Source: sn, Target: best, Score: bestScore})
		}
	}
	return out
}
