// Package checks implements the deterministic QA pipeline: each check is a
// pure function over one aligned segment, tolerant of malformed input. A
// segment a check cannot parse yields no issue from that check.
package checks

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"transcheck/internal/domain"
)

// Options tunes the checks. Zero value is not usable; take Defaults() and
// override.
type Options struct {
	UntranslatedThreshold float64
	RatioMinFactor        float64
	RatioMaxFactor        float64
	RatioFallbackMin      float64
	RatioFallbackMax      float64
	NameScoreThreshold    float64
	Grouping              GroupingMode
}

func Defaults() Options {
	return Options{
		UntranslatedThreshold: 0.90,
		RatioMinFactor:        0.5,
		RatioMaxFactor:        2.0,
		RatioFallbackMin:      0.5,
		RatioFallbackMax:      2.0,
		NameScoreThreshold:    80,
		Grouping:              GroupingIsGrouping,
	}
}

// minimum nonempty pairs before the corpus mean is trusted for the
// length-ratio band
const ratioCorpusMin = 5

var extraSpaceRE = regexp.MustCompile(`[\s\x{00A0}]{2,}`)

const doublablePunct = "!?.,:;"

// Run executes every check over the aligned segments and returns the issues
// in segment order. A panic inside one segment's checks is recovered and
// logged; remaining segments still run.
func Run(segments []domain.Segment, glossary []domain.GlossaryEntry, opts Options) []domain.Issue {
	ratioMin, ratioMax := ratioBand(segments, opts)
	var issues []domain.Issue
	for _, seg := range segments {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("segment check panic", "segment", seg.Index, "panic", r)
				}
			}()
			issues = append(issues, checkSegment(seg, glossary, opts, ratioMin, ratioMax)...)
		}()
	}
	return issues
}

func checkSegment(seg domain.Segment, glossary []domain.GlossaryEntry, opts Options, ratioMin, ratioMax float64) []domain.Issue {
	var issues []domain.Issue
	add := func(typ, severity string, detail map[string]any) {
		issues = append(issues, domain.Issue{
			Type: typ, Severity: severity, Segment: seg.Index,
			Source: seg.Source, Target: seg.Target, Detail: detail,
		})
	}

	srcNums, srcDates := ExtractNumbersDates(seg.Source, opts.Grouping)
	tgtNums, tgtDates := ExtractNumbersDates(seg.Target, opts.Grouping)
	if !sameMultiset(srcNums, tgtNums) {
		add("number_mismatch", domain.SeverityHigh, map[string]any{"src": srcNums, "tgt": tgtNums})
	}
	if !sameSet(srcDates, tgtDates) {
		add("date_mismatch", domain.SeverityHigh, map[string]any{"src": srcDates, "tgt": tgtDates})
	}

	if seg.Source != "" && seg.Target != "" {
		if sim := PartialRatio(seg.Source, seg.Target); sim >= opts.UntranslatedThreshold {
			add("possibly_untranslated", domain.SeverityMedium, map[string]any{"similarity": round2(sim)})
		}
	}

	if seg.Source != "" {
		ratio := float64(utf8.RuneCountInString(seg.Target)) / float64(max(1, utf8.RuneCountInString(seg.Source)))
		if ratio < ratioMin || ratio > ratioMax {
			add("length_ratio", domain.SeverityLow, map[string]any{"ratio": round2(ratio)})
		}
	}

	// one orthography issue per segment per pattern, not per occurrence
	if seg.Target != "" && extraSpaceRE.MatchString(seg.Target) {
		add("orthography_extra_spaces", domain.SeverityLow, nil)
	}
	if rep := firstDoubledPunct(seg.Target); rep != "" {
		add("orthography_double_punctuation", domain.SeverityLow, map[string]any{"found": rep})
	}

	for _, m := range findNameTypos(seg.Source, seg.Target, opts.NameScoreThreshold) {
		add("name_possible_typo", domain.SeverityMedium, map[string]any{
			"source_name": m.Source, "target_near": m.Target, "score": round2(m.Score),
		})
	}

	issues = append(issues, checkGlossary(seg, glossary)...)
	return issues
}

// ratioBand derives the expected target/source length band from the corpus
// mean ratio, with a fixed fallback when the corpus is too small.
func ratioBand(segments []domain.Segment, opts Options) (float64, float64) {
	var sum float64
	var n int
	for _, seg := range segments {
		if seg.Source == "" || seg.Target == "" {
			continue
		}
		sum += float64(utf8.RuneCountInString(seg.Target)) / float64(utf8.RuneCountInString(seg.Source))
		n++
	}
	if n < ratioCorpusMin {
		return opts.RatioFallbackMin, opts.RatioFallbackMax
	}
	mean := sum / float64(n)
	return mean * opts.RatioMinFactor, mean * opts.RatioMaxFactor
}

// firstDoubledPunct returns the first repeated punctuation run ("!!", "..")
// in the target, or "".
func firstDoubledPunct(s string) string {
	var prev rune
	count := 0
	for _, r := range s {
		if r == prev && strings.ContainsRune(doublablePunct, r) {
			count++
			if count == 1 {
				return string([]rune{r, r})
			}
		} else {
			count = 0
		}
		prev = r
	}
	return ""
}

func checkGlossary(seg domain.Segment, glossary []domain.GlossaryEntry) []domain.Issue {
	var issues []domain.Issue
	srcLower := strings.ToLower(seg.Source)
	tgtLower := strings.ToLower(seg.Target)
	for _, e := range glossary {
		term := strings.ToLower(strings.TrimSpace(e.Term))
		want := strings.ToLower(strings.TrimSpace(e.Translation))
		if term == "" || want == "" {
			continue
		}
		if !containsWord(srcLower, term) {
			continue
		}
		if strings.Contains(tgtLower, want) {
			continue
		}
		issues = append(issues, domain.Issue{
			Type: "glossary_missing_term", Severity: domain.SeverityMedium, Segment: seg.Index,
			Source: seg.Source, Target: seg.Target,
			Detail: map[string]any{"term": e.Term, "expected": e.Translation},
		})
	}
	return issues
}

// containsWord is a word-bounded substring check; multi-word terms fall back
// to plain containment.
func containsWord(haystack, term string) bool {
	if strings.ContainsAny(term, " -") {
		return strings.Contains(haystack, term)
	}
	idx := 0
	for {
		i := strings.Index(haystack[idx:], term)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(term)
		if !isWordRune(runeBefore(haystack, start)) && !isWordRune(runeAt(haystack, end)) {
			return true
		}
		idx = start + 1
		if idx >= len(haystack) {
			return false
		}
	}
}

func sameMultiset(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func sameSet(a, b []string) bool {
	am := map[string]struct{}{}
	for _, v := range a {
		am[v] = struct{}{}
	}
	bm := map[string]struct{}{}
	for _, v := range b {
		bm[v] = struct{}{}
	}
	if len(am) != len(bm) {
		return false
	}
	for v := range am {
		if _, ok := bm[v]; !ok {
			return false
		}
	}
	return true
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
