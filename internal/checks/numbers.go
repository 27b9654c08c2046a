package checks

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matches locale-formatted numeric tokens: grouped forms like 1,250.50 and
// 1.250,50 (comma, dot, space or NBSP grouping) as well as bare integers and
// decimals. Word boundaries are enforced separately since RE2 has no
// lookaround.
var numberRE = regexp.MustCompile(`[+-]?(?:\d{1,3}(?:[.,\s\x{00A0}]\d{3})*(?:[.,]\d+)?|\d+(?:[.,]\d+)?)`)

var currencyRE = regexp.MustCompile(`(?i)(?:USD|EUR|GBP|PKR|AUD|CAD|JPY|CNY|INR|SAR|AED|[$€£¥₹])\s*`)

// GroupingMode decides how a lone three-digit group with no other separator
// is read: "1.250" is 1250 under GroupingIsGrouping and 1.25 under
// GroupingIsDecimal.
type GroupingMode string

const (
	GroupingIsGrouping GroupingMode = "grouping"
	GroupingIsDecimal  GroupingMode = "decimal"
)

type numberSpan struct {
	start, end int
	raw        string
}

// findNumbers returns numeric token spans in text, excluding tokens glued to
// word characters (part numbers, identifiers).
func findNumbers(text string) []numberSpan {
	var out []numberSpan
	for _, loc := range numberRE.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if isWordRune(runeBefore(text, start)) || isWordRune(runeAt(text, end)) {
			continue
		}
		out = append(out, numberSpan{start: start, end: end, raw: text[start:end]})
	}
	return out
}

func runeBefore(s string, idx int) rune {
	if idx <= 0 {
		return 0
	}
	r, _ := utf8.DecodeLastRuneInString(s[:idx])
	return r
}

func runeAt(s string, idx int) rune {
	if idx >= len(s) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s[idx:])
	return r
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// NormalizeDigits maps unicode decimal digits (Arabic-Indic, Devanagari, ...)
// to their ASCII equivalents.
func NormalizeDigits(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.Is(unicode.Nd, r) && (r < '0' || r > '9') {
			if v, ok := digitValue(r); ok {
				b.WriteRune(rune('0' + v))
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func digitValue(r rune) (int, bool) {
	if r <= 0xFFFF {
		for _, rng := range unicode.Nd.R16 {
			if uint16(r) >= rng.Lo && uint16(r) <= rng.Hi {
				return int((uint16(r) - rng.Lo) / rng.Stride % 10), true
			}
		}
	}
	for _, rng := range unicode.Nd.R32 {
		if uint32(r) >= rng.Lo && uint32(r) <= rng.Hi {
			return int((uint32(r) - rng.Lo) / rng.Stride % 10), true
		}
	}
	return 0, false
}

// NormalizeAmount canonicalizes a raw numeric token to "<int>" or
// "<int>.<frac>". The rightmost dot or comma is the decimal separator;
// everything else is grouping. A single separator followed by exactly three
// digits is ambiguous and resolved by mode.
func NormalizeAmount(raw string, mode GroupingMode) string {
	s := NormalizeDigits(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", " ")
	s = currencyRE.ReplaceAllString(s, "")
	var kept strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			kept.WriteRune(r)
		}
	}
	s = kept.String()
	if s == "" {
		return ""
	}
	lastSep := strings.LastIndexAny(s, ".,")
	if lastSep == -1 {
		return s
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '.' || r == ',' })
	seps := make([]byte, 0, 2)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == ',' {
			seps = append(seps, s[i])
		}
	}
	if allThreeDigitGroups(parts) {
		switch {
		case len(seps) == 1 && mode == GroupingIsGrouping:
			// 1.250 / 1,250 with no second separator reads as grouping
			return stripSeparators(s)
		case len(seps) >= 2 && uniform(seps):
			// 1.250.300 is grouped whatever the mode
			return stripSeparators(s)
		}
	}
	intPart := stripSeparators(s[:lastSep])
	fracPart := stripSeparators(s[lastSep+1:])
	if intPart == "" {
		intPart = "0"
	}
	if fracPart == "" {
		return intPart
	}
	return intPart + "." + fracPart
}

// allThreeDigitGroups reports whether every group after the first has exactly
// three digits, the shape of pure grouping notation.
func allThreeDigitGroups(parts []string) bool {
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}

func uniform(b []byte) bool {
	for i := 1; i < len(b); i++ {
		if b[i] != b[0] {
			return false
		}
	}
	return true
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || r == ',' || r == ' ' {
			return -1
		}
		return r
	}, s)
}

// ExtractNumbersDates returns canonical numbers and ISO dates found in text.
// Numbers whose span falls inside a detected date are not reported again as
// standalone numbers.
func ExtractNumbersDates(text string, mode GroupingMode) (nums []string, dates []string) {
	norm := NormalizeDigits(text)
	dateSpans := findDates(norm)
	inDate := func(start, end int) bool {
		for _, d := range dateSpans {
			if start < d.end && end > d.start {
				return true
			}
		}
		return false
	}
	for _, n := range findNumbers(norm) {
		if inDate(n.start, n.end) {
			continue
		}
		if v := NormalizeAmount(n.raw, mode); v != "" {
			nums = append(nums, v)
		}
	}
	for _, d := range dateSpans {
		dates = append(dates, d.iso)
	}
	return nums, dates
}
