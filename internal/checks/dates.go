package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/araddon/dateparse"
)

// Numeric forms: dd/mm/yyyy (also - and .) and yyyy-mm-dd (also .). The
// original patterns require matching separators, which RE2 cannot express
// with backreferences, so the separator pair is verified in code.
var (
	dmyNumericRE = regexp.MustCompile(`\b\d{1,2}([/\-.])\d{1,2}([/\-.])\d{4}\b`)
	ymdNumericRE = regexp.MustCompile(`\b\d{4}([\-.])\d{1,2}([\-.])\d{1,2}\b`)
)

var monthNumbers = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7, "aug": 8,
	"sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4, "mayo": 5, "junio": 6,
	"julio": 7, "agosto": 8, "septiembre": 9, "octubre": 10, "noviembre": 11, "diciembre": 12,
	"janvier": 1, "février": 2, "fevrier": 2, "mars": 3, "avril": 4, "mai": 5,
	"juin": 6, "juillet": 7, "août": 8, "aout": 8, "septembre": 9,
	"octobre": 10, "novembre": 11, "décembre": 12, "decembre": 12,
}

var monthAlternation = func() string {
	names := make([]string, 0, len(monthNumbers))
	for name := range monthNumbers {
		names = append(names, regexp.QuoteMeta(name))
	}
	return strings.Join(names, "|")
}()

// Word forms: "12 de mayo de 2024", "3 juillet 2024", "May 12, 2024".
var (
	dayMonthYearRE = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?(?:\s+(?:de|of))?\s+(` + monthAlternation + `)\.?(?:\s+(?:de|del))?,?\s+(\d{4})\b`)
	monthDayYearRE = regexp.MustCompile(`(?i)\b(` + monthAlternation + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
)

type dateSpan struct {
	start, end int
	iso        string
}

// findDates locates date expressions in digit-normalized text and
// canonicalizes each to ISO yyyy-mm-dd. Ambiguous numeric forms are read
// day-first. Matches followed by '%' are rejected (percentages are not
// dates), and overlapping spans keep the first hit.
func findDates(text string) []dateSpan {
	var spans []dateSpan
	add := func(start, end int, iso string) {
		if iso == "" {
			return
		}
		if runeAt(text, end) == '%' {
			return
		}
		for _, s := range spans {
			if start < s.end && end > s.start {
				return
			}
		}
		spans = append(spans, dateSpan{start: start, end: end, iso: iso})
	}

	for _, loc := range dmyNumericRE.FindAllStringSubmatchIndex(text, -1) {
		raw := text[loc[0]:loc[1]]
		if text[loc[2]:loc[3]] != text[loc[4]:loc[5]] {
			continue
		}
		add(loc[0], loc[1], parseNumericDate(raw, false))
	}
	for _, loc := range ymdNumericRE.FindAllStringSubmatchIndex(text, -1) {
		raw := text[loc[0]:loc[1]]
		if text[loc[2]:loc[3]] != text[loc[4]:loc[5]] {
			continue
		}
		add(loc[0], loc[1], parseNumericDate(raw, true))
	}
	for _, loc := range dayMonthYearRE.FindAllStringSubmatchIndex(text, -1) {
		day := text[loc[2]:loc[3]]
		month := text[loc[4]:loc[5]]
		year := text[loc[6]:loc[7]]
		add(loc[0], loc[1], wordDateISO(day, month, year))
	}
	for _, loc := range monthDayYearRE.FindAllStringSubmatchIndex(text, -1) {
		month := text[loc[2]:loc[3]]
		day := text[loc[4]:loc[5]]
		year := text[loc[6]:loc[7]]
		add(loc[0], loc[1], wordDateISO(day, month, year))
	}
	return spans
}

var dateSeparators = strings.NewReplacer("-", "/", ".", "/")

// parseNumericDate canonicalizes a numeric date via dateparse, preferring
// day-first for the ambiguous dd/mm forms. Dash and dot separators are
// rewritten to slashes first: dateparse only honors the day-first preference
// for slash forms, and rejects dd-mm-yyyy outright.
func parseNumericDate(raw string, yearFirst bool) string {
	raw = dateSeparators.Replace(raw)
	opts := []dateparse.ParserOption{dateparse.PreferMonthFirst(false)}
	if yearFirst {
		opts = nil
	}
	t, err := dateparse.ParseAny(raw, opts...)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), t.Month(), t.Day())
}

func wordDateISO(day, month, year string) string {
	m, ok := monthNumbers[strings.ToLower(month)]
	if !ok {
		return ""
	}
	var d, y int
	if _, err := fmt.Sscanf(day, "%d", &d); err != nil || d < 1 || d > 31 {
		return ""
	}
	if _, err := fmt.Sscanf(year, "%d", &y); err != nil {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}
