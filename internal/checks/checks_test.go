package checks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcheck/internal/domain"
)

func one(src, tgt string) []domain.Segment {
	return []domain.Segment{{Index: 1, Source: src, Target: tgt}}
}

func typesOf(issues []domain.Issue) []string {
	var out []string
	for _, it := range issues {
		out = append(out, it.Type)
	}
	return out
}

func TestEquivalentLocaleNumbersNoMismatch(t *testing.T) {
	issues := Run(one("The price is 1,250.50 dollars.", "El precio es 1.250,50 dólares."), nil, Defaults())
	assert.NotContains(t, typesOf(issues), "number_mismatch")
}

func TestNumberMismatchFlagged(t *testing.T) {
	issues := Run(one("The price is 1,250.50 dollars.", "El precio es 1.300,50 dólares."), nil, Defaults())
	require.Contains(t, typesOf(issues), "number_mismatch")
	for _, it := range issues {
		if it.Type == "number_mismatch" {
			assert.Equal(t, domain.SeverityHigh, it.Severity)
			assert.Equal(t, 1, it.Segment)
		}
	}
}

func TestNumberComparisonIsMultiset(t *testing.T) {
	// same value set, different multiplicity
	issues := Run(one("Pay 5 now and 5 later.", "Paga 5 ahora."), nil, Defaults())
	assert.Contains(t, typesOf(issues), "number_mismatch")
}

func TestDateMismatchFlagged(t *testing.T) {
	issues := Run(one("Deadline: 12/05/2024.", "Fecha límite: 13/05/2024."), nil, Defaults())
	assert.Contains(t, typesOf(issues), "date_mismatch")
	assert.NotContains(t, typesOf(issues), "number_mismatch")
}

func TestSameDateDifferentSeparatorsNoMismatch(t *testing.T) {
	// dash and dot forms canonicalize like the slash form, and the date's
	// digits stay out of the number comparison
	issues := Run(one("Deadline: 12-05-2024.", "Fecha límite: 12/05/2024."), nil, Defaults())
	assert.NotContains(t, typesOf(issues), "date_mismatch")
	assert.NotContains(t, typesOf(issues), "number_mismatch")

	issues = Run(one("Deadline: 12.05.2024.", "Fecha límite: 12/05/2024."), nil, Defaults())
	assert.NotContains(t, typesOf(issues), "date_mismatch")
	assert.NotContains(t, typesOf(issues), "number_mismatch")
}

func TestIdenticalTargetFlaggedUntranslated(t *testing.T) {
	issues := Run(one("Paris is beautiful.", "Paris is beautiful."), nil, Defaults())
	types := typesOf(issues)
	require.Contains(t, types, "possibly_untranslated")
	count := 0
	for _, it := range issues {
		if it.Type == "possibly_untranslated" {
			count++
			assert.Equal(t, domain.SeverityMedium, it.Severity)
		}
	}
	assert.Equal(t, 1, count)
}

func TestTranslatedTargetNotFlaggedUntranslated(t *testing.T) {
	issues := Run(one("Paris is beautiful.", "París es preciosa."), nil, Defaults())
	assert.NotContains(t, typesOf(issues), "possibly_untranslated")
}

func TestLengthRatioBand(t *testing.T) {
	// in band: no issue
	issues := Run(one("A reasonable sentence here.", "Una frase razonable aquí."), nil, Defaults())
	assert.NotContains(t, typesOf(issues), "length_ratio")

	// far outside: exactly one low issue
	issues = Run(one("A reasonable sentence here.", strings.Repeat("bla ", 40)), nil, Defaults())
	count := 0
	for _, it := range issues {
		if it.Type == "length_ratio" {
			count++
			assert.Equal(t, domain.SeverityLow, it.Severity)
		}
	}
	assert.Equal(t, 1, count)
}

func TestDoublePunctuationOneIssuePerSegment(t *testing.T) {
	issues := Run(one("Hello!", "¡Hola!!! Qué tal!!"), nil, Defaults())
	count := 0
	for _, it := range issues {
		if it.Type == "orthography_double_punctuation" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtraSpacesFlagged(t *testing.T) {
	issues := Run(one("Hello world.", "Hola  mundo."), nil, Defaults())
	assert.Contains(t, typesOf(issues), "orthography_extra_spaces")
}

func TestNameTypoHeuristic(t *testing.T) {
	issues := Run(one("Marie Curie won twice.", "Marie Curei ganó dos veces."), nil, Defaults())
	require.Contains(t, typesOf(issues), "name_possible_typo")

	// exact name present: no flag
	issues = Run(one("Marie Curie won twice.", "Marie Curie ganó dos veces."), nil, Defaults())
	assert.NotContains(t, typesOf(issues), "name_possible_typo")
}

func TestGlossaryCheck(t *testing.T) {
	glossary := []domain.GlossaryEntry{{Term: "contract", Translation: "contrato"}}

	issues := Run(one("Sign the contract today.", "Firma el acuerdo hoy."), glossary, Defaults())
	require.Contains(t, typesOf(issues), "glossary_missing_term")

	issues = Run(one("Sign the contract today.", "Firma el contrato hoy."), glossary, Defaults())
	assert.NotContains(t, typesOf(issues), "glossary_missing_term")

	// term absent from source: nothing to enforce
	issues = Run(one("Sign the form today.", "Firma el formulario hoy."), glossary, Defaults())
	assert.NotContains(t, typesOf(issues), "glossary_missing_term")
}

func TestEmptySegmentsYieldNoPanics(t *testing.T) {
	issues := Run(one("", ""), nil, Defaults())
	assert.Empty(t, issues)
}

func TestSummaryCountsMatch(t *testing.T) {
	segs := []domain.Segment{
		{Index: 1, Source: "The price is 1,250.50 dollars.", Target: "El precio es 1.300,50 dólares."},
		{Index: 2, Source: "Paris is beautiful.", Target: "Paris is beautiful."},
	}
	issues := Run(segs, nil, Defaults())
	sum := domain.Summarize(len(segs), issues)
	high, medium, low := 0, 0, 0
	for _, it := range issues {
		switch it.Severity {
		case domain.SeverityHigh:
			high++
		case domain.SeverityMedium:
			medium++
		default:
			low++
		}
	}
	assert.Equal(t, high, sum.High)
	assert.Equal(t, medium, sum.Medium)
	assert.Equal(t, low, sum.Low)
	assert.Equal(t, 2, sum.Segments)
}
