package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAmountBothLocales(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1,250.50", "1250.50"},
		{"1.250,50", "1250.50"},
		{"1 250,50", "1250.50"},
		{"1 250,50", "1250.50"},
		{"$1,250.50", "1250.50"},
		{"EUR 1.250,50", "1250.50"},
		{"42", "42"},
		{"3.14", "3.14"},
		{"0,5", "0.5"},
		{"", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeAmount(tt.raw, GroupingIsGrouping), "raw=%q", tt.raw)
	}
}

func TestNormalizeAmountGroupingAmbiguity(t *testing.T) {
	// a lone separator followed by three digits is ambiguous
	assert.Equal(t, "1250", NormalizeAmount("1.250", GroupingIsGrouping))
	assert.Equal(t, "1.250", NormalizeAmount("1.250", GroupingIsDecimal))
	assert.Equal(t, "1250", NormalizeAmount("1,250", GroupingIsGrouping))
	// two separators are never ambiguous
	assert.Equal(t, "1250300", NormalizeAmount("1.250.300", GroupingIsGrouping))
	assert.Equal(t, "1250300", NormalizeAmount("1.250.300", GroupingIsDecimal))
	// non-three-digit tail is always decimal
	assert.Equal(t, "1.25", NormalizeAmount("1,25", GroupingIsGrouping))
}

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "123", NormalizeDigits("١٢٣"))  // Arabic-Indic
	assert.Equal(t, "42", NormalizeDigits("४२"))    // Devanagari
	assert.Equal(t, "plain 7", NormalizeDigits("plain 7"))
}

func TestExtractNumbersSkipsDates(t *testing.T) {
	nums, dates := ExtractNumbersDates("The meeting on 12/05/2024 costs 1,250.50 dollars.", GroupingIsGrouping)
	assert.Equal(t, []string{"1250.50"}, nums)
	assert.Equal(t, []string{"2024-05-12"}, dates)

	// dash and dot dates are excluded the same way, read day-first
	nums, dates = ExtractNumbersDates("due 12-05-2024", GroupingIsGrouping)
	assert.Empty(t, nums)
	assert.Equal(t, []string{"2024-05-12"}, dates)
	nums, dates = ExtractNumbersDates("due 12.05.2024", GroupingIsGrouping)
	assert.Empty(t, nums)
	assert.Equal(t, []string{"2024-05-12"}, dates)
}

func TestFindNumbersWordBoundary(t *testing.T) {
	spans := findNumbers("order A123 and version v2 but 17 apples")
	var raws []string
	for _, s := range spans {
		raws = append(raws, s.raw)
	}
	assert.Equal(t, []string{"17"}, raws)
}
