package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDatesNumeric(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"due 12/05/2024 sharp", "2024-05-12"}, // day-first for ambiguous forms
		{"due 12-05-2024 sharp", "2024-05-12"},
		{"due 12.05.2024 sharp", "2024-05-12"},
		{"due 2024-05-12 sharp", "2024-05-12"},
	}
	for _, tt := range tests {
		spans := findDates(tt.text)
		require.Len(t, spans, 1, tt.text)
		assert.Equal(t, tt.want, spans[0].iso, tt.text)
	}
}

func TestFindDatesMixedSeparatorsRejected(t *testing.T) {
	assert.Empty(t, findDates("weird 12/05-2024 thing"))
}

func TestFindDatesMonthWords(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"on 12 May 2024 we met", "2024-05-12"},
		{"on May 12, 2024 we met", "2024-05-12"},
		{"el 12 de mayo de 2024", "2024-05-12"},
		{"le 3 juillet 2024", "2024-07-03"},
	}
	for _, tt := range tests {
		spans := findDates(tt.text)
		require.Len(t, spans, 1, tt.text)
		assert.Equal(t, tt.want, spans[0].iso, tt.text)
	}
}

func TestFindDatesRejectsPercent(t *testing.T) {
	// growth figures must not turn into dates
	assert.Empty(t, findDates("up 19.6.2024% nonsense"))
}

func TestFindDatesNoFalsePositivesOnPlainNumbers(t *testing.T) {
	assert.Empty(t, findDates("the price is 1,250.50 dollars"))
}
