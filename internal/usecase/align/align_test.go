package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("First sentence. Second one! Third? Last")
	assert.Equal(t, []string{"First sentence.", "Second one!", "Third?", "Last"}, got)
}

func TestSplitSentencesEmpty(t *testing.T) {
	assert.Nil(t, SplitSentences(""))
	assert.Nil(t, SplitSentences("   \n  "))
}

func TestSplitSentencesCJKAndArabicTerminators(t *testing.T) {
	got := SplitSentences("こんにちは。 元気ですか؟ はい")
	assert.Len(t, got, 3)
}

func TestAlignEqualCounts(t *testing.T) {
	res := Align("One. Two.", "Uno. Dos.")
	require.Len(t, res.Segments, 2)
	assert.Empty(t, res.Note)
	assert.Equal(t, 1, res.Segments[0].Index)
	assert.Equal(t, "One.", res.Segments[0].Source)
	assert.Equal(t, "Uno.", res.Segments[0].Target)
	assert.Equal(t, 2, res.Segments[1].Index)
}

func TestAlignTruncatesAndNotes(t *testing.T) {
	res := Align("One. Two. Three.", "Uno.")
	require.Len(t, res.Segments, 1)
	assert.Contains(t, res.Note, "aligned 1 of 3 source / 1 target")
}

func TestAlignIndicesMonotonic(t *testing.T) {
	res := Align("A. B. C.", "X. Y. Z.")
	for i, seg := range res.Segments {
		assert.Equal(t, i+1, seg.Index)
	}
}
