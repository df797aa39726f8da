package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVocabulary() Vocabulary {
	return Vocabulary{
		TechnicalTerms: []string{"수전해", "PEM 수전해", "연료전지", "electrolyzer"},
		EntityTerms:    []string{"Electric Hydrogen", "Plug Power", "두산퓨얼셀"},
	}
}

func TestMatchBasic(t *testing.T) {
	t.Parallel()

	idx := NewIndex(testVocabulary())

	result := idx.Match("Electric Hydrogen ships a new electrolyzer stack")
	assert.Equal(t, []string{"Electric Hydrogen"}, result.EntityMatches)
	assert.Equal(t, []string{"electrolyzer"}, result.TechnicalMatches)
}

func TestMatchCaseInsensitive(t *testing.T) {
	t.Parallel()

	idx := NewIndex(testVocabulary())

	result := idx.Match("PLUG POWER expands its ELECTROLYZER line")
	assert.Equal(t, []string{"Plug Power"}, result.EntityMatches)
	assert.Equal(t, []string{"electrolyzer"}, result.TechnicalMatches)
}

func TestMatchOverlapPrecedence(t *testing.T) {
	t.Parallel()

	idx := NewIndex(testVocabulary())

	// The longer term owns the span; the contained term must not be
	// double-counted for the same occurrence.
	result := idx.Match("PEM 수전해 시스템")
	require.Equal(t, []string{"PEM 수전해"}, result.TechnicalMatches)
	assert.Empty(t, result.EntityMatches)
}

func TestMatchContainedTermCountsElsewhere(t *testing.T) {
	t.Parallel()

	idx := NewIndex(testVocabulary())

	// A second, standalone occurrence of the shorter term still counts.
	result := idx.Match("PEM 수전해 외에 일반 수전해 기술도 다룬다")
	assert.ElementsMatch(t, []string{"PEM 수전해", "수전해"}, result.TechnicalMatches)
}

func TestMatchEmptyText(t *testing.T) {
	t.Parallel()

	idx := NewIndex(testVocabulary())

	result := idx.Match("")
	assert.True(t, result.Empty())
	result = idx.Match("   \n\t ")
	assert.True(t, result.Empty())
}

func TestMatchDistinctTermsOnly(t *testing.T) {
	t.Parallel()

	idx := NewIndex(testVocabulary())

	// Repeated occurrences of the same term yield one entry.
	result := idx.Match("연료전지, 연료전지, 또 연료전지")
	assert.Equal(t, []string{"연료전지"}, result.TechnicalMatches)
}

func TestMatchDeterministic(t *testing.T) {
	t.Parallel()

	idx := NewIndex(testVocabulary())
	text := "Plug Power와 두산퓨얼셀이 PEM 수전해 및 연료전지 실증에 참여"

	first := idx.Match(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, idx.Match(text))
	}
}

func TestMatchWhitespaceNormalization(t *testing.T) {
	t.Parallel()

	idx := NewIndex(testVocabulary())

	result := idx.Match("PEM \n 수전해 plant")
	assert.Equal(t, []string{"PEM 수전해"}, result.TechnicalMatches)
}
