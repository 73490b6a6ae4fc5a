package nlq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-query-workers/internal/models"
)

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 1.0, Similarity("Alice", "alice"))
	assert.Equal(t, 0.0, Similarity("abc", ""))
	assert.InDelta(t, 0.8, Similarity("alise", "alice"), 1e-9)
}

func TestSimilarity_Symmetric(t *testing.T) {
	words := []string{"", "bob", "Bobby", "alice", "alicia", "Carol Danvers", "apollo", "xyz"}
	for _, a := range words {
		for _, b := range words {
			s := Similarity(a, b)
			assert.Equal(t, s, Similarity(b, a), "%q vs %q", a, b)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
}

func TestFuzzyMatcher_Match(t *testing.T) {
	m := NewFuzzyMatcher(0, 0)
	pool := []string{"alice", "bob", "christopher"}

	t.Run("exact ignores case", func(t *testing.T) {
		match := m.Match("ALICE", pool)
		require.NotNil(t, match)
		assert.Equal(t, "alice", match.MatchedValue)
		assert.Equal(t, models.MatchTypeExact, match.MatchType)
		assert.Equal(t, 1.0, match.Confidence)
		assert.Empty(t, match.Suggestion)
	})

	t.Run("fuzzy below suggestion threshold", func(t *testing.T) {
		match := m.Match("alise", pool)
		require.NotNil(t, match)
		assert.Equal(t, "alice", match.MatchedValue)
		assert.Equal(t, models.MatchTypeFuzzy, match.MatchType)
		assert.InDelta(t, 0.8, match.Confidence, 1e-9)
		assert.Equal(t, "Did you mean 'alice'?", match.Suggestion)
	})

	t.Run("fuzzy above suggestion threshold", func(t *testing.T) {
		match := m.Match("christophar", pool)
		require.NotNil(t, match)
		assert.Equal(t, models.MatchTypeFuzzy, match.MatchType)
		assert.Less(t, match.Confidence, 1.0)
		assert.Empty(t, match.Suggestion)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, m.Match("zzzzz", pool))
		assert.Nil(t, m.Match("", pool))
		assert.Nil(t, m.Match("alice", nil))
	})

	t.Run("ties keep first", func(t *testing.T) {
		match := m.Match("bob", []string{"rob", "cob"})
		require.NotNil(t, match)
		assert.Equal(t, "rob", match.MatchedValue)
	})
}

func TestFuzzyMatcher_CustomThreshold(t *testing.T) {
	strict := NewFuzzyMatcher(0.85, 0.95)
	assert.Nil(t, strict.Match("alise", []string{"alice"}))
}
