// internal/nlq/fuzzy.go
package nlq

import (
	"fmt"
	"strings"

	"github.com/xrash/smetrics"

	"task-query-workers/internal/models"
)

const (
	DefaultFuzzyThreshold      = 0.6
	DefaultSuggestionThreshold = 0.9
)

// FuzzyMatcher picks the closest known string to a candidate token.
type FuzzyMatcher struct {
	threshold           float64
	suggestionThreshold float64
}

// NewFuzzyMatcher builds a matcher. Zero values select the defaults.
func NewFuzzyMatcher(threshold, suggestionThreshold float64) *FuzzyMatcher {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	if suggestionThreshold <= 0 {
		suggestionThreshold = DefaultSuggestionThreshold
	}
	return &FuzzyMatcher{threshold: threshold, suggestionThreshold: suggestionThreshold}
}

// Similarity is the case-insensitive normalized Levenshtein similarity
// (maxLen - distance) / maxLen. Two empty strings are identical.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}

	dist := smetrics.WagnerFischer(a, b, 1, 1, 1)
	return float64(maxLen-dist) / float64(maxLen)
}

// Match returns the best pool member at or above the threshold, or nil.
// Ties keep the earlier pool entry.
func (m *FuzzyMatcher) Match(candidate string, pool []string) *models.EntityMatch {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || len(pool) == 0 {
		return nil
	}

	best := ""
	bestScore := -1.0
	for _, item := range pool {
		if score := Similarity(candidate, item); score > bestScore {
			best, bestScore = item, score
		}
	}

	if bestScore < m.threshold {
		return nil
	}

	match := &models.EntityMatch{
		MatchedValue: best,
		Confidence:   bestScore,
		MatchType:    models.MatchTypeFuzzy,
	}
	if bestScore == 1.0 {
		match.MatchType = models.MatchTypeExact
	}
	if bestScore < m.suggestionThreshold {
		match.Suggestion = fmt.Sprintf("Did you mean '%s'?", best)
	}
	return match
}
