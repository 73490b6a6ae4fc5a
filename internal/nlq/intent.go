// internal/nlq/intent.go
package nlq

import (
	"regexp"
	"strings"

	"task-query-workers/internal/models"
)

type intentRule struct {
	intent   models.Intent
	weight   float64
	patterns []*regexp.Regexp
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// intentRules is in models.AllIntents order; ties go to the earlier rule.
var intentRules = []intentRule{
	{
		intent: models.IntentQueryTasks,
		weight: 1.0,
		patterns: patterns(
			`\btasks?\b`,
			`\b(show|list|find|get|display)\b`,
			`\b(overdue|late|completed|finished|done|blocked|stuck|pending|todo|to do|in progress)\b`,
			`\bassigned to\b`,
			`\bworking on\b`,
		),
	},
	{
		intent: models.IntentAnalyzeWorkload,
		weight: 1.2,
		patterns: patterns(
			`\bworkload\b`,
			`\b(capacity|bandwidth|utili[sz]ation)\b`,
			`\b(overloaded|too busy|how busy)\b`,
			`\banaly[sz]e\b`,
		),
	},
	{
		intent: models.IntentAssessRisk,
		weight: 1.2,
		patterns: patterns(
			`\brisks?\b`,
			`\b(at risk|risky)\b`,
			`\b(health|healthy)\b`,
			`\b(assess|assessment)\b`,
			`\b(delayed|behind schedule)\b`,
		),
	},
	{
		intent:   models.IntentGeneralQuery,
		weight:   0.1,
		patterns: patterns(`.*`),
	},
}

// intentKeywords spells out the words intentRules match on.
var intentKeywords = []string{
	"task", "tasks", "show", "list", "find", "get", "display", "assigned to",
	"working on", "workload", "capacity", "bandwidth", "utilization",
	"utilisation", "overloaded", "too busy", "how busy", "analyze", "analyse",
	"risk", "risks", "at risk", "risky", "health", "healthy", "assess",
	"assessment", "delayed", "behind schedule",
}

// Classify returns the highest scoring intent for query.
func Classify(query string) models.Intent {
	intent, _ := ClassifyWithScore(query)
	return intent
}

// ClassifyWithScore scores every intent as weight times the number of its
// patterns that match. Empty input goes straight to the catch-all.
func ClassifyWithScore(query string) (models.Intent, float64) {
	lower := strings.ToLower(strings.TrimSpace(query))
	if lower == "" {
		return models.IntentGeneralQuery, 0
	}

	best := models.IntentGeneralQuery
	bestScore := -1.0
	for _, rule := range intentRules {
		matched := 0
		for _, p := range rule.patterns {
			if p.MatchString(lower) {
				matched++
			}
		}
		if score := rule.weight * float64(matched); score > bestScore {
			best, bestScore = rule.intent, score
		}
	}
	return best, bestScore
}
