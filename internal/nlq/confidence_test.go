package nlq

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"task-query-workers/internal/models"
)

func personMatch(name string) models.EntityMatch {
	return models.EntityMatch{MatchedValue: name, Confidence: 1.0, MatchType: models.MatchTypeExact}
}

func TestScoreConfidence_Scenarios(t *testing.T) {
	overdue := true

	tests := []struct {
		name      string
		intent    models.Intent
		discovery DiscoveryResult
		filters   models.QueryFilters
		query     string
		want      float64
	}{
		{
			name:      "task query with known person",
			intent:    models.IntentQueryTasks,
			discovery: DiscoveryResult{People: []models.EntityMatch{personMatch("alice")}},
			filters:   models.QueryFilters{AssigneeName: "alice"},
			query:     "show alice tasks",
			want:      0.9,
		},
		{
			name:   "unknown lowercase subject",
			intent: models.IntentQueryTasks,
			query:  "show me hello tasks",
			want:   0.4,
		},
		{
			name:   "determiner is not a person",
			intent: models.IntentQueryTasks,
			query:  "show all tasks",
			want:   0.7,
		},
		{
			name:   "workload without person",
			intent: models.IntentAnalyzeWorkload,
			query:  "analyze workload",
			want:   0.2,
		},
		{
			name:   "risk without project",
			intent: models.IntentAssessRisk,
			query:  "assess risk",
			want:   0.2,
		},
		{
			name:   "catch-all with capitalized stranger",
			intent: models.IntentGeneralQuery,
			query:  "Who is Zed",
			want:   0.2,
		},
		{
			name:   "everything present clamps to one",
			intent: models.IntentQueryTasks,
			discovery: DiscoveryResult{
				People:   []models.EntityMatch{personMatch("bob")},
				Projects: []models.EntityMatch{personMatch("Billing")},
			},
			filters: models.QueryFilters{
				AssigneeName: "bob",
				ProjectID:    "p-2",
				Status:       models.TaskStatusInProgress,
				Overdue:      &overdue,
			},
			query: "show bob's overdue tasks in Billing",
			want:  1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reasoning := ScoreConfidence(tt.intent, tt.discovery, tt.filters, tt.query)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, "Base confidence: 0.40", reasoning[0])
			assert.Contains(t, reasoning[len(reasoning)-1], "Final confidence:")
		})
	}
}

func TestScoreConfidence_PenaltyIsExplained(t *testing.T) {
	_, reasoning := ScoreConfidence(models.IntentQueryTasks, DiscoveryResult{}, models.QueryFilters{}, "show me hello tasks")
	assert.Contains(t, reasoning, "-0.30 query appears to reference a person who was not found")
}

func TestScoreConfidence_AlwaysInRange(t *testing.T) {
	discoveries := []DiscoveryResult{
		{},
		{People: []models.EntityMatch{personMatch("a"), personMatch("b")}},
		{Projects: []models.EntityMatch{personMatch("p")}},
	}
	queries := []string{"", "x", "Show Zed's workload", "assigned to nobody", "risk"}

	for _, intent := range models.AllIntents {
		for _, d := range discoveries {
			for _, q := range queries {
				got, _ := ScoreConfidence(intent, d, models.QueryFilters{Status: models.TaskStatusTodo}, q)
				assert.GreaterOrEqual(t, got, 0.1)
				assert.LessOrEqual(t, got, 1.0)
			}
		}
	}
}

func TestReferencesPerson(t *testing.T) {
	assert.True(t, referencesPerson("show zed's tasks"))
	assert.True(t, referencesPerson("tasks assigned to zed"))
	assert.True(t, referencesPerson("show Zed everything"))
	assert.True(t, referencesPerson("show hello tasks"))
	assert.False(t, referencesPerson("Show all overdue tasks"))
	assert.False(t, referencesPerson("list my tasks"))

	for _, q := range []string{
		"List In Progress tasks",
		"Finished tasks please",
		"Show Done tasks",
		"Stuck tasks",
		"Late tasks",
		"Working On tasks",
		"Past Due tasks",
		"To Do tasks",
		"Healthy projects",
		"Behind Schedule tasks",
		"Capacity of the team",
	} {
		assert.False(t, referencesPerson(q), q)
	}
}

func TestNonEntityWords_CoverConditionAndIntentKeywords(t *testing.T) {
	for _, rule := range conditionRules {
		for _, k := range rule.keywords {
			for _, w := range strings.Fields(k) {
				assert.Contains(t, nonEntityWords, w, rule.name)
			}
		}
	}
	for _, k := range intentKeywords {
		for _, w := range strings.Fields(k) {
			assert.Contains(t, nonEntityWords, w)
		}
	}
}
