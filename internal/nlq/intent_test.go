package nlq

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"task-query-workers/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		query string
		want  models.Intent
	}{
		{"show alice tasks", models.IntentQueryTasks},
		{"list overdue tasks assigned to bob", models.IntentQueryTasks},
		{"what is carol working on", models.IntentQueryTasks},
		{"Analyze Bob's workload", models.IntentAnalyzeWorkload},
		{"is dave overloaded?", models.IntentAnalyzeWorkload},
		{"what is the risk for project apollo", models.IntentAssessRisk},
		{"how healthy is Billing", models.IntentAssessRisk},
		{"hello there", models.IntentGeneralQuery},
		{"", models.IntentGeneralQuery},
		{"   ", models.IntentGeneralQuery},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.query))
		})
	}
}

func TestClassifyWithScore(t *testing.T) {
	intent, score := ClassifyWithScore("show tasks")
	assert.Equal(t, models.IntentQueryTasks, intent)
	assert.InDelta(t, 2.0, score, 1e-9)

	intent, score = ClassifyWithScore("show workload")
	assert.Equal(t, models.IntentAnalyzeWorkload, intent, "1.2 beats 1.0")
	assert.InDelta(t, 1.2, score, 1e-9)

	intent, score = ClassifyWithScore("good morning")
	assert.Equal(t, models.IntentGeneralQuery, intent)
	assert.InDelta(t, 0.1, score, 1e-9)

	intent, score = ClassifyWithScore("")
	assert.Equal(t, models.IntentGeneralQuery, intent)
	assert.Zero(t, score)
}

func TestIntentRules_FollowEnumerationOrder(t *testing.T) {
	for i, rule := range intentRules {
		assert.Equal(t, models.AllIntents[i], rule.intent)
	}
}
