// internal/models/query_types.go
package models

type Intent string

const (
	IntentQueryTasks      Intent = "query_tasks"
	IntentAnalyzeWorkload Intent = "analyze_workload"
	IntentAssessRisk      Intent = "assess_risk"
	IntentGeneralQuery    Intent = "general_query"
)

// AllIntents lists intents in enumeration order; classifier ties resolve to
// the earlier entry.
var AllIntents = []Intent{
	IntentQueryTasks,
	IntentAnalyzeWorkload,
	IntentAssessRisk,
	IntentGeneralQuery,
}

type MatchType string

const (
	MatchTypeExact   MatchType = "exact"
	MatchTypeFuzzy   MatchType = "fuzzy"
	MatchTypePattern MatchType = "pattern"
)

// EntityMatch is one discovered person or project. Confidence is 1.0 only for
// exact matches.
type EntityMatch struct {
	MatchedValue string                 `json:"matchedValue"`
	Confidence   float64                `json:"confidence"`
	MatchType    MatchType              `json:"matchType"`
	Suggestion   string                 `json:"suggestion,omitempty"`
	Pattern      string                 `json:"pattern,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// Condition keys produced by the condition extractor.
const (
	ConditionStatus  = "status"
	ConditionOverdue = "overdue"
)
