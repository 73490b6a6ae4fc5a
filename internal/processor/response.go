// internal/processor/response.go
package processor

import (
	"task-query-workers/internal/models"
)

// QueryResponse is the externally visible result of processing one query.
// Failures are reported in-band with Success false.
type QueryResponse struct {
	Query           string        `json:"query"`
	Success         bool          `json:"success"`
	Data            []interface{} `json:"data"`
	Error           string        `json:"error,omitempty"`
	ErrorCode       string        `json:"errorCode,omitempty"`
	Analysis        Analysis      `json:"analysis"`
	Insights        []string      `json:"insights"`
	Recommendations []string      `json:"recommendations"`
	Suggestions     []string      `json:"suggestions,omitempty"`
}

type Analysis struct {
	IntentRecognized models.Intent            `json:"intent_recognized"`
	ConfidenceScore  float64                  `json:"confidence_score"`
	EntitiesFound    models.ExtractedEntities `json:"entities_found"`
	FiltersApplied   models.QueryFilters      `json:"filters_applied"`
	ProcessingTime   int64                    `json:"processing_time"` // milliseconds
	Reasoning        []string                 `json:"reasoning"`
	DebugInfo        *DebugInfo               `json:"debugInfo,omitempty"`
}

// DebugInfo exposes per-stage match details.
type DebugInfo struct {
	RequestID       string               `json:"requestId"`
	UnknownEntities []string             `json:"unknownEntities"`
	PeopleMatches   []models.EntityMatch `json:"peopleMatches"`
	ProjectMatches  []models.EntityMatch `json:"projectMatches"`
}
