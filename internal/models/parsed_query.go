// internal/models/parsed_query.go
package models

type ExtractedEntities struct {
	People     []string               `json:"people"`
	Projects   []string               `json:"projects"`
	Conditions map[string]interface{} `json:"conditions"`
}

// QueryFilters is the sparse filter set derived from ExtractedEntities.
type QueryFilters struct {
	AssigneeName string     `json:"assigneeName,omitempty"`
	Status       TaskStatus `json:"status,omitempty"`
	Overdue      *bool      `json:"overdue,omitempty"`
	ProjectID    string     `json:"projectId,omitempty"`
}

// Count returns the number of populated filters.
func (f QueryFilters) Count() int {
	n := 0
	if f.AssigneeName != "" {
		n++
	}
	if f.Status != "" {
		n++
	}
	if f.Overdue != nil {
		n++
	}
	if f.ProjectID != "" {
		n++
	}
	return n
}

func (f QueryFilters) ToTaskFilters() TaskFilters {
	return TaskFilters{
		AssigneeName: f.AssigneeName,
		Status:       f.Status,
		Overdue:      f.Overdue,
		ProjectID:    f.ProjectID,
	}
}

type QueryMetadata struct {
	OriginalQuery    string   `json:"originalQuery"`
	ProcessingTimeMs int64    `json:"processingTimeMs"`
	Reasoning        []string `json:"reasoning"`
}

// ParsedQuery is the contract between the parser and the processor. It is
// not modified after the parser returns it.
type ParsedQuery struct {
	Intent     Intent            `json:"intent"`
	Entities   ExtractedEntities `json:"entities"`
	Filters    QueryFilters      `json:"filters"`
	Confidence float64           `json:"confidence"`
	Metadata   QueryMetadata     `json:"metadata"`
}
