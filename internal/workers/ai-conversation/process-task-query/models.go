// internal/workers/ai-conversation/process-task-query/models.go
package processtaskquery

import "task-query-workers/internal/processor"

type Input struct {
	Prompt string `json:"prompt"`
}

type Output struct {
	QueryResponse *processor.QueryResponse `json:"queryResponse"`
}
