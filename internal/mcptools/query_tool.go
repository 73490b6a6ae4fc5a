// internal/mcptools/query_tool.go
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"task-query-workers/internal/common/logger"
	"task-query-workers/internal/common/validation"
	"task-query-workers/internal/processor"
)

const QueryToolName = "process_query"

// QueryProcessor is the part of processor.Processor the tool drives.
type QueryProcessor interface {
	Process(ctx context.Context, query string) *processor.QueryResponse
}

// QueryTool handles the process_query MCP tool.
type QueryTool struct {
	processor QueryProcessor
	schema    validation.JSONSchema
	minLength int
	maxLength int
	logger    logger.Logger
}

func NewQueryTool(proc QueryProcessor, minLength, maxLength int, log logger.Logger) *QueryTool {
	return &QueryTool{
		processor: proc,
		schema:    validation.PromptSchema(minLength, maxLength),
		minLength: minLength,
		maxLength: maxLength,
		logger:    log.With(map[string]interface{}{"tool": QueryToolName}),
	}
}

// Definition returns the MCP tool definition for process_query.
func (t *QueryTool) Definition() mcp.Tool {
	return mcp.NewTool(QueryToolName,
		mcp.WithDescription(
			"Answer a natural-language question about tasks, team workload or project risk. "+
				"Examples: \"Show Bob's overdue tasks\", \"Analyze Alice's workload\", \"Assess risk for project Apollo\".",
		),
		mcp.WithString(validation.PromptField,
			mcp.Required(),
			mcp.Description("The question to answer, in plain English"),
			mcp.MinLength(t.minLength),
			mcp.MaxLength(t.maxLength),
		),
	)
}

// Handle validates the arguments and returns the JSON-encoded response.
// An unsuccessful query is still a normal tool result.
func (t *QueryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	result := validation.ValidateInput(args, t.schema)
	if !result.Valid {
		msg := strings.Join(result.GetErrorMessages(), "; ")
		t.logger.Warn("rejected tool arguments", map[string]interface{}{"errors": msg})
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %s", msg)), nil
	}

	prompt := req.GetString(validation.PromptField, "")
	resp := t.processor.Process(ctx, prompt)

	body, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}
