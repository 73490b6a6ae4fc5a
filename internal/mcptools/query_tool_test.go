package mcptools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-query-workers/internal/common/logger"
	"task-query-workers/internal/processor"
)

type fakeProcessor struct {
	calls []string
}

func (f *fakeProcessor) Process(_ context.Context, query string) *processor.QueryResponse {
	f.calls = append(f.calls, query)
	return &processor.QueryResponse{
		Query:           query,
		Success:         false,
		Data:            []interface{}{},
		Error:           "Could not identify the person this query refers to",
		ErrorCode:       "PERSON_NOT_FOUND",
		Recommendations: []string{"Check the spelling of the person's name"},
	}
}

func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestQueryTool_Definition(t *testing.T) {
	tool := NewQueryTool(&fakeProcessor{}, 5, 500, logger.NewTestLogger(t))
	def := tool.Definition()

	assert.Equal(t, "process_query", def.Name)
	assert.Contains(t, def.InputSchema.Properties, "prompt")
	assert.Equal(t, []string{"prompt"}, def.InputSchema.Required)

	prop := def.InputSchema.Properties["prompt"].(map[string]interface{})
	assert.Equal(t, "string", prop["type"])
	assert.Equal(t, 5, prop["minLength"])
	assert.Equal(t, 500, prop["maxLength"])
}

func TestQueryTool_Handle(t *testing.T) {
	proc := &fakeProcessor{}
	tool := NewQueryTool(proc, 5, 500, logger.NewTestLogger(t))

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"prompt": "show me hello tasks"}))
	require.NoError(t, err)
	assert.False(t, result.IsError, "unsuccessful queries are business results")
	assert.Equal(t, []string{"show me hello tasks"}, proc.calls)

	var resp processor.QueryResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(result)), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "PERSON_NOT_FOUND", resp.ErrorCode)
}

func TestQueryTool_HandleRejectsInvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing prompt", map[string]interface{}{}},
		{"nil arguments", nil},
		{"too short", map[string]interface{}{"prompt": "hey"}},
		{"too long", map[string]interface{}{"prompt": strings.Repeat("x", 501)}},
		{"wrong type", map[string]interface{}{"prompt": 12345}},
		{"unknown field", map[string]interface{}{"prompt": "show bob's tasks", "limit": 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := &fakeProcessor{}
			tool := NewQueryTool(proc, 5, 500, logger.NewTestLogger(t))

			result, err := tool.Handle(context.Background(), makeReq(tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(result), "invalid arguments")
			assert.Empty(t, proc.calls)
		})
	}
}

func TestNewServer(t *testing.T) {
	tool := NewQueryTool(&fakeProcessor{}, 5, 500, logger.NewTestLogger(t))
	s := NewServer("task-query", "test", tool)
	assert.NotNil(t, s)
}
