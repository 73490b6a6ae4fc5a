// internal/mcptools/server.go
package mcptools

import (
	"github.com/mark3labs/mcp-go/server"
)

const serverInstructions = `Use process_query to ask about tasks, a person's workload or a project's risk.
Name people and projects as they appear in the task tracker. Responses are JSON;
check "success" and read "recommendations" when it is false.`

// NewServer registers the query tool on a new MCP server.
func NewServer(name, version string, tool *QueryTool) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)
	s.AddTool(tool.Definition(), tool.Handle)
	return s
}
