package mcp

import "github.com/mark3labs/mcp-go/server"

// RegisterAll wires every drupalrefactor tool, resource, and prompt into
// the MCP server.
func RegisterAll(s *server.MCPServer, state *MCPServer) {
	registerWorkspaceTools(s, state)
	registerDetectTools(s, state)
	registerInjectTools(s, state)
	registerServiceTools(s, state)
	registerSkeletonTools(s, state)
	registerResources(s, state)
	registerPrompts(s)
}
