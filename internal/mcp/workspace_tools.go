package mcp

import (
	"context"
	"path/filepath"

	mcpsdk "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// LoadWorkspaceOutput summarizes a freshly loaded workspace.
type LoadWorkspaceOutput struct {
	RootPath     string `json:"root_path"`
	ServiceCount int    `json:"service_count"`
	Watching     bool   `json:"watching"`
}

// WorkspaceStatusOutput reports the current workspace state.
type WorkspaceStatusOutput struct {
	Loaded       bool   `json:"loaded"`
	RootPath     string `json:"root_path,omitempty"`
	ServiceCount int    `json:"service_count"`
	Watching     bool   `json:"watching"`
}

func registerWorkspaceTools(s *server.MCPServer, state *MCPServer) {
	loadTool := mcpsdk.NewTool("load_workspace",
		mcpsdk.WithDescription("Load a Drupal workspace: index its *.services.yml files and start watching for changes. Must be called before registry-backed tools unless the server was started with --workspace."),
		mcpsdk.WithString("path",
			mcpsdk.Required(),
			mcpsdk.Description("Absolute path of the workspace root directory"),
		),
	)

	s.AddTool(loadTool, func(ctx context.Context, request mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		args := request.GetArguments()

		path, ok := args["path"].(string)
		if !ok || path == "" {
			return mcpsdk.NewToolResultError("path is required"), nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return errResult(err), nil
		}

		count, err := state.LoadWorkspace(ctx, abs)
		if err != nil {
			return errResult(err), nil
		}
		return textResult(LoadWorkspaceOutput{
			RootPath:     state.Root(),
			ServiceCount: count,
			Watching:     state.Watching(),
		}), nil
	})

	statusTool := mcpsdk.NewTool("workspace_status",
		mcpsdk.WithDescription("Return the current workspace status: loaded state, root path, and indexed service count."),
	)

	s.AddTool(statusTool, func(ctx context.Context, request mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		state.RLock()
		defer state.RUnlock()

		index, err := state.GetRegistry()
		if err != nil {
			return textResult(WorkspaceStatusOutput{Loaded: false}), nil
		}
		return textResult(WorkspaceStatusOutput{
			Loaded:       true,
			RootPath:     state.Root(),
			ServiceCount: index.Len(),
			Watching:     state.Watching(),
		}), nil
	})
}
