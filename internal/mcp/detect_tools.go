package mcp

import (
	"context"
	"os"

	mcpsdk "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mamaar/drupalrefactor/pkg/analysis"
)

// DetectOutput lists the static service calls found in one file.
type DetectOutput struct {
	File     string       `json:"file"`
	Calls    []CallResult `json:"calls"`
	Services []string     `json:"services"`
}

func registerDetectTools(s *server.MCPServer, state *MCPServer) {
	detectTool := mcpsdk.NewTool("detect_static_calls",
		mcpsdk.WithDescription("Scan a PHP file for static service lookups: \\Drupal::service(), \\Drupal::getContainer()->get(), and shortcut accessors like \\Drupal::entityTypeManager()"),
		mcpsdk.WithString("file",
			mcpsdk.Required(),
			mcpsdk.Description("Path of the PHP file to scan"),
		),
	)

	s.AddTool(detectTool, func(ctx context.Context, request mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		args := request.GetArguments()

		file, ok := args["file"].(string)
		if !ok || file == "" {
			return mcpsdk.NewToolResultError("file is required"), nil
		}

		data, err := os.ReadFile(file)
		if err != nil {
			return errResultf("read %s: %v", file, err), nil
		}

		state.RLock()
		defer state.RUnlock()

		calls := state.GetEngine().DetectCalls(string(data))
		return textResult(DetectOutput{
			File:     file,
			Calls:    callResults(calls),
			Services: analysis.UniqueServices(calls),
		}), nil
	})
}
