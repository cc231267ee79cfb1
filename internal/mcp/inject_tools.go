package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	mcpsdk "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mamaar/drupalrefactor/pkg/analysis"
	"github.com/mamaar/drupalrefactor/pkg/refactor"
	"github.com/mamaar/drupalrefactor/pkg/types"
)

// InjectOutput describes the edits planned or applied for one file.
type InjectOutput struct {
	File          string       `json:"file"`
	Role          string       `json:"role"`
	Services      []string     `json:"services"`
	Edits         []EditResult `json:"edits"`
	Applied       bool         `json:"applied"`
	ModifiedFiles []string     `json:"modified_files,omitempty"`
}

func registerInjectTools(s *server.MCPServer, state *MCPServer) {
	injectTool := mcpsdk.NewTool("inject_services",
		mcpsdk.WithDescription("Convert static service calls in a PHP class to constructor injection. Plans position-based edits; pass apply=true to write them to disk, including the services.yml argument sync for registered services."),
		mcpsdk.WithString("file",
			mcpsdk.Required(),
			mcpsdk.Description("Path of the PHP class file to refactor"),
		),
		mcpsdk.WithString("services",
			mcpsdk.Description("Comma-separated service ids to inject (defaults to every id detected in the file)"),
		),
		mcpsdk.WithString("role",
			mcpsdk.Description("Class role override: service, controller, form, block, plugin, field_formatter, field_widget, queue_worker (detected from the parent class when omitted)"),
		),
		mcpsdk.WithBoolean("apply",
			mcpsdk.Description("Write the edits to disk instead of returning a plan"),
			mcpsdk.DefaultBool(false),
		),
	)

	s.AddTool(injectTool, func(ctx context.Context, request mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		args := request.GetArguments()

		file, ok := args["file"].(string)
		if !ok || file == "" {
			return mcpsdk.NewToolResultError("file is required"), nil
		}

		roleArg, _ := args["role"].(string)
		role, ok := types.RoleFromString(roleArg)
		if !ok {
			return errResultf("unknown role %q", roleArg), nil
		}

		apply := false
		if val, ok := args["apply"].(bool); ok {
			apply = val
		}

		abs, err := filepath.Abs(file)
		if err != nil {
			return errResult(err), nil
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			return errResultf("read %s: %v", file, err), nil
		}
		source := string(data)

		state.RLock()
		defer state.RUnlock()
		engine := state.GetEngine()

		var serviceIDs []string
		if raw, ok := args["services"].(string); ok && raw != "" {
			for _, id := range strings.Split(raw, ",") {
				if id = strings.TrimSpace(id); id != "" {
					serviceIDs = append(serviceIDs, id)
				}
			}
		} else {
			serviceIDs = analysis.UniqueServices(engine.DetectCalls(source))
		}
		if len(serviceIDs) == 0 {
			return textResult(InjectOutput{File: abs, Role: role.String(), Services: []string{}, Edits: []EditResult{}}), nil
		}

		rctx := &types.RefactoringContext{
			FilePath:   abs,
			Source:     source,
			Role:       role,
			ServiceIDs: serviceIDs,
		}
		edits, err := engine.Refactor(rctx)
		if err != nil {
			return errResult(err), nil
		}

		out := InjectOutput{
			File:     abs,
			Role:     rctx.Role.String(),
			Services: serviceIDs,
			Edits:    editResults(edits),
		}

		if apply && len(edits) > 0 {
			serializer := refactor.NewSerializer(state.logger)
			if err := serializer.ApplyEdits(abs, edits); err != nil {
				return errResultf("apply edits: %v", err), nil
			}
			out.Applied = true
			out.ModifiedFiles = modifiedFiles(abs, edits)
		}

		return textResult(out), nil
	})
}

// modifiedFiles lists the primary file plus every cross-file edit target,
// deduplicated in first-seen order.
func modifiedFiles(primary string, edits []types.RefactoringEdit) []string {
	files := []string{primary}
	seen := map[string]bool{primary: true}
	for _, edit := range edits {
		if edit.IsCrossFile() && !seen[edit.TargetFile] {
			files = append(files, edit.TargetFile)
			seen[edit.TargetFile] = true
		}
	}
	return files
}
