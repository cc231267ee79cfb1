package mcp

import (
	"context"
	"strings"

	mcpsdk "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mamaar/drupalrefactor/pkg/types"
)

// ServiceListOutput lists registry entries matching an optional filter.
type ServiceListOutput struct {
	Total    int             `json:"total"`
	Matched  int             `json:"matched"`
	Services []ServiceResult `json:"services"`
}

func registerServiceTools(s *server.MCPServer, state *MCPServer) {
	listTool := mcpsdk.NewTool("list_services",
		mcpsdk.WithDescription("List the services indexed from the workspace's *.services.yml files, sorted by id"),
		mcpsdk.WithString("filter",
			mcpsdk.Description("Substring match on service id or class name (optional)"),
		),
	)

	s.AddTool(listTool, func(ctx context.Context, request mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		args := request.GetArguments()
		filter, _ := args["filter"].(string)

		state.RLock()
		defer state.RUnlock()

		index, err := state.GetRegistry()
		if err != nil {
			return errResult(err), nil
		}

		all := index.All()
		matched := all
		if filter != "" {
			matched = nil
			for _, def := range all {
				if matchesFilter(def, filter) {
					matched = append(matched, def)
				}
			}
		}

		return textResult(ServiceListOutput{
			Total:    len(all),
			Matched:  len(matched),
			Services: serviceResults(matched),
		}), nil
	})
}

// matchesFilter reports whether the definition's id or class contains the
// filter, case-insensitively.
func matchesFilter(def *types.ServiceDefinition, filter string) bool {
	filter = strings.ToLower(filter)
	return strings.Contains(strings.ToLower(def.ID), filter) ||
		strings.Contains(strings.ToLower(def.ClassName), filter)
}
