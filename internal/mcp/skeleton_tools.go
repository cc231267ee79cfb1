package mcp

import (
	"context"
	"os"
	"sort"

	mcpsdk "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mamaar/drupalrefactor/pkg/analysis"
	"github.com/mamaar/drupalrefactor/pkg/types"
)

// PropertyResult is the JSON shape of one declared class property.
type PropertyResult struct {
	Name     string `json:"name"`
	Line     int    `json:"line"`
	Type     string `json:"type,omitempty"`
	ReadOnly bool   `json:"read_only,omitempty"`
}

// ConstructorResult is the JSON shape of a parsed __construct method.
type ConstructorResult struct {
	StartLine  int      `json:"start_line"`
	EndLine    int      `json:"end_line"`
	Parameters []string `json:"parameters"`
}

// FactoryResult is the JSON shape of a parsed static create method.
type FactoryResult struct {
	StartLine int      `json:"start_line"`
	EndLine   int      `json:"end_line"`
	Services  []string `json:"services"`
}

// SkeletonOutput is the structural outline of the first class in a file.
type SkeletonOutput struct {
	File        string             `json:"file"`
	Namespace   string             `json:"namespace,omitempty"`
	Class       string             `json:"class,omitempty"`
	ClassLine   int                `json:"class_line"`
	Extends     string             `json:"extends,omitempty"`
	Implements  []string           `json:"implements,omitempty"`
	Role        string             `json:"role"`
	Imports     []string           `json:"imports,omitempty"`
	Properties  []PropertyResult   `json:"properties,omitempty"`
	Constructor *ConstructorResult `json:"constructor,omitempty"`
	Factory     *FactoryResult     `json:"factory,omitempty"`
}

func registerSkeletonTools(s *server.MCPServer, state *MCPServer) {
	skeletonTool := mcpsdk.NewTool("class_skeleton",
		mcpsdk.WithDescription("Extract the structural outline of a PHP class: namespace, imports, parent, interfaces, properties, constructor, and static create factory"),
		mcpsdk.WithString("file",
			mcpsdk.Required(),
			mcpsdk.Description("Path of the PHP file to analyze"),
		),
	)

	s.AddTool(skeletonTool, func(ctx context.Context, request mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
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

		skeleton := state.GetEngine().AnalyzeClass(string(data))
		return textResult(skeletonOutput(file, skeleton)), nil
	})
}

// skeletonOutput flattens a skeleton into its JSON shape.
func skeletonOutput(file string, skeleton *types.ClassSkeleton) SkeletonOutput {
	out := SkeletonOutput{
		File:       file,
		Namespace:  skeleton.Namespace,
		Class:      skeleton.ClassName,
		ClassLine:  skeleton.ClassLine,
		Extends:    skeleton.ParentClass,
		Implements: skeleton.Interfaces,
		Role:       analysis.DetectRole(skeleton).String(),
		Imports:    importsByLine(skeleton.Imports),
	}

	for _, prop := range skeleton.Properties {
		out.Properties = append(out.Properties, PropertyResult{
			Name:     prop.Name,
			Line:     prop.Line,
			Type:     prop.Type,
			ReadOnly: prop.ReadOnly,
		})
	}
	sort.Slice(out.Properties, func(i, j int) bool {
		return out.Properties[i].Line < out.Properties[j].Line
	})

	if ctor := skeleton.Constructor; ctor != nil {
		out.Constructor = &ConstructorResult{
			StartLine:  ctor.StartLine,
			EndLine:    ctor.EndLine,
			Parameters: ctor.RawParameters,
		}
	}
	if fac := skeleton.FactoryMethod; fac != nil {
		out.Factory = &FactoryResult{
			StartLine: fac.StartLine,
			EndLine:   fac.EndLine,
			Services:  fac.RetrievedServices,
		}
	}
	return out
}

// importsByLine returns the imported names ordered by use-statement line.
func importsByLine(imports map[string]int) []string {
	names := make([]string, 0, len(imports))
	for name := range imports {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return imports[names[i]] < imports[names[j]]
	})
	return names
}
