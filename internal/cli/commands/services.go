package commands

import (
	"fmt"
	"strings"

	"github.com/mamaar/drupalrefactor/internal/cli"
	"github.com/mamaar/drupalrefactor/pkg/types"
)

// ServiceReport is the JSON shape of one indexed service definition
type ServiceReport struct {
	ID              string   `json:"id"`
	ClassName       string   `json:"class_name,omitempty"`
	ClassFilePath   string   `json:"class_file_path,omitempty"`
	DeclarationFile string   `json:"declaration_file"`
	Arguments       []string `json:"arguments,omitempty"`
}

// ServicesCommand lists the service definitions indexed from the workspace
func ServicesCommand(args []string) {
	filter := ""
	if len(args) > 0 {
		filter = args[0]
	}

	cfg := LoadConfig()
	logger := NewLogger(cfg)
	index := LoadRegistry(cfg, logger)

	defs := index.All()
	if filter != "" {
		defs = filterDefinitions(defs, filter)
	}

	if *cli.GlobalFlags.Json {
		reports := make([]ServiceReport, 0, len(defs))
		for _, def := range defs {
			reports = append(reports, ServiceReport{
				ID:              def.ID,
				ClassName:       def.ClassName,
				ClassFilePath:   def.ClassFilePath,
				DeclarationFile: def.DeclarationFilePath,
				Arguments:       def.Arguments,
			})
		}
		OutputJSON(map[string]interface{}{
			"workspace": *cli.GlobalFlags.Workspace,
			"filter":    filter,
			"services":  reports,
		})
		return
	}

	if len(defs) == 0 {
		if filter != "" {
			fmt.Printf("No services matching %q in %s\n", filter, *cli.GlobalFlags.Workspace)
		} else {
			fmt.Printf("No services found in %s\n", *cli.GlobalFlags.Workspace)
		}
		return
	}

	fmt.Printf("Service Definitions: %s\n", *cli.GlobalFlags.Workspace)
	fmt.Printf("====================\n")
	for _, def := range defs {
		fmt.Printf("  %-44s %s\n", def.ID, def.ClassName)
		if *cli.GlobalFlags.Verbose {
			fmt.Printf("    declared in %s\n", def.DeclarationFilePath)
			if len(def.Arguments) > 0 {
				fmt.Printf("    arguments: %s\n", strings.Join(def.Arguments, ", "))
			}
		}
	}

	fmt.Printf("\n%d services\n", len(defs))
}

// filterDefinitions keeps the definitions whose id or class name contains
// the filter substring.
func filterDefinitions(defs []*types.ServiceDefinition, filter string) []*types.ServiceDefinition {
	var kept []*types.ServiceDefinition
	for _, def := range defs {
		if strings.Contains(def.ID, filter) || strings.Contains(def.ClassName, filter) {
			kept = append(kept, def)
		}
	}
	return kept
}
