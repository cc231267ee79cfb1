package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mamaar/drupalrefactor/internal/cli"
	"github.com/mamaar/drupalrefactor/pkg/analysis"
	"github.com/mamaar/drupalrefactor/pkg/types"
)

// SkeletonCommand dumps the structural skeleton the analyzer extracts from
// a PHP class file, as a debugging aid for injection results
func SkeletonCommand(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: skeleton requires 1 argument: <file.php>\n")
		fmt.Fprintf(os.Stderr, "Usage: drupalrefactor skeleton src/ExampleService.php\n")
		os.Exit(1)
	}

	path := args[0]
	source := ReadSourceFile(path)

	cfg := LoadConfig()
	logger := NewLogger(cfg)
	engine := NewEngine(cfg, nil, logger)

	sk := engine.AnalyzeClass(source)

	if *cli.GlobalFlags.Json {
		OutputJSON(skeletonReport(path, sk))
		return
	}

	if sk.ClassLine < 0 {
		fmt.Printf("No class, interface or trait found in %s\n", path)
		return
	}

	fmt.Printf("Class Skeleton: %s\n", path)
	fmt.Printf("===============\n")
	fmt.Printf("Class: %s (line %d)\n", sk.ClassName, sk.ClassLine+1)
	if sk.Namespace != "" {
		fmt.Printf("Namespace: %s\n", sk.Namespace)
	}
	if sk.ParentClass != "" {
		fmt.Printf("Extends: %s\n", sk.ParentClass)
	}
	if len(sk.Interfaces) > 0 {
		fmt.Printf("Implements: %s\n", strings.Join(sk.Interfaces, ", "))
	}
	fmt.Printf("Role: %s\n", analysis.DetectRole(sk).String())

	if len(sk.Imports) > 0 {
		fmt.Printf("\nImports (%d):\n", len(sk.Imports))
		for _, name := range sortedImports(sk) {
			fmt.Printf("  %s\n", name)
		}
	}

	if len(sk.Properties) > 0 {
		fmt.Printf("\nProperties (%d):\n", len(sk.Properties))
		for _, prop := range sortedProperties(sk) {
			if prop.Type != "" {
				fmt.Printf("  $%s: %s (line %d)\n", prop.Name, prop.Type, prop.Line+1)
			} else {
				fmt.Printf("  $%s (line %d)\n", prop.Name, prop.Line+1)
			}
		}
	}

	if ctor := sk.Constructor; ctor != nil {
		fmt.Printf("\nConstructor: lines %d-%d\n", ctor.StartLine+1, ctor.EndLine+1)
		for _, param := range ctor.Parameters {
			if param.Type != "" {
				fmt.Printf("  %s %s\n", param.Type, param.Name)
			} else {
				fmt.Printf("  %s\n", param.Name)
			}
		}
	} else {
		fmt.Printf("\nConstructor: none\n")
	}

	if factory := sk.FactoryMethod; factory != nil {
		fmt.Printf("Factory create(): lines %d-%d\n", factory.StartLine+1, factory.EndLine+1)
		for _, id := range factory.RetrievedServices {
			fmt.Printf("  retrieves %s\n", id)
		}
	} else {
		fmt.Printf("Factory create(): none\n")
	}
}

// skeletonReport flattens a skeleton for JSON output
func skeletonReport(path string, sk *types.ClassSkeleton) map[string]interface{} {
	report := map[string]interface{}{
		"file":       path,
		"class_name": sk.ClassName,
		"class_line": sk.ClassLine,
		"namespace":  sk.Namespace,
		"role":       analysis.DetectRole(sk).String(),
	}
	if sk.ParentClass != "" {
		report["parent_class"] = sk.ParentClass
	}
	if len(sk.Interfaces) > 0 {
		report["interfaces"] = sk.Interfaces
	}
	if len(sk.Imports) > 0 {
		report["imports"] = sortedImports(sk)
	}

	if len(sk.Properties) > 0 {
		props := make([]map[string]interface{}, 0, len(sk.Properties))
		for _, prop := range sortedProperties(sk) {
			props = append(props, map[string]interface{}{
				"name": prop.Name,
				"type": prop.Type,
				"line": prop.Line,
			})
		}
		report["properties"] = props
	}

	if ctor := sk.Constructor; ctor != nil {
		params := make([]map[string]string, 0, len(ctor.Parameters))
		for _, param := range ctor.Parameters {
			params = append(params, map[string]string{"name": param.Name, "type": param.Type})
		}
		report["constructor"] = map[string]interface{}{
			"start_line": ctor.StartLine,
			"end_line":   ctor.EndLine,
			"parameters": params,
		}
	}

	if factory := sk.FactoryMethod; factory != nil {
		report["factory_method"] = map[string]interface{}{
			"start_line":         factory.StartLine,
			"end_line":           factory.EndLine,
			"retrieved_services": factory.RetrievedServices,
		}
	}

	return report
}

// sortedImports returns the imported names ordered by use-statement line
func sortedImports(sk *types.ClassSkeleton) []string {
	names := make([]string, 0, len(sk.Imports))
	for name := range sk.Imports {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return sk.Imports[names[i]] < sk.Imports[names[j]]
	})
	return names
}

// sortedProperties returns the properties ordered by declaration line
func sortedProperties(sk *types.ClassSkeleton) []types.PropertyInfo {
	props := make([]types.PropertyInfo, 0, len(sk.Properties))
	for _, prop := range sk.Properties {
		props = append(props, prop)
	}
	sort.Slice(props, func(i, j int) bool {
		return props[i].Line < props[j].Line
	})
	return props
}
