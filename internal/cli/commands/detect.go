package commands

import (
	"fmt"
	"os"

	"github.com/mamaar/drupalrefactor/internal/cli"
	"github.com/mamaar/drupalrefactor/pkg/analysis"
)

// DetectCommand lists the static service calls in a PHP file
func DetectCommand(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: detect requires 1 argument: <file.php>\n")
		fmt.Fprintf(os.Stderr, "Usage: drupalrefactor detect src/Controller/ExampleController.php\n")
		os.Exit(1)
	}

	path := args[0]
	source := ReadSourceFile(path)

	cfg := LoadConfig()
	logger := NewLogger(cfg)
	engine := NewEngine(cfg, nil, logger)

	calls := engine.DetectCalls(source)
	ids := analysis.UniqueServices(calls)

	if *cli.GlobalFlags.Json {
		OutputJSON(map[string]interface{}{
			"file":     path,
			"calls":    CallReports(calls),
			"services": ids,
		})
		return
	}

	if len(calls) == 0 {
		fmt.Printf("No static service calls found in %s\n", path)
		return
	}

	fmt.Printf("Static Service Calls: %s\n", path)
	fmt.Printf("=====================\n")
	for _, call := range calls {
		fmt.Printf("  %4d:%-4d %-10s %s\n", call.Line+1, call.StartColumn+1, call.Kind.String(), call.ServiceID)
		if *cli.GlobalFlags.Verbose {
			fmt.Printf("            %s\n", call.MatchedText)
		}
	}

	fmt.Printf("\n%d calls referencing %d distinct services\n", len(calls), len(ids))
}
