package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/mamaar/drupalrefactor/internal/cli"
	"github.com/mamaar/drupalrefactor/pkg/analysis"
	"github.com/mamaar/drupalrefactor/pkg/refactor"
	"github.com/mamaar/drupalrefactor/pkg/types"
)

// InjectCommand converts static service calls in a PHP file into
// constructor-injected dependencies
func InjectCommand(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: inject requires 1 argument: <file.php>\n")
		fmt.Fprintf(os.Stderr, "Usage: drupalrefactor [--services id,id] [--role r] [--write] inject src/Example.php\n")
		os.Exit(1)
	}

	path := args[0]
	source := ReadSourceFile(path)
	role := ParseRole(*cli.GlobalFlags.Role)

	cfg := LoadConfig()
	logger := NewLogger(cfg)
	index := LoadRegistry(cfg, logger)
	engine := NewEngine(cfg, index, logger)

	serviceIDs := selectedServices(engine, source)
	if len(serviceIDs) == 0 {
		fmt.Printf("No static service calls to inject in %s\n", path)
		return
	}

	rctx := &types.RefactoringContext{
		FilePath:   AbsolutePath(path),
		Source:     source,
		Role:       role,
		ServiceIDs: serviceIDs,
	}

	edits, err := engine.Refactor(rctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating edits: %v\n", err)
		os.Exit(1)
	}
	if len(edits) == 0 {
		fmt.Printf("Nothing to change in %s\n", path)
		return
	}

	if *cli.GlobalFlags.Json {
		OutputJSON(map[string]interface{}{
			"file":     path,
			"services": serviceIDs,
			"edits":    EditReports(edits),
			"applied":  *cli.GlobalFlags.Write,
		})
		if !*cli.GlobalFlags.Write {
			return
		}
	}

	if !*cli.GlobalFlags.Write {
		PrintEdits(path, edits)
		return
	}

	serializer := refactor.NewSerializer(logger)
	if err := serializer.ApplyEdits(path, edits); err != nil {
		fmt.Fprintf(os.Stderr, "Error applying edits: %v\n", err)
		os.Exit(1)
	}

	if !*cli.GlobalFlags.Json {
		fmt.Printf("Injected %d services into %s (%d edits)\n", len(serviceIDs), path, len(edits))
		for _, edit := range edits {
			if edit.IsCrossFile() {
				fmt.Printf("Updated service declaration %s\n", edit.TargetFile)
			}
		}
	}
}

// selectedServices resolves the injection set: the --services flag when
// given, otherwise every distinct service the detector finds.
func selectedServices(engine refactor.Engine, source string) []string {
	if *cli.GlobalFlags.Services != "" {
		var ids []string
		for _, id := range strings.Split(*cli.GlobalFlags.Services, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		return ids
	}
	return analysis.UniqueServices(engine.DetectCalls(source))
}
