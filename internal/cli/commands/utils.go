package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mamaar/drupalrefactor/internal/cli"
	"github.com/mamaar/drupalrefactor/pkg/config"
	"github.com/mamaar/drupalrefactor/pkg/refactor"
	"github.com/mamaar/drupalrefactor/pkg/registry"
	"github.com/mamaar/drupalrefactor/pkg/types"
)

// LoadConfig loads the tool configuration honoring --config and --workspace
func LoadConfig() *config.Config {
	cfg, err := config.Load(*cli.GlobalFlags.Config, *cli.GlobalFlags.Workspace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// NewLogger builds the command logger. --verbose forces debug level.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := cfg.SlogLevel()
	if *cli.GlobalFlags.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// LoadRegistry indexes the workspace's service declaration files
func LoadRegistry(cfg *config.Config, logger *slog.Logger) *registry.Index {
	index, err := registry.LoadWithExcludes(*cli.GlobalFlags.Workspace, cfg.Exclude, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error indexing workspace services: %v\n", err)
		os.Exit(1)
	}
	return index
}

// NewEngine creates a refactoring engine from the loaded configuration.
// Commands that never resolve service types pass a nil index.
func NewEngine(cfg *config.Config, index *registry.Index, logger *slog.Logger) refactor.Engine {
	var reg types.ServiceRegistry
	if index != nil {
		reg = index
	}
	return refactor.CreateEngineWithConfig(cfg.EngineConfig(), reg, logger)
}

// ReadSourceFile reads a PHP source file or exits with an error
func ReadSourceFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}
	return string(data)
}

// AbsolutePath resolves a path for registry matching, falling back to the
// path as given
func AbsolutePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// ParseRole parses the --role flag value or exits with an error
func ParseRole(name string) types.ClassRole {
	role, ok := types.RoleFromString(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown role %q\n", name)
		fmt.Fprintf(os.Stderr, "Valid roles: service, controller, form, block, plugin, field_formatter, field_widget, queue_worker\n")
		os.Exit(1)
	}
	return role
}

// PrintEdits renders an edit list as a human-readable preview, most edits
// are returned in descending position order so they are shown reversed to
// read top to bottom.
func PrintEdits(path string, edits []types.RefactoringEdit) {
	fmt.Printf("Planned Edits: %s\n", path)
	fmt.Printf("==============\n")

	for i := len(edits) - 1; i >= 0; i-- {
		edit := edits[i]
		if edit.IsCrossFile() {
			fmt.Printf("\n%s\n", edit.Description)
			fmt.Printf("  rewrites %s\n", edit.TargetFile)
			continue
		}
		// 1-based positions for humans; the edit model is 0-based.
		fmt.Printf("\n%s at %d:%d\n", edit.Description, edit.Range.Start.Line+1, edit.Range.Start.Character+1)
		if *cli.GlobalFlags.Verbose && edit.NewText != "" {
			fmt.Printf("%s\n", indent(edit.NewText, "  | "))
		}
	}

	fmt.Printf("\n%d edits. Re-run with --write to apply them.\n", len(edits))
}

// EditReport is the JSON shape of a single edit
type EditReport struct {
	Description string `json:"description"`
	StartLine   int    `json:"start_line"`
	StartCol    int    `json:"start_column"`
	EndLine     int    `json:"end_line"`
	EndCol      int    `json:"end_column"`
	NewText     string `json:"new_text"`
	TargetFile  string `json:"target_file,omitempty"`
}

// EditReports converts an edit list for JSON output
func EditReports(edits []types.RefactoringEdit) []EditReport {
	reports := make([]EditReport, 0, len(edits))
	for _, edit := range edits {
		reports = append(reports, EditReport{
			Description: edit.Description,
			StartLine:   edit.Range.Start.Line,
			StartCol:    edit.Range.Start.Character,
			EndLine:     edit.Range.End.Line,
			EndCol:      edit.Range.End.Character,
			NewText:     edit.NewText,
			TargetFile:  edit.TargetFile,
		})
	}
	return reports
}

// CallReport is the JSON shape of a detected static service call
type CallReport struct {
	ServiceID   string `json:"service_id"`
	Line        int    `json:"line"`
	StartColumn int    `json:"start_column"`
	EndColumn   int    `json:"end_column"`
	Kind        string `json:"kind"`
	MatchedText string `json:"matched_text"`
}

// CallReports converts a call list for JSON output
func CallReports(calls []types.StaticServiceCall) []CallReport {
	reports := make([]CallReport, 0, len(calls))
	for _, call := range calls {
		reports = append(reports, CallReport{
			ServiceID:   call.ServiceID,
			Line:        call.Line,
			StartColumn: call.StartColumn,
			EndColumn:   call.EndColumn,
			Kind:        call.Kind.String(),
			MatchedText: call.MatchedText,
		})
	}
	return reports
}

// OutputJSON outputs data as JSON
func OutputJSON(data interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

// indent prefixes every line of text
func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
