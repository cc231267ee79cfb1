package cli

import "flag"

// Flags holds all command line flags
type Flags struct {
	Version   *bool
	Workspace *string
	Config    *string
	Json      *bool
	Verbose   *bool
	Services  *string
	Role      *string
	Write     *bool
}

// GlobalFlags holds the parsed command line flags
var GlobalFlags *Flags

// InitFlags initializes all command line flags
func InitFlags() *Flags {
	return &Flags{
		Version:   flag.Bool("version", false, "Show version information"),
		Workspace: flag.String("workspace", ".", "Path to workspace root (defaults to current directory)"),
		Config:    flag.String("config", "", "Path to a configuration file (defaults to .drupalrefactor.yml in the workspace)"),
		Json:      flag.Bool("json", false, "Output results in JSON format"),
		Verbose:   flag.Bool("verbose", false, "Enable verbose output"),
		Services:  flag.String("services", "", "Comma-separated service ids to inject (defaults to all detected)"),
		Role:      flag.String("role", "", "Class role override: service, controller, form, block, plugin, field_formatter, field_widget, queue_worker"),
		Write:     flag.Bool("write", false, "Apply injection edits to disk instead of printing them"),
	}
}

// ParseFlags parses command line flags with custom usage
func ParseFlags(usage func()) {
	if GlobalFlags == nil {
		GlobalFlags = InitFlags()
	}
	flag.Usage = usage
	flag.Parse()
}
