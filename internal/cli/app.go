package cli

import (
	"flag"
	"log"
	"os"
)

// App represents the drupalrefactor application
type App struct {
	flags *Flags
}

// NewApp creates a new application instance
func NewApp() *App {
	return &App{}
}

// Initialize sets up the application with flags and configuration
func (app *App) Initialize() {
	log.SetFlags(0) // plain messages, no timestamps
	ParseFlags(Usage)
	app.flags = GlobalFlags
}

// Run dispatches to the requested command. The version flag short-circuits
// dispatch entirely.
func (app *App) Run(runner *Runner) {
	if *app.flags.Version {
		ShowVersion()
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		Usage()
		os.Exit(1)
	}

	runner.Execute(args[0], args[1:])
}
