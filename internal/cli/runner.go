package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// CommandFunc represents a command function signature
type CommandFunc func([]string)

// Runner routes a command name to its handler.
type Runner struct {
	commands map[string]CommandFunc
}

// NewRunner creates a new command runner
func NewRunner() *Runner {
	return &Runner{
		commands: make(map[string]CommandFunc),
	}
}

// RegisterCommand registers a command handler
func (r *Runner) RegisterCommand(name string, fn CommandFunc) {
	r.commands[name] = fn
}

// Execute runs the named command. Unknown names list what is available and
// exit non-zero.
func (r *Runner) Execute(command string, args []string) {
	fn, ok := r.commands[command]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q (available: %s)\n\n", command, strings.Join(r.names(), ", "))
		Usage()
		os.Exit(1)
	}
	fn(args)
}

// names returns the registered command names, sorted.
func (r *Runner) names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
