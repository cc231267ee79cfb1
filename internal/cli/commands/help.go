package commands

import (
	"fmt"
	"os"

	"github.com/mamaar/drupalrefactor/internal/cli"
)

// HelpCommand handles help requests for specific commands
func HelpCommand(args []string) {
	if len(args) > 0 {
		cmd := args[0]
		switch cmd {
		case "detect":
			fmt.Println(`Detect Command - List static service calls in a PHP file

Usage: drupalrefactor detect <file.php>

Arguments:
  file.php   The PHP source file to scan

The detect command recognizes three call patterns, per line, in priority
order:
  - Direct lookups:     \Drupal::service('entity_type.manager')
  - Container lookups:  \Drupal::getContainer()->get('renderer')
  - Shortcut accessors: \Drupal::entityTypeManager(), \Drupal::currentUser(), ...

The scan is textual: calls inside string literals or comments are reported
too. Additional facade classes and shortcut accessors can be configured via
root_aliases and extra_shortcuts in .drupalrefactor.yml.

Examples:
  drupalrefactor detect src/Controller/ExampleController.php
  drupalrefactor --verbose detect src/ExampleService.php
  drupalrefactor --json detect src/Plugin/Block/ExampleBlock.php`)

		case "inject":
			fmt.Println(`Inject Command - Convert static service calls to constructor injection

Usage: drupalrefactor [options] inject <file.php>

Arguments:
  file.php   The PHP class file to refactor

Options:
  --services id,id   Inject only these service ids (default: all detected)
  --role r           Override the detected class role
  --write            Apply the edits to disk (default: print a preview)

The inject command analyzes the class structure and generates a consistent
edit set for the role of the class:
  - Controllers and forms get use statements, typed properties, a
    constructor, and a static create() factory method
  - Plugins (blocks, field formatters/widgets, queue workers) additionally
    declare ContainerFactoryPluginInterface and thread the plugin
    construction triple through the constructor and create()
  - Plain services merge into an existing constructor, keep its parameters
    and body verbatim, and update the class's *.services.yml arguments

Every detected call whose service is injected is replaced with a
$this->property access.

Examples:
  drupalrefactor inject src/Controller/ExampleController.php
  drupalrefactor --services entity_type.manager --write inject src/ExampleService.php
  drupalrefactor --role queue_worker inject src/Plugin/QueueWorker/ExampleWorker.php`)

		case "services":
			fmt.Println(`Services Command - List indexed service definitions

Usage: drupalrefactor services [filter]

Arguments:
  filter     Optional: show only services whose id or class name contains
             this substring

The services command walks the workspace for *.services.yml declaration
files, honoring .gitignore and the exclude patterns from .drupalrefactor.yml,
and lists every service definition found.

Examples:
  drupalrefactor services
  drupalrefactor services entity
  drupalrefactor --workspace ~/sites/example --verbose services
  drupalrefactor --json services`)

		case "skeleton":
			fmt.Println(`Skeleton Command - Dump the structural skeleton of a class file

Usage: drupalrefactor skeleton <file.php>

Arguments:
  file.php   The PHP class file to analyze

The skeleton command shows what the structural analyzer extracts from the
file: namespace, imports, class header, properties, the constructor span
and its parameters, and the static create() factory method. This is the
exact structure the inject command builds its edits on, so skeleton output
is the first place to look when an injection lands somewhere unexpected.

The analyzer is line and brace oriented, not a full PHP parser; braces
inside string literals are counted like any other brace.

Examples:
  drupalrefactor skeleton src/ExampleService.php
  drupalrefactor --json skeleton src/Controller/ExampleController.php`)

		case "version":
			fmt.Println(`Version Command - Show application version

Usage: drupalrefactor version`)

		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
			cli.Usage()
		}
	} else {
		cli.Usage()
	}
}
