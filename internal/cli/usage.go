package cli

import (
	"flag"
	"fmt"
	"os"
)

// Usage prints the usage information for the drupalrefactor command
func Usage() {
	fmt.Fprintf(os.Stderr, `DrupalRefactor - Dependency injection refactoring for Drupal PHP

Usage: drupalrefactor [options] <command> [arguments]

Commands:
  detect <file.php>
    List the static service calls in a PHP file
    (\Drupal::service(...), \Drupal::getContainer()->get(...), shortcut accessors)

  inject <file.php>
    Convert static service calls into constructor-injected dependencies.
    Prints the planned edits; use --write to apply them.

  services [filter]
    List the service definitions indexed from the workspace's *.services.yml
    files, optionally filtered by a substring of the id or class name

  skeleton <file.php>
    Dump the structural skeleton extracted from a class file
    (imports, properties, constructor, factory method)

  version
    Show version information

  help [command]
    Show help for a specific command

Options:
`)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  # List the static service calls in a controller
  drupalrefactor detect src/Controller/ExampleController.php

  # Preview the injection edits for every detected service
  drupalrefactor inject src/ExampleService.php

  # Inject selected services and write the result back to disk
  drupalrefactor --services entity_type.manager,current_user --write inject src/Controller/ExampleController.php

  # Force the block strategy on a class whose parent is not recognized
  drupalrefactor --role block inject src/Plugin/Block/ExampleBlock.php

  # List the indexed services of another workspace
  drupalrefactor --workspace ~/sites/example services

  # List services whose id or class mentions entity
  drupalrefactor services entity

  # Inspect what the analyzer sees in a class
  drupalrefactor --json skeleton src/ExampleService.php
`)
}
