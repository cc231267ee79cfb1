package refactor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mamaar/drupalrefactor/pkg/registry"
	"github.com/mamaar/drupalrefactor/pkg/types"
)

// syncServiceArguments produces the cross-file edit appending the newly
// injected service ids to the class's entry in its *.services.yml
// declaration. The owning entry is resolved by class file path first, then
// by derived fully qualified class name. Every failure path yields no edit:
// declaration sync never blocks the PHP edits.
func (e *DefaultEngine) syncServiceArguments(ctx *types.RefactoringContext, injections []injection) *types.RefactoringEdit {
	if ctx.Registry == nil {
		return nil
	}

	owner := findOwningDefinition(ctx)
	if owner == nil || owner.DeclarationFilePath == "" {
		e.logger.Debug("no service declaration found for class", "file", ctx.FilePath)
		return nil
	}

	data, err := os.ReadFile(owner.DeclarationFilePath)
	if err != nil {
		e.logger.Debug("skipping declaration sync", "file", owner.DeclarationFilePath, "error", err)
		return nil
	}

	defs, err := registry.ParseServicesData(owner.DeclarationFilePath, data)
	if err != nil {
		e.logger.Debug("skipping declaration sync", "file", owner.DeclarationFilePath, "error", err)
		return nil
	}

	var current *types.ServiceDefinition
	for _, def := range defs {
		if def.ID == owner.ID {
			current = def
			break
		}
	}
	if current == nil {
		e.logger.Debug("service entry missing from declaration file",
			"service", owner.ID, "file", owner.DeclarationFilePath)
		return nil
	}

	present := make(map[string]bool, len(current.Arguments))
	for _, arg := range current.Arguments {
		present[registry.StripReferenceMarker(arg)] = true
	}

	var missing []string
	for _, inj := range injections {
		if !present[inj.ServiceID] {
			missing = append(missing, inj.ServiceID)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	rewritten, err := registry.AppendArguments(data, owner.ID, missing)
	if err != nil {
		e.logger.Debug("skipping declaration sync", "file", owner.DeclarationFilePath, "error", err)
		return nil
	}

	return &types.RefactoringEdit{
		Description: fmt.Sprintf("Add arguments to service %s", owner.ID),
		Range:       types.NewRange(0, 0, 0, 0),
		NewText:     string(rewritten),
		TargetFile:  owner.DeclarationFilePath,
	}
}

// findOwningDefinition locates the registry entry declaring the class under
// edit.
func findOwningDefinition(ctx *types.RefactoringContext) *types.ServiceDefinition {
	defs := ctx.Registry.All()

	if ctx.FilePath != "" {
		want := filepath.Clean(ctx.FilePath)
		abs, absErr := filepath.Abs(ctx.FilePath)
		for _, def := range defs {
			if def.ClassFilePath == "" {
				continue
			}
			path := filepath.Clean(def.ClassFilePath)
			if path == want || (absErr == nil && path == abs) {
				return def
			}
		}
	}

	if ctx.Skeleton != nil {
		fqcn := ctx.Skeleton.FullyQualifiedName()
		if fqcn != "" {
			for _, def := range defs {
				if strings.TrimPrefix(def.ClassName, `\`) == fqcn {
					return def
				}
			}
		}
	}

	return nil
}
