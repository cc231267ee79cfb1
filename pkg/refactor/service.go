package refactor

import (
	"strings"

	"github.com/mamaar/drupalrefactor/pkg/types"
)

// serviceStrategy wires services into plain service classes. Dependencies
// arrive through the service declaration rather than a create() factory, so
// no factory method is generated; instead the class's *.services.yml entry
// is synchronized. An existing constructor is merged into, never replaced.
func (e *DefaultEngine) serviceStrategy(ctx *types.RefactoringContext) ([]types.RefactoringEdit, error) {
	injections := buildInjections(ctx)
	if len(injections) == 0 {
		return nil, nil
	}

	sk := ctx.Skeleton
	lines := strings.Split(ctx.Source, "\n")
	var edits []types.RefactoringEdit

	if edit := buildImportEdit(sk, interfaceImports(injections)); edit != nil {
		edits = append(edits, *edit)
	}

	if edit := buildPropertyEdit(sk, injections, documentedProperty); edit != nil {
		edits = append(edits, *edit)
	}

	if sk.Constructor != nil {
		edits = append(edits, mergeConstructor(sk, lines, injections))
	} else {
		params := make([]string, 0, len(injections))
		body := make([]string, 0, len(injections))
		for _, inj := range injections {
			params = append(params, parameterText(inj))
			body = append(body, assignmentLine(inj))
		}
		if edit := placeConstructor(sk, lines, renderConstructor(params, body)); edit != nil {
			edits = append(edits, *edit)
		}
	}

	if edit := e.syncServiceArguments(ctx, injections); edit != nil {
		edits = append(edits, *edit)
	}

	return edits, nil
}

// mergeConstructor rebuilds the existing constructor keeping the original
// parameter texts and body lines verbatim, with the new parameters and
// assignments appended after them. Injections whose property name collides
// with an existing parameter are already wired and get skipped.
func mergeConstructor(sk *types.ClassSkeleton, lines []string, injections []injection) types.RefactoringEdit {
	ctor := sk.Constructor

	params := make([]string, 0, len(ctor.RawParameters)+len(injections))
	params = append(params, ctor.RawParameters...)
	body := make([]string, 0, len(ctor.BodyLines)+len(injections))
	body = append(body, ctor.BodyLines...)

	existing := make(map[string]bool, len(ctor.Parameters))
	for _, p := range ctor.Parameters {
		existing[strings.TrimPrefix(p.Name, "$")] = true
	}

	for _, inj := range injections {
		if existing[inj.Property] {
			continue
		}
		params = append(params, parameterText(inj))
		body = append(body, assignmentLine(inj))
	}

	return types.RefactoringEdit{
		Description: "Merge constructor parameters",
		Range:       methodSpanRange(lines, ctor.StartLine, ctor.EndLine),
		NewText:     renderConstructor(params, body),
	}
}
