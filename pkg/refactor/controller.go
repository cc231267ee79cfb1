package refactor

import (
	"strings"

	"github.com/mamaar/drupalrefactor/pkg/types"
)

// controllerStrategy wires services into controller and form classes: use
// statements, typed properties, a constructor, and a create() factory whose
// container lookups follow constructor parameter order.
func (e *DefaultEngine) controllerStrategy(ctx *types.RefactoringContext) ([]types.RefactoringEdit, error) {
	injections := buildInjections(ctx)
	if len(injections) == 0 {
		return nil, nil
	}

	sk := ctx.Skeleton
	lines := strings.Split(ctx.Source, "\n")
	var edits []types.RefactoringEdit

	imports := append(interfaceImports(injections), containerInterfaceImport)
	if edit := buildImportEdit(sk, imports); edit != nil {
		edits = append(edits, *edit)
	}

	if edit := buildPropertyEdit(sk, injections, propertyLine); edit != nil {
		edits = append(edits, *edit)
	}

	params := make([]string, 0, len(injections))
	body := make([]string, 0, len(injections))
	args := make([]string, 0, len(injections))
	for _, inj := range injections {
		params = append(params, parameterText(inj))
		body = append(body, assignmentLine(inj))
		args = append(args, containerGet(inj))
	}

	if edit := placeConstructor(sk, lines, renderConstructor(params, body)); edit != nil {
		edits = append(edits, *edit)
	}

	withDocblock := sk.FactoryMethod == nil || sk.FactoryMethod.DocStart < 0
	factory := renderFactory([]string{"ContainerInterface $container"}, args, withDocblock)
	if edit := placeFactory(sk, lines, factory); edit != nil {
		edits = append(edits, *edit)
	}

	return edits, nil
}
