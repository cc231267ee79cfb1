package refactor

import (
	"strings"

	"github.com/mamaar/drupalrefactor/pkg/types"
)

// pluginStrategy wires services into plugin classes (blocks, field
// formatters and widgets, queue workers, generic plugins). On top of the
// controller artifacts it declares ContainerFactoryPluginInterface on the
// class header when absent, and threads the plugin construction triple
// through both the constructor and create().
func (e *DefaultEngine) pluginStrategy(ctx *types.RefactoringContext) ([]types.RefactoringEdit, error) {
	injections := buildInjections(ctx)
	if len(injections) == 0 {
		return nil, nil
	}

	sk := ctx.Skeleton
	lines := strings.Split(ctx.Source, "\n")
	var edits []types.RefactoringEdit

	imports := append(interfaceImports(injections), containerInterfaceImport)
	if !implementsInterface(sk, pluginFactoryInterface) {
		imports = append(imports, pluginFactoryInterface)
		if edit := headerInterfaceEdit(sk, lines, shortInterfaceName(pluginFactoryInterface)); edit != nil {
			edits = append(edits, *edit)
		}
	}
	if edit := buildImportEdit(sk, imports); edit != nil {
		edits = append(edits, *edit)
	}

	if edit := buildPropertyEdit(sk, injections, propertyLine); edit != nil {
		edits = append(edits, *edit)
	}

	params := []string{"array $configuration", "$plugin_id", "$plugin_definition"}
	body := []string{"    parent::__construct($configuration, $plugin_id, $plugin_definition);"}
	args := []string{"$configuration", "$plugin_id", "$plugin_definition"}
	for _, inj := range injections {
		params = append(params, parameterText(inj))
		body = append(body, assignmentLine(inj))
		args = append(args, containerGet(inj))
	}

	if edit := placeConstructor(sk, lines, renderConstructor(params, body)); edit != nil {
		edits = append(edits, *edit)
	}

	factoryParams := []string{
		"ContainerInterface $container",
		"array $configuration",
		"$plugin_id",
		"$plugin_definition",
	}
	withDocblock := sk.FactoryMethod == nil || sk.FactoryMethod.DocStart < 0
	if edit := placeFactory(sk, lines, renderFactory(factoryParams, args, withDocblock)); edit != nil {
		edits = append(edits, *edit)
	}

	return edits, nil
}

// headerInterfaceEdit inserts an implements clause, or extends an existing
// one, on the class header line.
func headerInterfaceEdit(sk *types.ClassSkeleton, lines []string, name string) *types.RefactoringEdit {
	if sk.ClassLine < 0 || sk.ClassLine >= len(lines) {
		return nil
	}

	line := lines[sk.ClassLine]
	seg := line
	if idx := strings.Index(line, "{"); idx >= 0 {
		seg = line[:idx]
	}
	col := len(strings.TrimRight(seg, " \t"))

	text := " implements " + name
	if strings.Contains(seg, " implements ") {
		text = ", " + name
	}

	return &types.RefactoringEdit{
		Description: "Declare " + name + " on the class",
		Range:       types.NewRange(sk.ClassLine, col, sk.ClassLine, col),
		NewText:     text,
	}
}
