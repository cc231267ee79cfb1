package refactor

import (
	"fmt"
	"strings"

	"github.com/mamaar/drupalrefactor/pkg/analysis"
	"github.com/mamaar/drupalrefactor/pkg/types"
)

// strategyFunc generates the structural edits for one class role. Every edit
// is positioned against the original source text, so edits within one call
// never depend on each other's application.
type strategyFunc func(ctx *types.RefactoringContext) ([]types.RefactoringEdit, error)

// containerInterfaceImport is the DI container type taken by generated
// create() factory methods.
const containerInterfaceImport = `Symfony\Component\DependencyInjection\ContainerInterface`

// pluginFactoryInterface is declared on plugin class headers that lack it.
const pluginFactoryInterface = `Drupal\Core\Plugin\ContainerFactoryPluginInterface`

// injection describes one service to wire into the constructor.
type injection struct {
	ServiceID string
	Property  string
	Info      *types.ServiceInterfaceInfo
}

// buildInjections resolves the context's selected services into injection
// targets, deduplicated in first-seen order. Services without a registry
// entry stay untyped.
func buildInjections(ctx *types.RefactoringContext) []injection {
	var injections []injection
	seen := make(map[string]bool)

	for _, id := range ctx.ServiceIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		injections = append(injections, injection{
			ServiceID: id,
			Property:  analysis.DerivePropertyName(id),
			Info:      analysis.ResolveServiceInterface(ctx.Registry, id),
		})
	}

	return injections
}

// interfaceImports collects the resolved interface names of the injections.
func interfaceImports(injections []injection) []string {
	var imports []string
	for _, inj := range injections {
		if inj.Info != nil {
			imports = append(imports, inj.Info.FullName)
		}
	}
	return imports
}

// parameterText renders the constructor parameter for one injection.
func parameterText(inj injection) string {
	if inj.Info != nil {
		return inj.Info.ShortName + " $" + inj.Property
	}
	return "$" + inj.Property
}

// assignmentLine renders the property assignment inside the constructor body.
func assignmentLine(inj injection) string {
	return fmt.Sprintf("    $this->%s = $%s;", inj.Property, inj.Property)
}

// propertyLine renders a bare property declaration.
func propertyLine(inj injection) string {
	if inj.Info != nil {
		return fmt.Sprintf("  protected %s $%s;", inj.Info.ShortName, inj.Property)
	}
	return fmt.Sprintf("  protected $%s;", inj.Property)
}

// documentedProperty renders a property declaration with a docblock naming
// the service.
func documentedProperty(inj injection) string {
	var b strings.Builder
	b.WriteString("  /**\n")
	fmt.Fprintf(&b, "   * The %s.\n", analysis.ServiceLabel(inj.ServiceID))
	if inj.Info != nil {
		b.WriteString("   *\n")
		fmt.Fprintf(&b, "   * @var \\%s\n", inj.Info.FullName)
	}
	b.WriteString("   */\n")
	b.WriteString(propertyLine(inj))
	return b.String()
}

// containerGet renders the container lookup expression for a factory body.
func containerGet(inj injection) string {
	return fmt.Sprintf("$container->get('%s')", inj.ServiceID)
}

// buildImportEdit returns an insert edit adding the missing use statements,
// or nil when every import is already present.
func buildImportEdit(sk *types.ClassSkeleton, names []string) *types.RefactoringEdit {
	var missing []string
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimPrefix(name, `\`)
		if name == "" || seen[name] || sk.HasImport(name) {
			continue
		}
		seen[name] = true
		missing = append(missing, name)
	}
	if len(missing) == 0 {
		return nil
	}

	var b strings.Builder
	for _, name := range missing {
		fmt.Fprintf(&b, "use %s;\n", name)
	}

	line := sk.ImportInsertLine()
	return &types.RefactoringEdit{
		Description: "Add use statements",
		Range:       types.NewRange(line, 0, line, 0),
		NewText:     b.String(),
	}
}

// buildPropertyEdit returns an insert edit declaring one property per
// injection, rendered by the given function. Properties the class already
// declares are skipped.
func buildPropertyEdit(sk *types.ClassSkeleton, injections []injection, render func(injection) string) *types.RefactoringEdit {
	var blocks []string
	for _, inj := range injections {
		if _, exists := sk.Properties[inj.Property]; exists {
			continue
		}
		blocks = append(blocks, render(inj))
	}
	if len(blocks) == 0 {
		return nil
	}

	line := sk.PropertyInsertLine()
	text := strings.Join(blocks, "\n\n")
	if sk.FirstPropertyLine >= 0 && len(sk.TraitUseLines) == 0 {
		// Inserting directly above the first property block.
		text += "\n\n"
	} else {
		text = "\n" + text + "\n"
	}

	return &types.RefactoringEdit{
		Description: "Add injected service properties",
		Range:       types.NewRange(line, 0, line, 0),
		NewText:     text,
	}
}

// renderConstructor renders a complete constructor declaration without a
// trailing newline.
func renderConstructor(params, body []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  public function __construct(%s) {\n", strings.Join(params, ", "))
	for _, line := range body {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("  }")
	return b.String()
}

// renderFactory renders a static create() method returning a new instance
// built from the given constructor arguments, without a trailing newline.
func renderFactory(params, args []string, withDocblock bool) string {
	var b strings.Builder
	if withDocblock {
		b.WriteString("  /**\n   * {@inheritdoc}\n   */\n")
	}
	fmt.Fprintf(&b, "  public static function create(%s) {\n", strings.Join(params, ", "))
	b.WriteString("    return new static(\n")
	for i, arg := range args {
		b.WriteString("      " + arg)
		if i < len(args)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("    );\n")
	b.WriteString("  }")
	return b.String()
}

// methodSpanRange covers a method declaration through the end of its closing
// brace line. A preceding docblock stays in place.
func methodSpanRange(lines []string, startLine, endLine int) types.Range {
	endCol := 0
	if endLine >= 0 && endLine < len(lines) {
		endCol = len(lines[endLine])
	}
	return types.NewRange(startLine, 0, endLine, endCol)
}

// classEndLine returns the line holding the class's closing brace, or -1
// when the braces never balance before end of input.
func classEndLine(lines []string, classLine int) int {
	if classLine < 0 || classLine >= len(lines) {
		return -1
	}

	depth := 0
	opened := false
	for i := classLine; i < len(lines); i++ {
		depth += strings.Count(lines[i], "{") - strings.Count(lines[i], "}")
		if strings.Contains(lines[i], "{") {
			opened = true
		}
		if opened && depth <= 0 {
			return i
		}
	}

	return -1
}

// placeConstructor positions a constructor edit: replacing the existing
// constructor when one exists, inserting before an existing factory method,
// or appending at the end of the class body. Returns nil when the class body
// never closes.
func placeConstructor(sk *types.ClassSkeleton, lines []string, text string) *types.RefactoringEdit {
	if sk.Constructor != nil {
		return &types.RefactoringEdit{
			Description: "Replace constructor",
			Range:       methodSpanRange(lines, sk.Constructor.StartLine, sk.Constructor.EndLine),
			NewText:     text,
		}
	}

	if sk.FactoryMethod != nil {
		line := sk.FactoryMethod.StartLine
		if sk.FactoryMethod.DocStart >= 0 {
			line = sk.FactoryMethod.DocStart
		}
		return &types.RefactoringEdit{
			Description: "Add constructor",
			Range:       types.NewRange(line, 0, line, 0),
			NewText:     text + "\n\n",
		}
	}

	end := classEndLine(lines, sk.ClassLine)
	if end <= sk.ClassLine {
		return nil
	}
	anchor := lastContentLine(lines, sk.ClassLine, end)
	col := len(lines[anchor])
	return &types.RefactoringEdit{
		Description: "Add constructor",
		Range:       types.NewRange(anchor, col, anchor, col),
		NewText:     "\n\n" + text,
	}
}

// lastContentLine returns the last non-blank line of the class body before
// end, falling back to the class header line for an empty body.
func lastContentLine(lines []string, classLine, end int) int {
	anchor := end - 1
	for anchor > classLine && strings.TrimSpace(lines[anchor]) == "" {
		anchor--
	}
	return anchor
}

// placeFactory positions a create() edit: replacing the existing factory,
// inserting after the constructor, or appending at the end of the class
// body. Returns nil when the class body never closes.
func placeFactory(sk *types.ClassSkeleton, lines []string, text string) *types.RefactoringEdit {
	if sk.FactoryMethod != nil {
		return &types.RefactoringEdit{
			Description: "Replace create() factory method",
			Range:       methodSpanRange(lines, sk.FactoryMethod.StartLine, sk.FactoryMethod.EndLine),
			NewText:     text,
		}
	}

	if sk.Constructor != nil {
		line := sk.Constructor.EndLine
		col := 0
		if line >= 0 && line < len(lines) {
			col = len(lines[line])
		}
		return &types.RefactoringEdit{
			Description: "Add create() factory method",
			Range:       types.NewRange(line, col, line, col),
			NewText:     "\n\n" + text,
		}
	}

	end := classEndLine(lines, sk.ClassLine)
	if end <= sk.ClassLine {
		return nil
	}
	newText := text + "\n\n"
	if lastContentLine(lines, sk.ClassLine, end) == end-1 {
		// No blank line separates the class body from the closing brace.
		newText = "\n" + text + "\n\n"
	}
	return &types.RefactoringEdit{
		Description: "Add create() factory method",
		Range:       types.NewRange(end, 0, end, 0),
		NewText:     newText,
	}
}

// implementsInterface reports whether the class header already declares the
// interface, comparing short names so imported and fully qualified spellings
// both count.
func implementsInterface(sk *types.ClassSkeleton, name string) bool {
	want := shortInterfaceName(name)
	for _, iface := range sk.Interfaces {
		if shortInterfaceName(iface) == want {
			return true
		}
	}
	return false
}

func shortInterfaceName(name string) string {
	name = strings.TrimPrefix(name, `\`)
	if idx := strings.LastIndex(name, `\`); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
