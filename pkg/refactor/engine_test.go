package refactor

import (
	"errors"
	"strings"
	"testing"

	"github.com/mamaar/drupalrefactor/pkg/types"
)

type fakeRegistry map[string]*types.ServiceDefinition

func (r fakeRegistry) Lookup(id string) (*types.ServiceDefinition, bool) {
	def, ok := r[id]
	return def, ok
}

func (r fakeRegistry) All() []*types.ServiceDefinition {
	defs := make([]*types.ServiceDefinition, 0, len(r))
	for _, def := range r {
		defs = append(defs, def)
	}
	return defs
}

func findEdit(t *testing.T, edits []types.RefactoringEdit, prefix string) types.RefactoringEdit {
	t.Helper()
	for _, edit := range edits {
		if strings.HasPrefix(edit.Description, prefix) {
			return edit
		}
	}
	t.Fatalf("No edit with description prefix %q in %v", prefix, edits)
	return types.RefactoringEdit{}
}

func hasEdit(edits []types.RefactoringEdit, prefix string) bool {
	for _, edit := range edits {
		if strings.HasPrefix(edit.Description, prefix) {
			return true
		}
	}
	return false
}

func assertDescendingOrder(t *testing.T, edits []types.RefactoringEdit) {
	t.Helper()
	for i := 1; i < len(edits); i++ {
		if edits[i].IsCrossFile() {
			continue
		}
		if !positionAfter(edits[i-1].Range.Start, edits[i].Range.Start) {
			t.Errorf("Expected edit %d (%v) to start after edit %d (%v)",
				i-1, edits[i-1].Range.Start, i, edits[i].Range.Start)
		}
	}
}

func controllerFixture() string {
	return strings.Join([]string{
		"<?php",
		"",
		"namespace Drupal\\example\\Controller;",
		"",
		"use Drupal\\Core\\Controller\\ControllerBase;",
		"",
		"class ExampleController extends ControllerBase {",
		"",
		"  public function build() {",
		"    $storage = \\Drupal::service('entity_type.manager')->getStorage('node');",
		"    return [];",
		"  }",
		"",
		"}",
	}, "\n")
}

func TestRefactor_ControllerEndToEnd(t *testing.T) {
	registry := fakeRegistry{
		"entity_type.manager": {
			ID:        "entity_type.manager",
			ClassName: "Drupal\\Core\\Entity\\EntityTypeManager",
		},
	}
	engine := CreateEngine(registry, nil)

	ctx := &types.RefactoringContext{
		FilePath:   "ExampleController.php",
		Source:     controllerFixture(),
		ServiceIDs: []string{"entity_type.manager"},
	}

	edits, err := engine.Refactor(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(edits) != 5 {
		t.Fatalf("Expected 5 edits, got %d: %v", len(edits), edits)
	}
	assertDescendingOrder(t, edits)

	importEdit := findEdit(t, edits, "Add use statements")
	if !strings.Contains(importEdit.NewText, "use Drupal\\Core\\Entity\\EntityTypeManagerInterface;") {
		t.Errorf("Expected interface import, got %q", importEdit.NewText)
	}
	if !strings.Contains(importEdit.NewText, "use Symfony\\Component\\DependencyInjection\\ContainerInterface;") {
		t.Errorf("Expected container import, got %q", importEdit.NewText)
	}
	if importEdit.Range.Start.Line != 5 {
		t.Errorf("Expected imports inserted at line 5, got %d", importEdit.Range.Start.Line)
	}

	propertyEdit := findEdit(t, edits, "Add injected service properties")
	if !strings.Contains(propertyEdit.NewText, "protected EntityTypeManagerInterface $entityTypeManager;") {
		t.Errorf("Expected typed property declaration, got %q", propertyEdit.NewText)
	}

	ctorEdit := findEdit(t, edits, "Add constructor")
	if !strings.Contains(ctorEdit.NewText, "__construct(EntityTypeManagerInterface $entityTypeManager)") {
		t.Errorf("Expected typed constructor parameter, got %q", ctorEdit.NewText)
	}
	if !strings.Contains(ctorEdit.NewText, "$this->entityTypeManager = $entityTypeManager;") {
		t.Errorf("Expected property assignment, got %q", ctorEdit.NewText)
	}

	factoryEdit := findEdit(t, edits, "Add create() factory method")
	if !strings.Contains(factoryEdit.NewText, "create(ContainerInterface $container)") {
		t.Errorf("Expected factory signature, got %q", factoryEdit.NewText)
	}
	if !strings.Contains(factoryEdit.NewText, "$container->get('entity_type.manager')") {
		t.Errorf("Expected container lookup in factory, got %q", factoryEdit.NewText)
	}

	replacement := findEdit(t, edits, "Replace static call")
	if replacement.NewText != "$this->entityTypeManager" {
		t.Errorf("Expected replacement '$this->entityTypeManager', got %q", replacement.NewText)
	}
	if replacement.Range.Start.Line != 9 {
		t.Errorf("Expected replacement on line 9, got %d", replacement.Range.Start.Line)
	}
}

func TestRefactor_ControllerAppliedOutput(t *testing.T) {
	registry := fakeRegistry{
		"entity_type.manager": {
			ID:        "entity_type.manager",
			ClassName: "Drupal\\Core\\Entity\\EntityTypeManager",
		},
	}
	engine := CreateEngine(registry, nil)

	ctx := &types.RefactoringContext{
		Source:     controllerFixture(),
		ServiceIDs: []string{"entity_type.manager"},
	}

	edits, err := engine.Refactor(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	result, err := NewSerializer(nil).ApplyToSource(ctx.Source, edits)
	if err != nil {
		t.Fatalf("Expected edits to apply, got %v", err)
	}

	expected := strings.Join([]string{
		"<?php",
		"",
		"namespace Drupal\\example\\Controller;",
		"",
		"use Drupal\\Core\\Controller\\ControllerBase;",
		"use Drupal\\Core\\Entity\\EntityTypeManagerInterface;",
		"use Symfony\\Component\\DependencyInjection\\ContainerInterface;",
		"",
		"class ExampleController extends ControllerBase {",
		"",
		"  protected EntityTypeManagerInterface $entityTypeManager;",
		"",
		"  public function build() {",
		"    $storage = $this->entityTypeManager->getStorage('node');",
		"    return [];",
		"  }",
		"",
		"  public function __construct(EntityTypeManagerInterface $entityTypeManager) {",
		"    $this->entityTypeManager = $entityTypeManager;",
		"  }",
		"",
		"  /**",
		"   * {@inheritdoc}",
		"   */",
		"  public static function create(ContainerInterface $container) {",
		"    return new static(",
		"      $container->get('entity_type.manager')",
		"    );",
		"  }",
		"",
		"}",
	}, "\n")

	if result != expected {
		t.Errorf("Applied output mismatch.\nExpected:\n%s\n\nGot:\n%s", expected, result)
	}
}

func TestRefactor_NilContext(t *testing.T) {
	engine := CreateEngine(nil, nil)

	_, err := engine.Refactor(nil)
	if err == nil {
		t.Fatal("Expected an error for a nil context")
	}

	var refErr *types.RefactorError
	if !errors.As(err, &refErr) {
		t.Fatalf("Expected a RefactorError, got %T", err)
	}
	if refErr.Type != types.InvalidOperation {
		t.Errorf("Expected InvalidOperation, got %v", refErr.Type)
	}
}

func TestRefactor_NoServicesSelected(t *testing.T) {
	engine := CreateEngine(nil, nil)

	edits, err := engine.Refactor(&types.RefactoringContext{Source: controllerFixture()})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(edits) != 0 {
		t.Errorf("Expected no edits, got %d", len(edits))
	}
}

func TestRefactor_NoClassHeader(t *testing.T) {
	engine := CreateEngine(nil, nil)

	ctx := &types.RefactoringContext{
		Source:     "<?php\n$x = \\Drupal::service('state');\n",
		ServiceIDs: []string{"state"},
	}

	edits, err := engine.Refactor(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(edits) != 0 {
		t.Errorf("Expected no edits without a class header, got %d", len(edits))
	}
}

func TestRefactor_UnknownServiceInjectedUntyped(t *testing.T) {
	engine := CreateEngine(nil, nil)

	source := strings.Join([]string{
		"<?php",
		"",
		"namespace Drupal\\example;",
		"",
		"class AcmeWrapper {",
		"",
		"  public function send() {",
		"    return \\Drupal::service('acme.client')->send();",
		"  }",
		"",
		"}",
	}, "\n")

	edits, err := engine.Refactor(&types.RefactoringContext{
		Source:     source,
		ServiceIDs: []string{"acme.client"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if hasEdit(edits, "Add use statements") {
		t.Error("Expected no import edit for an unresolved service")
	}

	propertyEdit := findEdit(t, edits, "Add injected service properties")
	if !strings.Contains(propertyEdit.NewText, "protected $acmeClient;") {
		t.Errorf("Expected untyped property, got %q", propertyEdit.NewText)
	}

	ctorEdit := findEdit(t, edits, "Add constructor")
	if !strings.Contains(ctorEdit.NewText, "__construct($acmeClient)") {
		t.Errorf("Expected untyped parameter, got %q", ctorEdit.NewText)
	}
}

func TestRefactor_ExplicitRoleOverridesDetection(t *testing.T) {
	engine := CreateEngine(nil, nil)

	source := strings.Join([]string{
		"<?php",
		"",
		"namespace Drupal\\example;",
		"",
		"class PlainClass {",
		"",
		"  public function go() {",
		"    return \\Drupal::service('state')->get('key');",
		"  }",
		"",
		"}",
	}, "\n")

	edits, err := engine.Refactor(&types.RefactoringContext{
		Source:     source,
		Role:       types.RoleController,
		ServiceIDs: []string{"state"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !hasEdit(edits, "Add create() factory method") {
		t.Error("Expected a factory edit when the controller role is forced")
	}
}

func TestRefactor_DuplicateServiceIDs(t *testing.T) {
	engine := CreateEngine(nil, nil)

	source := strings.Join([]string{
		"<?php",
		"",
		"namespace Drupal\\example;",
		"",
		"class DbHolder {",
		"",
		"  public function go() {",
		"    return \\Drupal::service('database')->query('SELECT 1');",
		"  }",
		"",
		"}",
	}, "\n")

	edits, err := engine.Refactor(&types.RefactoringContext{
		Source:     source,
		ServiceIDs: []string{"database", "database"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ctorEdit := findEdit(t, edits, "Add constructor")
	if count := strings.Count(ctorEdit.NewText, "$this->database = $database;"); count != 1 {
		t.Errorf("Expected 1 assignment, got %d in %q", count, ctorEdit.NewText)
	}
}

func TestDetectCalls(t *testing.T) {
	engine := CreateEngine(nil, nil)

	calls := engine.DetectCalls("$db = \\Drupal::service('database');")
	if len(calls) != 1 {
		t.Fatalf("Expected 1 call, got %d", len(calls))
	}
	if calls[0].ServiceID != "database" {
		t.Errorf("Expected service 'database', got %q", calls[0].ServiceID)
	}
}

func TestAnalyzeClass(t *testing.T) {
	engine := CreateEngine(nil, nil)

	skeleton := engine.AnalyzeClass(controllerFixture())
	if skeleton.ClassName != "ExampleController" {
		t.Errorf("Expected class 'ExampleController', got %q", skeleton.ClassName)
	}
	if skeleton.ParentClass != "ControllerBase" {
		t.Errorf("Expected parent 'ControllerBase', got %q", skeleton.ParentClass)
	}
}

func TestCreateEngineWithConfig_RootAlias(t *testing.T) {
	config := &EngineConfig{RootAliases: []string{"\\ExampleFacade"}}
	engine := CreateEngineWithConfig(config, nil, nil)

	calls := engine.DetectCalls("$db = \\ExampleFacade::service('database');")
	if len(calls) != 1 {
		t.Fatalf("Expected 1 call through the alias, got %d", len(calls))
	}
	if calls[0].ServiceID != "database" {
		t.Errorf("Expected service 'database', got %q", calls[0].ServiceID)
	}
}
