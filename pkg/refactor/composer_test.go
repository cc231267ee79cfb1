package refactor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamaar/drupalrefactor/pkg/analysis"
	"github.com/mamaar/drupalrefactor/pkg/types"
)

func newTestComposer() *Composer {
	return NewComposer(analysis.NewDetector())
}

func TestCompose_ReplacesSelectedCalls(t *testing.T) {
	source := strings.Join([]string{
		"$db = \\Drupal::service('database');",
		"$state = \\Drupal::service('state');",
		"$etm = \\Drupal::entityTypeManager();",
	}, "\n")

	ctx := &types.RefactoringContext{
		Source:     source,
		ServiceIDs: []string{"database", "entity_type.manager"},
	}

	edits := newTestComposer().Compose(ctx, nil)
	require.Len(t, edits, 2, "only selected services are replaced")

	assert.Equal(t, "$this->entityTypeManager", edits[0].NewText)
	assert.Equal(t, 2, edits[0].Range.Start.Line)
	assert.Equal(t, "$this->database", edits[1].NewText)
	assert.Equal(t, 0, edits[1].Range.Start.Line)
}

func TestCompose_ReplacementCoversExactMatchSpan(t *testing.T) {
	source := "$db = \\Drupal::service('database')->query('SELECT 1');"

	ctx := &types.RefactoringContext{
		Source:     source,
		ServiceIDs: []string{"database"},
	}

	edits := newTestComposer().Compose(ctx, nil)
	require.Len(t, edits, 1)

	start := edits[0].Range.Start.Character
	end := edits[0].Range.End.Character
	assert.Equal(t, "\\Drupal::service('database')", source[start:end])
}

func TestCompose_StrictDescendingOrder(t *testing.T) {
	source := strings.Join([]string{
		"<?php",
		"$a = \\Drupal::service('state'); $b = \\Drupal::service('database');",
		"$c = \\Drupal::service('renderer');",
		"",
	}, "\n")

	structural := []types.RefactoringEdit{
		{Description: "Add use statements", Range: types.NewRange(0, 0, 0, 0), NewText: "use X;\n"},
		{Description: "Add constructor", Range: types.NewRange(3, 0, 3, 0), NewText: "ctor"},
	}

	ctx := &types.RefactoringContext{
		Source:     source,
		ServiceIDs: []string{"state", "database", "renderer"},
	}

	edits := newTestComposer().Compose(ctx, structural)
	require.Len(t, edits, 5)

	for i := 1; i < len(edits); i++ {
		prev, cur := edits[i-1].Range.Start, edits[i].Range.Start
		after := prev.Line > cur.Line || (prev.Line == cur.Line && prev.Character > cur.Character)
		assert.True(t, after, "edit %d at %v must start after edit %d at %v", i-1, prev, i, cur)
	}
}

func TestCompose_CrossFileEditsLast(t *testing.T) {
	source := "$db = \\Drupal::service('database');"

	structural := []types.RefactoringEdit{
		{
			Description: "Add arguments to service example.manager",
			Range:       types.NewRange(0, 0, 0, 0),
			NewText:     "services: {}\n",
			TargetFile:  "/ws/example/example.services.yml",
		},
		{Description: "Add use statements", Range: types.NewRange(0, 0, 0, 0), NewText: "use X;\n"},
	}

	ctx := &types.RefactoringContext{
		Source:     source,
		ServiceIDs: []string{"database"},
	}

	edits := newTestComposer().Compose(ctx, structural)
	require.Len(t, edits, 3)

	assert.True(t, edits[len(edits)-1].IsCrossFile(), "cross-file edit must come last")
	for _, edit := range edits[:len(edits)-1] {
		assert.False(t, edit.IsCrossFile())
	}
}

func TestCompose_SkipsCallsInsideReplacedSpans(t *testing.T) {
	source := strings.Join([]string{
		"class Example {",
		"  public function __construct() {",
		"    $this->db = \\Drupal::service('database');",
		"  }",
		"}",
	}, "\n")

	structural := []types.RefactoringEdit{
		{
			Description: "Replace constructor",
			Range:       types.NewRange(1, 0, 3, 3),
			NewText:     "  public function __construct(ConnectionInterface $database) {\n    $this->database = $database;\n  }",
		},
	}

	ctx := &types.RefactoringContext{
		Source:     source,
		ServiceIDs: []string{"database"},
	}

	edits := newTestComposer().Compose(ctx, structural)
	require.Len(t, edits, 1, "the call inside the replaced span is not separately edited")
	assert.Equal(t, "Replace constructor", edits[0].Description)
}

func TestCompose_CallOutsideReplacedSpanStillReplaced(t *testing.T) {
	source := strings.Join([]string{
		"class Example {",
		"  public function __construct() {",
		"  }",
		"  public function go() {",
		"    return \\Drupal::service('database');",
		"  }",
		"}",
	}, "\n")

	structural := []types.RefactoringEdit{
		{
			Description: "Replace constructor",
			Range:       types.NewRange(1, 0, 2, 3),
			NewText:     "  public function __construct(ConnectionInterface $database) {\n  }",
		},
	}

	ctx := &types.RefactoringContext{
		Source:     source,
		ServiceIDs: []string{"database"},
	}

	edits := newTestComposer().Compose(ctx, structural)
	require.Len(t, edits, 2)
	assert.Equal(t, "$this->database", edits[0].NewText)
	assert.Equal(t, 4, edits[0].Range.Start.Line)
}

func TestCompose_MergesColocatedEdits(t *testing.T) {
	structural := []types.RefactoringEdit{
		{Description: "Add constructor", Range: types.NewRange(2, 0, 2, 0), NewText: "ctor\n"},
		{Description: "Add create() factory method", Range: types.NewRange(2, 0, 2, 0), NewText: "factory\n"},
	}

	ctx := &types.RefactoringContext{
		Source:     "<?php\n",
		ServiceIDs: []string{"database"},
	}

	edits := newTestComposer().Compose(ctx, structural)
	require.Len(t, edits, 1, "edits sharing a start position merge into one")

	assert.Equal(t, "ctor\nfactory\n", edits[0].NewText)
	assert.Equal(t, "Add constructor; Add create() factory method", edits[0].Description)
}

func TestCompose_NoCallsNoServiceIDs(t *testing.T) {
	ctx := &types.RefactoringContext{Source: "<?php\n"}

	edits := newTestComposer().Compose(ctx, nil)
	assert.Empty(t, edits)
}
