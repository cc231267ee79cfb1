package refactor

import (
	"fmt"
	"sort"

	"github.com/mamaar/drupalrefactor/pkg/analysis"
	"github.com/mamaar/drupalrefactor/pkg/types"
)

// Composer turns a strategy's structural edits into the final ordered edit
// list: call sites become property accesses, same-file edits are sorted
// descending by position so sequential application never shifts a pending
// range, and cross-file edits are appended after them.
type Composer struct {
	detector *analysis.Detector
}

func NewComposer(detector *analysis.Detector) *Composer {
	return &Composer{detector: detector}
}

// Compose appends a replacement edit for every detected call whose service
// id is in the injection set, then orders the edits for application.
func (c *Composer) Compose(ctx *types.RefactoringContext, structural []types.RefactoringEdit) []types.RefactoringEdit {
	var same, cross []types.RefactoringEdit
	for _, edit := range structural {
		if edit.IsCrossFile() {
			cross = append(cross, edit)
		} else {
			same = append(same, edit)
		}
	}

	properties := make(map[string]string, len(ctx.ServiceIDs))
	for _, id := range ctx.ServiceIDs {
		properties[id] = analysis.DerivePropertyName(id)
	}

	for _, call := range c.detector.DetectAll(ctx.Source) {
		property, selected := properties[call.ServiceID]
		if !selected {
			continue
		}
		callRange := types.NewRange(call.Line, call.StartColumn, call.Line, call.EndColumn)
		if coveredByReplacement(callRange, same) {
			// The span is regenerated wholesale by a structural edit.
			continue
		}
		same = append(same, types.RefactoringEdit{
			Description: fmt.Sprintf("Replace static call with $this->%s", property),
			Range:       callRange,
			NewText:     "$this->" + property,
		})
	}

	sort.SliceStable(same, func(i, j int) bool {
		return positionAfter(same[i].Range.Start, same[j].Range.Start)
	})

	return append(mergeColocated(same), cross...)
}

// positionAfter reports whether a comes strictly after b.
func positionAfter(a, b types.Position) bool {
	if a.Line != b.Line {
		return a.Line > b.Line
	}
	return a.Character > b.Character
}

// positionBefore reports whether a comes strictly before b.
func positionBefore(a, b types.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Character < b.Character
}

// coveredByReplacement reports whether the range falls inside a non-empty
// edit span.
func coveredByReplacement(r types.Range, edits []types.RefactoringEdit) bool {
	for _, edit := range edits {
		if edit.Range.Start == edit.Range.End {
			continue
		}
		if !positionBefore(r.Start, edit.Range.Start) && !positionAfter(r.End, edit.Range.End) {
			return true
		}
	}
	return false
}

// mergeColocated folds edits sharing a start position into one edit so the
// returned list is strictly descending. Texts concatenate in emission order,
// which keeps co-located insertions in their intended output order.
func mergeColocated(edits []types.RefactoringEdit) []types.RefactoringEdit {
	if len(edits) < 2 {
		return edits
	}

	merged := make([]types.RefactoringEdit, 0, len(edits))
	merged = append(merged, edits[0])
	for _, edit := range edits[1:] {
		last := &merged[len(merged)-1]
		if edit.Range.Start != last.Range.Start {
			merged = append(merged, edit)
			continue
		}
		last.NewText += edit.NewText
		last.Description += "; " + edit.Description
		if positionAfter(edit.Range.End, last.Range.End) {
			last.Range.End = edit.Range.End
		}
	}

	return merged
}
