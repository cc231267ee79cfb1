package types

import "fmt"

// Position is a 0-indexed line and character offset within a file
type Position struct {
	Line      int
	Character int
}

// Range is a span between two positions, end exclusive
type Range struct {
	Start Position
	End   Position
}

// NewRange builds a range from start and end coordinates
func NewRange(startLine, startChar, endLine, endChar int) Range {
	return Range{
		Start: Position{Line: startLine, Character: startChar},
		End:   Position{Line: endLine, Character: endChar},
	}
}

// RefactoringEdit represents one text replacement produced by the engine.
// TargetFile is empty for edits to the file under refactoring; cross-file
// edits carry the absolute path of the file they apply to.
type RefactoringEdit struct {
	Description string
	Range       Range
	NewText     string
	TargetFile  string
}

// IsCrossFile reports whether the edit targets a file other than the one
// under refactoring
func (e *RefactoringEdit) IsCrossFile() bool {
	return e.TargetFile != ""
}

func (e *RefactoringEdit) String() string {
	return fmt.Sprintf("%s at %d:%d", e.Description, e.Range.Start.Line, e.Range.Start.Character)
}
