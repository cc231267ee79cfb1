package refactor

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/mamaar/drupalrefactor/pkg/types"
)

// Serializer applies refactoring edits to files on disk.
type Serializer struct {
	logger *slog.Logger
}

func NewSerializer(logger *slog.Logger) *Serializer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Serializer{logger: logger}
}

// ApplyEdits applies an edit list produced for primaryPath. Same-file edits
// rewrite the primary file; cross-file edits overwrite their target file
// wholesale.
func (s *Serializer) ApplyEdits(primaryPath string, edits []types.RefactoringEdit) error {
	var same []types.RefactoringEdit
	for _, edit := range edits {
		if !edit.IsCrossFile() {
			same = append(same, edit)
			continue
		}
		if err := os.WriteFile(edit.TargetFile, []byte(edit.NewText), 0644); err != nil {
			return &types.RefactorError{
				Type:    types.FileSystemError,
				Message: fmt.Sprintf("failed to write %s", edit.TargetFile),
				File:    edit.TargetFile,
				Cause:   err,
			}
		}
		s.logger.Debug("rewrote declaration file", "file", edit.TargetFile)
	}

	if len(same) == 0 {
		return nil
	}

	content, err := os.ReadFile(primaryPath)
	if err != nil {
		return &types.RefactorError{
			Type:    types.FileSystemError,
			Message: fmt.Sprintf("failed to read %s", primaryPath),
			File:    primaryPath,
			Cause:   err,
		}
	}

	modified, err := s.ApplyToSource(string(content), same)
	if err != nil {
		return err
	}

	if err := os.WriteFile(primaryPath, []byte(modified), 0644); err != nil {
		return &types.RefactorError{
			Type:    types.FileSystemError,
			Message: fmt.Sprintf("failed to write %s", primaryPath),
			File:    primaryPath,
			Cause:   err,
		}
	}

	s.logger.Debug("applied edits", "file", primaryPath, "edits", len(same))
	return nil
}

// ApplyToSource applies same-file edits to the source text and returns the
// result. Edits are applied in descending position order so an applied edit
// never shifts the range of a pending one.
func (s *Serializer) ApplyToSource(source string, edits []types.RefactoringEdit) (string, error) {
	ordered := make([]types.RefactoringEdit, len(edits))
	copy(ordered, edits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return positionAfter(ordered[i].Range.Start, ordered[j].Range.Start)
	})

	for _, edit := range ordered {
		start, err := offsetOf(source, edit.Range.Start)
		if err != nil {
			return "", err
		}
		end, err := offsetOf(source, edit.Range.End)
		if err != nil {
			return "", err
		}
		if end < start {
			return "", &types.RefactorError{
				Type:    types.InvalidOperation,
				Message: fmt.Sprintf("edit range ends before it starts at %d:%d", edit.Range.Start.Line, edit.Range.Start.Character),
				Line:    edit.Range.Start.Line,
				Column:  edit.Range.Start.Character,
			}
		}
		source = source[:start] + edit.NewText + source[end:]
	}

	return source, nil
}

// offsetOf converts a line/character position into a byte offset into the
// source.
func offsetOf(source string, pos types.Position) (int, error) {
	if pos.Line < 0 || pos.Character < 0 {
		return 0, &types.RefactorError{
			Type:    types.InvalidOperation,
			Message: fmt.Sprintf("negative edit position %d:%d", pos.Line, pos.Character),
			Line:    pos.Line,
			Column:  pos.Character,
		}
	}

	offset := 0
	for line := 0; line < pos.Line; line++ {
		next := strings.IndexByte(source[offset:], '\n')
		if next < 0 {
			return 0, &types.RefactorError{
				Type:    types.InvalidOperation,
				Message: fmt.Sprintf("edit line %d is beyond the end of the file", pos.Line),
				Line:    pos.Line,
			}
		}
		offset += next + 1
	}

	lineLen := len(source) - offset
	if next := strings.IndexByte(source[offset:], '\n'); next >= 0 {
		lineLen = next
	}
	if pos.Character > lineLen {
		return 0, &types.RefactorError{
			Type:    types.InvalidOperation,
			Message: fmt.Sprintf("edit column %d is beyond the end of line %d", pos.Character, pos.Line),
			Line:    pos.Line,
			Column:  pos.Character,
		}
	}

	return offset + pos.Character, nil
}
