package lsp

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mamaar/drupalrefactor/pkg/types"
)

// handleTextDocumentCodeAction offers an injection action when the selected
// range overlaps detected static service calls.
func (s *Server) handleTextDocumentCodeAction(message *Message) (*Message, error) {
	var params CodeActionParams
	if err := json.Unmarshal(message.Params, &params); err != nil {
		return s.errorResponse(message.ID, CodeInvalidParams, "Invalid params", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return s.successResponse(message.ID, []CodeAction{})
	}

	source, ok := s.sourceForLocked(params.TextDocument.URI)
	if !ok {
		return s.successResponse(message.ID, []CodeAction{})
	}

	calls := s.engine.DetectCalls(source)
	actions := injectActions(params.TextDocument.URI, calls, params.Range)

	s.logger.Debug("code actions computed",
		"uri", params.TextDocument.URI,
		"calls", len(calls),
		"actions", len(actions),
	)

	return s.successResponse(message.ID, actions)
}

// handleWorkspaceExecuteCommand runs the injection command and delivers the
// resulting edits through workspace/applyEdit.
func (s *Server) handleWorkspaceExecuteCommand(message *Message) (*Message, error) {
	var params ExecuteCommandParams
	if err := json.Unmarshal(message.Params, &params); err != nil {
		return s.errorResponse(message.ID, CodeInvalidParams, "Invalid params", err)
	}

	if params.Command != CommandInjectServices {
		return s.errorResponse(message.ID, CodeMethodNotFound,
			fmt.Sprintf("unknown command %q", params.Command), nil)
	}

	uri, serviceIDs, err := decodeInjectArguments(params.Arguments)
	if err != nil {
		return s.errorResponse(message.ID, CodeInvalidParams, "Invalid command arguments", err.Error())
	}

	s.mu.RLock()
	initialized := s.initialized
	engine := s.engine
	source, haveSource := s.sourceForLocked(uri)
	s.mu.RUnlock()

	if !initialized {
		return s.errorResponse(message.ID, CodeInternalError, "server not initialized", nil)
	}
	if !haveSource {
		return s.errorResponse(message.ID, CodeInternalError,
			fmt.Sprintf("no content available for %s", uri), nil)
	}

	rctx := &types.RefactoringContext{
		FilePath:   uriToPath(uri),
		Source:     source,
		ServiceIDs: serviceIDs,
	}

	edits, err := engine.Refactor(rctx)
	if err != nil {
		return s.errorResponse(message.ID, CodeInternalError, "refactoring failed", err.Error())
	}
	if len(edits) == 0 {
		s.logger.Info("nothing to inject", "uri", uri, "services", serviceIDs)
		return s.successResponse(message.ID, nil)
	}

	workspaceEdit := editsToWorkspaceEdit(uri, edits)

	applyParams := ApplyWorkspaceEditParams{
		Label: fmt.Sprintf("Inject %s", strings.Join(serviceIDs, ", ")),
		Edit:  *workspaceEdit,
	}
	if err := s.sendRequest("workspace/applyEdit", applyParams); err != nil {
		return s.errorResponse(message.ID, CodeInternalError, "could not deliver edits", err.Error())
	}

	s.logger.Info("injection edits delivered",
		"uri", uri,
		"services", serviceIDs,
		"edits", len(edits),
	)

	return s.successResponse(message.ID, nil)
}

// decodeInjectArguments unpacks [uri, [serviceID...]] command arguments.
func decodeInjectArguments(args []json.RawMessage) (string, []string, error) {
	if len(args) != 2 {
		return "", nil, fmt.Errorf("expected 2 arguments, got %d", len(args))
	}

	var uri string
	if err := json.Unmarshal(args[0], &uri); err != nil {
		return "", nil, fmt.Errorf("first argument must be a document URI: %w", err)
	}

	var serviceIDs []string
	if err := json.Unmarshal(args[1], &serviceIDs); err != nil {
		return "", nil, fmt.Errorf("second argument must be a service id list: %w", err)
	}
	if len(serviceIDs) == 0 {
		return "", nil, fmt.Errorf("service id list is empty")
	}

	return uri, serviceIDs, nil
}

// editsToWorkspaceEdit converts engine edits to an LSP workspace edit.
// Cross-file edits replace the whole target file.
func editsToWorkspaceEdit(uri string, edits []types.RefactoringEdit) *WorkspaceEdit {
	changes := make(map[string][]TextEdit)

	for _, edit := range edits {
		if edit.IsCrossFile() {
			targetURI := pathToURI(edit.TargetFile)
			changes[targetURI] = append(changes[targetURI], wholeFileEdit(edit.TargetFile, edit.NewText))
			continue
		}

		changes[uri] = append(changes[uri], TextEdit{
			Range: Range{
				Start: Position{Line: edit.Range.Start.Line, Character: edit.Range.Start.Character},
				End:   Position{Line: edit.Range.End.Line, Character: edit.Range.End.Character},
			},
			NewText: edit.NewText,
		})
	}

	return &WorkspaceEdit{Changes: changes}
}

// wholeFileEdit builds a text edit spanning the target file's current
// contents. When the file cannot be read the range is oversized and left
// for the client to clamp.
func wholeFileEdit(path, newText string) TextEdit {
	end := Position{Line: 1 << 30}
	if data, err := os.ReadFile(path); err == nil {
		lines := strings.Split(string(data), "\n")
		end = Position{Line: len(lines) - 1, Character: len(lines[len(lines)-1])}
	}
	return TextEdit{
		Range:   Range{Start: Position{}, End: end},
		NewText: newText,
	}
}
