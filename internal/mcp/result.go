package mcp

import (
	"encoding/json"
	"fmt"

	mcpsdk "github.com/mark3labs/mcp-go/mcp"

	"github.com/mamaar/drupalrefactor/pkg/types"
)

// CallResult is the JSON shape of one detected static service call.
type CallResult struct {
	ServiceID   string `json:"service_id"`
	Line        int    `json:"line"`
	StartColumn int    `json:"start_column"`
	EndColumn   int    `json:"end_column"`
	Kind        string `json:"kind"`
	MatchedText string `json:"matched_text"`
}

// EditResult is the JSON shape of one planned text edit. Positions are
// 0-indexed against the original file content.
type EditResult struct {
	Description string `json:"description"`
	StartLine   int    `json:"start_line"`
	StartCol    int    `json:"start_column"`
	EndLine     int    `json:"end_line"`
	EndCol      int    `json:"end_column"`
	NewText     string `json:"new_text"`
	TargetFile  string `json:"target_file,omitempty"`
}

// ServiceResult is the JSON shape of one registry entry.
type ServiceResult struct {
	ID          string   `json:"id"`
	Class       string   `json:"class,omitempty"`
	ClassFile   string   `json:"class_file,omitempty"`
	Declaration string   `json:"declaration"`
	Arguments   []string `json:"arguments,omitempty"`
}

// callResults converts a call list for tool output.
func callResults(calls []types.StaticServiceCall) []CallResult {
	results := make([]CallResult, 0, len(calls))
	for _, call := range calls {
		results = append(results, CallResult{
			ServiceID:   call.ServiceID,
			Line:        call.Line,
			StartColumn: call.StartColumn,
			EndColumn:   call.EndColumn,
			Kind:        call.Kind.String(),
			MatchedText: call.MatchedText,
		})
	}
	return results
}

// editResults converts an edit list for tool output.
func editResults(edits []types.RefactoringEdit) []EditResult {
	results := make([]EditResult, 0, len(edits))
	for _, edit := range edits {
		results = append(results, EditResult{
			Description: edit.Description,
			StartLine:   edit.Range.Start.Line,
			StartCol:    edit.Range.Start.Character,
			EndLine:     edit.Range.End.Line,
			EndCol:      edit.Range.End.Character,
			NewText:     edit.NewText,
			TargetFile:  edit.TargetFile,
		})
	}
	return results
}

// serviceResults converts registry definitions for tool output.
func serviceResults(defs []*types.ServiceDefinition) []ServiceResult {
	results := make([]ServiceResult, 0, len(defs))
	for _, def := range defs {
		results = append(results, ServiceResult{
			ID:          def.ID,
			Class:       def.ClassName,
			ClassFile:   def.ClassFilePath,
			Declaration: def.DeclarationFilePath,
			Arguments:   def.Arguments,
		})
	}
	return results
}

// textResult is a convenience that marshals v to JSON and wraps it in a
// CallToolResult with a single text content block.
func textResult(v any) *mcpsdk.CallToolResult {
	b, _ := json.MarshalIndent(v, "", "  ")
	return mcpsdk.NewToolResultText(string(b))
}

// errResult returns a CallToolResult that signals an error.
func errResult(err error) *mcpsdk.CallToolResult {
	return mcpsdk.NewToolResultError(err.Error())
}

// errResultf formats an error message into a CallToolResult.
func errResultf(format string, args ...any) *mcpsdk.CallToolResult {
	return mcpsdk.NewToolResultError(fmt.Sprintf(format, args...))
}
