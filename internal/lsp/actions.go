package lsp

import (
	"fmt"

	"github.com/mamaar/drupalrefactor/pkg/types"
)

// injectActions builds the code actions for a selection. Static calls
// overlapping the selected range produce a single action injecting every
// service they reference.
func injectActions(uri string, calls []types.StaticServiceCall, selection Range) []CodeAction {
	selected := callsInRange(calls, selection)
	if len(selected) == 0 {
		return []CodeAction{}
	}

	ids := uniqueServiceIDs(selected)

	title := fmt.Sprintf("Inject %d services into constructor", len(ids))
	if len(ids) == 1 {
		title = "Inject 1 service into constructor"
	}

	return []CodeAction{
		{
			Title:       title,
			Kind:        "refactor.rewrite",
			IsPreferred: true,
			Command: &Command{
				Title:     title,
				Command:   CommandInjectServices,
				Arguments: []interface{}{uri, ids},
			},
		},
	}
}

// callsInRange filters calls down to those overlapping the selection.
func callsInRange(calls []types.StaticServiceCall, selection Range) []types.StaticServiceCall {
	var selected []types.StaticServiceCall
	for _, call := range calls {
		if callOverlaps(call, selection) {
			selected = append(selected, call)
		}
	}
	return selected
}

// callOverlaps reports whether a call's matched span intersects the
// selection. A zero-width selection acts on the whole line under the cursor.
func callOverlaps(call types.StaticServiceCall, selection Range) bool {
	if call.Line < selection.Start.Line || call.Line > selection.End.Line {
		return false
	}
	if selection.Start == selection.End {
		return true
	}
	if call.Line == selection.Start.Line && call.EndColumn < selection.Start.Character {
		return false
	}
	if call.Line == selection.End.Line && call.StartColumn > selection.End.Character {
		return false
	}
	return true
}

// uniqueServiceIDs returns the distinct service ids in first-seen order.
func uniqueServiceIDs(calls []types.StaticServiceCall) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, call := range calls {
		if !seen[call.ServiceID] {
			seen[call.ServiceID] = true
			ids = append(ids, call.ServiceID)
		}
	}
	return ids
}
