package analysis

import (
	"strings"
	"testing"

	"github.com/mamaar/drupalrefactor/pkg/types"
)

func TestDetectAll_DirectCall(t *testing.T) {
	source := "<?php\n$db = \\Drupal::service('database');\n"

	detector := NewDetector()
	calls := detector.DetectAll(source)

	if len(calls) != 1 {
		t.Fatalf("Expected 1 call, got %d", len(calls))
	}

	call := calls[0]
	if call.ServiceID != "database" {
		t.Errorf("Expected service id 'database', got '%s'", call.ServiceID)
	}
	if call.Kind != types.DirectCall {
		t.Errorf("Expected kind DirectCall, got %v", call.Kind)
	}
	if call.Line != 1 {
		t.Errorf("Expected line 1, got %d", call.Line)
	}
	if call.StartColumn != 6 {
		t.Errorf("Expected start column 6, got %d", call.StartColumn)
	}
	if call.EndColumn != 34 {
		t.Errorf("Expected end column 34, got %d", call.EndColumn)
	}
	if call.MatchedText != "\\Drupal::service('database')" {
		t.Errorf("Expected matched text to be the full expression, got '%s'", call.MatchedText)
	}
}

func TestDetectAll_Patterns(t *testing.T) {
	testCases := []struct {
		name      string
		line      string
		serviceID string
		kind      types.CallKind
	}{
		{
			name:      "Direct call single quotes",
			line:      "$etm = \\Drupal::service('entity_type.manager');",
			serviceID: "entity_type.manager",
			kind:      types.DirectCall,
		},
		{
			name:      "Direct call double quotes",
			line:      "$etm = \\Drupal::service(\"entity_type.manager\");",
			serviceID: "entity_type.manager",
			kind:      types.DirectCall,
		},
		{
			name:      "Direct call without leading separator",
			line:      "$etm = Drupal::service('entity_type.manager');",
			serviceID: "entity_type.manager",
			kind:      types.DirectCall,
		},
		{
			name:      "Container call",
			line:      "$user = \\Drupal::getContainer()->get('current_user');",
			serviceID: "current_user",
			kind:      types.ContainerCall,
		},
		{
			name:      "Shortcut accessor",
			line:      "$etm = \\Drupal::entityTypeManager();",
			serviceID: "entity_type.manager",
			kind:      types.ShortcutCall,
		},
		{
			name:      "Shortcut accessor with chained call",
			line:      "$storage = \\Drupal::entityTypeManager()->getStorage('node');",
			serviceID: "entity_type.manager",
			kind:      types.ShortcutCall,
		},
		{
			name:      "Shortcut with dotted id",
			line:      "$cache = \\Drupal::cache();",
			serviceID: "cache.default",
			kind:      types.ShortcutCall,
		},
	}

	detector := NewDetector()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calls := detector.DetectAll(tc.line)
			if len(calls) != 1 {
				t.Fatalf("Expected 1 call, got %d", len(calls))
			}
			if calls[0].ServiceID != tc.serviceID {
				t.Errorf("Expected service id '%s', got '%s'", tc.serviceID, calls[0].ServiceID)
			}
			if calls[0].Kind != tc.kind {
				t.Errorf("Expected kind %v, got %v", tc.kind, calls[0].Kind)
			}
			if got := tc.line[calls[0].StartColumn:calls[0].EndColumn]; got != calls[0].MatchedText {
				t.Errorf("Expected columns to cover matched text '%s', got '%s'", calls[0].MatchedText, got)
			}
		})
	}
}

func TestDetectAll_NotDetected(t *testing.T) {
	testCases := []struct {
		name string
		line string
	}{
		{"Unknown shortcut name", "$x = \\Drupal::entityQuery();"},
		{"Shortcut with argument", "$config = \\Drupal::config('system.site');"},
		{"Bare container accessor", "$container = \\Drupal::getContainer();"},
		{"Different class", "$x = MyDrupal::service('database');"},
		{"Instance call", "$x = $this->container->get('database');"},
	}

	detector := NewDetector()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calls := detector.DetectAll(tc.line)
			if len(calls) != 0 {
				t.Errorf("Expected no calls, got %d: %+v", len(calls), calls)
			}
		})
	}
}

func TestDetectAll_MultiplePerLine(t *testing.T) {
	line := "$a = \\Drupal::service('database'); $b = \\Drupal::service('current_user');"

	detector := NewDetector()
	calls := detector.DetectAll(line)

	if len(calls) != 2 {
		t.Fatalf("Expected 2 calls, got %d", len(calls))
	}
	if calls[0].ServiceID != "database" || calls[1].ServiceID != "current_user" {
		t.Errorf("Expected calls in line order, got %s then %s", calls[0].ServiceID, calls[1].ServiceID)
	}
	if calls[0].EndColumn > calls[1].StartColumn {
		t.Errorf("Expected non-overlapping spans, got %d..%d and %d..%d",
			calls[0].StartColumn, calls[0].EndColumn, calls[1].StartColumn, calls[1].EndColumn)
	}
}

func TestDetectAll_MixedKindsOrdered(t *testing.T) {
	source := strings.Join([]string{
		"<?php",
		"$etm = \\Drupal::entityTypeManager();",
		"$db = \\Drupal::service('database');",
		"$user = \\Drupal::getContainer()->get('current_user');",
	}, "\n")

	detector := NewDetector()
	calls := detector.DetectAll(source)

	if len(calls) != 3 {
		t.Fatalf("Expected 3 calls, got %d", len(calls))
	}

	expectedLines := []int{1, 2, 3}
	for i, call := range calls {
		if call.Line != expectedLines[i] {
			t.Errorf("Expected call %d on line %d, got %d", i, expectedLines[i], call.Line)
		}
	}
}

func TestDetectAll_InsideCommentStillMatches(t *testing.T) {
	// The detector is purely textual and does not understand comments.
	source := "// $db = \\Drupal::service('database');"

	detector := NewDetector()
	calls := detector.DetectAll(source)

	if len(calls) != 1 {
		t.Errorf("Expected a match inside a comment, got %d calls", len(calls))
	}
}

func TestDetectAll_EmptySource(t *testing.T) {
	detector := NewDetector()
	if calls := detector.DetectAll(""); len(calls) != 0 {
		t.Errorf("Expected no calls for empty source, got %d", len(calls))
	}
}

func TestUniqueServices(t *testing.T) {
	calls := []types.StaticServiceCall{
		{ServiceID: "entity_type.manager"},
		{ServiceID: "current_user"},
		{ServiceID: "entity_type.manager"},
		{ServiceID: "database"},
		{ServiceID: "current_user"},
	}

	ids := UniqueServices(calls)

	expected := []string{"entity_type.manager", "current_user", "database"}
	if len(ids) != len(expected) {
		t.Fatalf("Expected %d unique ids, got %d", len(expected), len(ids))
	}
	for i, id := range expected {
		if ids[i] != id {
			t.Errorf("Expected id %d to be '%s', got '%s'", i, id, ids[i])
		}
	}
}

func TestUniqueServices_Empty(t *testing.T) {
	if ids := UniqueServices(nil); len(ids) != 0 {
		t.Errorf("Expected no ids, got %d", len(ids))
	}
}

func TestShortcutServices_KnownAccessors(t *testing.T) {
	testCases := []struct {
		accessor string
		expected string
	}{
		{"entityTypeManager", "entity_type.manager"},
		{"currentUser", "current_user"},
		{"configFactory", "config.factory"},
		{"moduleHandler", "module_handler"},
		{"time", "datetime.time"},
		{"routeMatch", "current_route_match"},
	}

	for _, tc := range testCases {
		t.Run(tc.accessor, func(t *testing.T) {
			id, ok := ShortcutServices[tc.accessor]
			if !ok {
				t.Fatalf("Expected accessor '%s' to be known", tc.accessor)
			}
			if id != tc.expected {
				t.Errorf("Expected '%s' to resolve to '%s', got '%s'", tc.accessor, tc.expected, id)
			}
		})
	}
}

func TestNewDetectorWith_RootAliases(t *testing.T) {
	detector := NewDetectorWith([]string{`\ExampleFacade`}, nil)

	source := strings.Join([]string{
		`$a = \ExampleFacade::service('database');`,
		`$b = ExampleFacade::getContainer()->get('renderer');`,
		`$c = \ExampleFacade::currentUser();`,
		`$d = \Drupal::service('state');`,
	}, "\n")

	calls := detector.DetectAll(source)
	if len(calls) != 4 {
		t.Fatalf("Expected 4 calls, got %d", len(calls))
	}

	expected := []string{"database", "renderer", "current_user", "state"}
	for i, id := range expected {
		if calls[i].ServiceID != id {
			t.Errorf("Expected call %d to resolve '%s', got '%s'", i, id, calls[i].ServiceID)
		}
	}
}

func TestNewDetectorWith_ExtraShortcuts(t *testing.T) {
	detector := NewDetectorWith(nil, map[string]string{"mailer": "plugin.manager.mail"})

	calls := detector.DetectAll(`$mail = \Drupal::mailer();`)
	if len(calls) != 1 {
		t.Fatalf("Expected 1 call, got %d", len(calls))
	}
	if calls[0].ServiceID != "plugin.manager.mail" {
		t.Errorf("Expected 'plugin.manager.mail', got '%s'", calls[0].ServiceID)
	}
	if calls[0].Kind != types.ShortcutCall {
		t.Errorf("Expected shortcut kind, got %v", calls[0].Kind)
	}

	// The builtin table is untouched for a default detector.
	if len(NewDetector().DetectAll(`$mail = \Drupal::mailer();`)) != 0 {
		t.Error("Expected default detector to ignore unknown accessor")
	}
}
