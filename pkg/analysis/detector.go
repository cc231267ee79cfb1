package analysis

import (
	"regexp"
	"strings"

	"github.com/mamaar/drupalrefactor/pkg/types"
)

// ShortcutServices maps the dedicated accessor names on the \Drupal facade
// to the canonical service ids they resolve to. Accessors that require an
// argument never match the shortcut pattern, so only no-argument accessors
// are listed.
var ShortcutServices = map[string]string{
	"accessManager":                 "access_manager",
	"cache":                         "cache.default",
	"classResolver":                 "class_resolver",
	"configFactory":                 "config.factory",
	"csrfToken":                     "csrf_token",
	"currentUser":                   "current_user",
	"database":                      "database",
	"destination":                   "redirect.destination",
	"entityDefinitionUpdateManager": "entity.definition_update_manager",
	"entityTypeManager":             "entity_type.manager",
	"flood":                         "flood",
	"formBuilder":                   "form_builder",
	"keyValue":                      "keyvalue",
	"languageManager":               "language_manager",
	"linkGenerator":                 "link_generator",
	"lock":                          "lock",
	"logger":                        "logger.factory",
	"messenger":                     "messenger",
	"moduleHandler":                 "module_handler",
	"moduleInstaller":               "module_installer",
	"pathValidator":                 "path.validator",
	"queue":                         "queue",
	"request":                       "request_stack",
	"requestStack":                  "request_stack",
	"routeMatch":                    "current_route_match",
	"state":                         "state",
	"theme":                         "theme.manager",
	"time":                          "datetime.time",
	"token":                         "token",
	"translation":                   "string_translation",
	"transliteration":               "transliteration",
	"urlGenerator":                  "url_generator",
}

var (
	directCallPattern    = regexp.MustCompile(`\\?\bDrupal::service\(\s*['"]([^'"]+)['"]\s*\)`)
	containerCallPattern = regexp.MustCompile(`\\?\bDrupal::getContainer\(\)->get\(\s*['"]([^'"]+)['"]\s*\)`)
	shortcutCallPattern  = regexp.MustCompile(`\\?\bDrupal::(\w+)\(\s*\)`)
)

// Detector scans PHP source text for static service lookups.
type Detector struct {
	direct    *regexp.Regexp
	container *regexp.Regexp
	shortcut  *regexp.Regexp
	shortcuts map[string]string
}

// NewDetector creates a detector that recognizes the \Drupal facade and the
// builtin shortcut accessors.
func NewDetector() *Detector {
	return NewDetectorWith(nil, nil)
}

// NewDetectorWith creates a detector that additionally recognizes the given
// static root classes and shortcut accessors. Extra shortcuts are merged over
// the builtin table and may override builtin entries.
func NewDetectorWith(rootAliases []string, extraShortcuts map[string]string) *Detector {
	d := &Detector{
		direct:    directCallPattern,
		container: containerCallPattern,
		shortcut:  shortcutCallPattern,
		shortcuts: ShortcutServices,
	}

	if len(extraShortcuts) > 0 {
		merged := make(map[string]string, len(ShortcutServices)+len(extraShortcuts))
		for name, id := range ShortcutServices {
			merged[name] = id
		}
		for name, id := range extraShortcuts {
			merged[name] = id
		}
		d.shortcuts = merged
	}

	roots := "Drupal"
	for _, alias := range rootAliases {
		alias = strings.TrimPrefix(strings.TrimSpace(alias), `\`)
		if alias == "" || alias == "Drupal" {
			continue
		}
		roots += "|" + regexp.QuoteMeta(alias)
	}
	if roots != "Drupal" {
		d.direct = regexp.MustCompile(`\\?\b(?:` + roots + `)::service\(\s*['"]([^'"]+)['"]\s*\)`)
		d.container = regexp.MustCompile(`\\?\b(?:` + roots + `)::getContainer\(\)->get\(\s*['"]([^'"]+)['"]\s*\)`)
		d.shortcut = regexp.MustCompile(`\\?\b(?:` + roots + `)::(\w+)\(\s*\)`)
	}

	return d
}

// DetectAll scans the source line by line and returns every static service
// call found. Lines are scanned for direct lookups first, then container
// lookups, then shortcut accessors. The scan is purely textual: matches
// inside string literals or comments are reported too.
func (d *Detector) DetectAll(source string) []types.StaticServiceCall {
	var calls []types.StaticServiceCall

	for lineNo, line := range strings.Split(source, "\n") {
		calls = append(calls, d.detectLine(line, lineNo)...)
	}

	return calls
}

// detectLine scans a single line for all three call patterns.
func (d *Detector) detectLine(line string, lineNo int) []types.StaticServiceCall {
	var calls []types.StaticServiceCall

	for _, m := range d.direct.FindAllStringSubmatchIndex(line, -1) {
		calls = append(calls, types.StaticServiceCall{
			ServiceID:   line[m[2]:m[3]],
			Line:        lineNo,
			StartColumn: m[0],
			EndColumn:   m[1],
			MatchedText: line[m[0]:m[1]],
			Kind:        types.DirectCall,
		})
	}

	for _, m := range d.container.FindAllStringSubmatchIndex(line, -1) {
		calls = append(calls, types.StaticServiceCall{
			ServiceID:   line[m[2]:m[3]],
			Line:        lineNo,
			StartColumn: m[0],
			EndColumn:   m[1],
			MatchedText: line[m[0]:m[1]],
			Kind:        types.ContainerCall,
		})
	}

	for _, m := range d.shortcut.FindAllStringSubmatchIndex(line, -1) {
		serviceID, known := d.shortcuts[line[m[2]:m[3]]]
		if !known {
			continue
		}
		calls = append(calls, types.StaticServiceCall{
			ServiceID:   serviceID,
			Line:        lineNo,
			StartColumn: m[0],
			EndColumn:   m[1],
			MatchedText: line[m[0]:m[1]],
			Kind:        types.ShortcutCall,
		})
	}

	return calls
}

// UniqueServices returns the distinct service ids from the given calls in
// first-seen order. Used to deduplicate injection targets.
func UniqueServices(calls []types.StaticServiceCall) []string {
	var ids []string
	seen := make(map[string]bool)

	for _, call := range calls {
		if seen[call.ServiceID] {
			continue
		}
		seen[call.ServiceID] = true
		ids = append(ids, call.ServiceID)
	}

	return ids
}
