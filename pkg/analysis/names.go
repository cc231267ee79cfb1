package analysis

import (
	"strings"

	"github.com/mamaar/drupalrefactor/pkg/types"
)

// DerivePropertyName converts a service id into a camel-cased property
// name: entity_type.manager becomes entityTypeManager. The derivation is a
// pure function of the id so repeated runs produce identical names.
func DerivePropertyName(serviceID string) string {
	words := splitServiceWords(serviceID)
	if len(words) == 0 {
		return ""
	}

	name := words[0]
	for _, word := range words[1:] {
		name += capitalize(word)
	}
	return name
}

// ServiceLabel renders a readable name for a service id, used in generated
// property docblocks: entity_type.manager becomes "entity type manager".
func ServiceLabel(serviceID string) string {
	return strings.Join(splitServiceWords(serviceID), " ")
}

// ResolveServiceInterface synthesizes the injection naming for a service id
// through the registry. The type used for hints is the implementing class
// name with an Interface suffix, matching the framework convention of one
// interface per service class. Returns nil for ids the registry does not
// know; those are injected untyped.
func ResolveServiceInterface(registry types.ServiceRegistry, serviceID string) *types.ServiceInterfaceInfo {
	if registry == nil {
		return nil
	}

	def, ok := registry.Lookup(serviceID)
	if !ok || def.ClassName == "" {
		return nil
	}

	fullName := strings.TrimPrefix(def.ClassName, "\\")
	if !strings.HasSuffix(fullName, "Interface") {
		fullName += "Interface"
	}

	return &types.ServiceInterfaceInfo{
		FullName:        fullName,
		ShortName:       shortClassName(fullName),
		PropertyName:    DerivePropertyName(serviceID),
		ImportStatement: "use " + fullName + ";",
	}
}

// splitServiceWords splits a service id into its words on dots and
// underscores.
func splitServiceWords(serviceID string) []string {
	return strings.FieldsFunc(serviceID, func(r rune) bool {
		return r == '.' || r == '_'
	})
}

// capitalize upper-cases the first letter of a word.
func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

// shortClassName returns the last segment of a namespaced class name.
func shortClassName(name string) string {
	name = strings.TrimPrefix(name, "\\")
	if idx := strings.LastIndex(name, "\\"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
