package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mamaar/drupalrefactor/pkg/types"
)

// servicesFile mirrors the subset of a services.yml document the index
// cares about. Unknown keys are ignored.
type servicesFile struct {
	Services map[string]serviceEntry `yaml:"services"`
}

// serviceEntry is one declaration under the services key.
type serviceEntry struct {
	Class     string       `yaml:"class"`
	Alias     string       `yaml:"alias"`
	Arguments argumentList `yaml:"arguments"`
}

func (e *serviceEntry) UnmarshalYAML(value *yaml.Node) error {
	// Shorthand declarations (a bare alias string, a null for autowiring)
	// are not mappings; treat them as empty entries instead of failing the
	// whole file.
	if value.Kind != yaml.MappingNode {
		return nil
	}
	type plain serviceEntry
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*e = serviceEntry(p)
	return nil
}

// argumentList keeps only the scalar entries of an arguments sequence. A
// service with nested array arguments must not fail the whole file.
type argumentList []string

func (a *argumentList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return nil
	}
	for _, item := range value.Content {
		if item.Kind == yaml.ScalarNode {
			*a = append(*a, item.Value)
		}
	}
	return nil
}

// ParseServicesFile reads one declaration file and converts its entries to
// service definitions. Keys starting with an underscore (such as _defaults)
// are not services and are skipped.
func ParseServicesFile(path string) ([]*types.ServiceDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.RefactorError{
			Type:    types.FileSystemError,
			Message: "cannot read declaration file",
			File:    path,
			Cause:   err,
		}
	}
	return ParseServicesData(path, data)
}

// ParseServicesData converts raw declaration file contents to service
// definitions. The path is only used for error reporting and as the
// declaration path recorded on each definition.
func ParseServicesData(path string, data []byte) ([]*types.ServiceDefinition, error) {
	var file servicesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &types.RefactorError{
			Type:    types.ParseError,
			Message: "cannot parse declaration file",
			File:    path,
			Cause:   err,
		}
	}

	var defs []*types.ServiceDefinition
	for id, entry := range file.Services {
		if strings.HasPrefix(id, "_") {
			continue
		}

		className := strings.TrimPrefix(entry.Class, "\\")
		if className == "" && strings.Contains(id, "\\") {
			// Autowired shorthand: the id is the class name.
			className = strings.TrimPrefix(id, "\\")
		}

		defs = append(defs, &types.ServiceDefinition{
			ID:                  id,
			ClassName:           className,
			DeclarationFilePath: path,
			Arguments:           entry.Arguments,
		})
	}

	return defs, nil
}

// AppendArguments rewrites a declaration document so the given service's
// argument list also names the new ids. Existing arguments are compared
// with their reference markers stripped, so '@logger' and 'logger' count
// as the same dependency; existing entries are left untouched and appended
// entries always carry the @ marker. The whole document is re-serialized.
func AppendArguments(data []byte, serviceID string, newIDs []string) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse declaration document: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty declaration document")
	}

	services := mappingValue(doc.Content[0], "services")
	if services == nil || services.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("no services mapping in document")
	}

	entry := mappingValue(services, serviceID)
	if entry == nil || entry.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("service %q not declared in document", serviceID)
	}

	args := mappingValue(entry, "arguments")
	if args == nil {
		args = &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		entry.Content = append(entry.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "arguments"},
			args)
	}
	if args.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("arguments of %q is not a sequence", serviceID)
	}

	present := make(map[string]bool)
	for _, item := range args.Content {
		if item.Kind == yaml.ScalarNode {
			present[StripReferenceMarker(item.Value)] = true
		}
	}

	for _, id := range newIDs {
		normalized := StripReferenceMarker(id)
		if present[normalized] {
			continue
		}
		present[normalized] = true
		args.Content = append(args.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Style: yaml.SingleQuotedStyle,
			Value: "@" + normalized,
		})
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize declaration document: %w", err)
	}
	return out, nil
}

// mappingValue returns the value node for a key in a mapping node, or nil
// when the key is absent.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// StripReferenceMarker removes the service reference prefix from a raw
// argument: '@logger' and '@?logger' both yield 'logger'.
func StripReferenceMarker(arg string) string {
	arg = strings.TrimPrefix(arg, "@")
	return strings.TrimPrefix(arg, "?")
}
