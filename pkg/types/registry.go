package types

// ServiceDefinition represents one entry from a declarative service
// registration file
type ServiceDefinition struct {
	ID                  string
	ClassName           string   // fully qualified, without a leading separator
	ClassFilePath       string   // absolute path of the implementing class file, empty when unresolved
	DeclarationFilePath string   // the registration file that declares the service
	Arguments           []string // raw argument strings, reference markers preserved
}

// ServiceRegistry provides read-only service lookups to the refactoring
// engine. Implementations must be safe for concurrent use.
type ServiceRegistry interface {
	// Lookup resolves a service id to its definition
	Lookup(id string) (*ServiceDefinition, bool)
	// All returns every known definition
	All() []*ServiceDefinition
}

// ServiceInterfaceInfo represents the naming derived for injecting one
// service: the type used for hints and imports plus the property name
type ServiceInterfaceInfo struct {
	FullName        string // fully qualified interface name
	ShortName       string
	PropertyName    string
	ImportStatement string
}
