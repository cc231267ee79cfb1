package types

import "strings"

// Parameter represents a single parsed constructor parameter
type Parameter struct {
	Name string // includes the leading $
	Type string // empty when the parameter is untyped
}

// PropertyInfo represents a declared class property
type PropertyInfo struct {
	Name     string // without the leading $
	Line     int
	Type     string // empty when untyped
	ReadOnly bool
	DocStart int // -1 when the property has no docblock
	DocEnd   int
}

// ConstructorInfo represents a parsed __construct method. RawParameters keeps
// the original parameter texts verbatim so a merge can re-emit them unchanged.
type ConstructorInfo struct {
	StartLine     int
	EndLine       int
	Parameters    []Parameter
	RawParameters []string
	BodyLines     []string
	DocStart      int
	DocEnd        int
}

// FactoryMethodInfo represents a parsed static create method
type FactoryMethodInfo struct {
	StartLine         int
	EndLine           int
	RetrievedServices []string // container get ids in order of appearance
	DocStart          int
	DocEnd            int
}

// ClassSkeleton represents the structural outline of a PHP class file,
// extracted by line-oriented scanning rather than full parsing
type ClassSkeleton struct {
	Namespace         string
	NamespaceLine     int
	ClassName         string
	ClassLine         int
	ParentClass       string // short name, empty when the class extends nothing
	Interfaces        []string
	Imports           map[string]int // fully qualified name to use-statement line
	LastImportLine    int            // -1 when the file has no imports
	TraitUseLines     []int
	Properties        map[string]PropertyInfo
	FirstPropertyLine int // -1 when the class declares no properties
	Constructor       *ConstructorInfo
	FactoryMethod     *FactoryMethodInfo
}

// HasImport reports whether the skeleton already imports the given name.
// A leading namespace separator on either side is ignored.
func (s *ClassSkeleton) HasImport(name string) bool {
	name = strings.TrimPrefix(name, "\\")
	for imported := range s.Imports {
		if strings.TrimPrefix(imported, "\\") == name {
			return true
		}
	}
	return false
}

// PropertyInsertLine returns the line where a new property block should be
// inserted: after the last trait-use statement, else before the first existing
// property (above its docblock when it has one), else immediately after the
// class header.
func (s *ClassSkeleton) PropertyInsertLine() int {
	if len(s.TraitUseLines) > 0 {
		return s.TraitUseLines[len(s.TraitUseLines)-1] + 1
	}
	if s.FirstPropertyLine >= 0 {
		for _, prop := range s.Properties {
			if prop.Line == s.FirstPropertyLine && prop.DocStart >= 0 {
				return prop.DocStart
			}
		}
		return s.FirstPropertyLine
	}
	return s.ClassLine + 1
}

// ImportInsertLine returns the line where a new use statement should be
// inserted: after the last existing import, else after the namespace line,
// else at the top of the file.
func (s *ClassSkeleton) ImportInsertLine() int {
	if s.LastImportLine >= 0 {
		return s.LastImportLine + 1
	}
	if s.NamespaceLine >= 0 {
		return s.NamespaceLine + 1
	}
	return 0
}

// FullyQualifiedName returns the namespace-qualified class name
func (s *ClassSkeleton) FullyQualifiedName() string {
	if s.Namespace == "" {
		return s.ClassName
	}
	return s.Namespace + "\\" + s.ClassName
}
