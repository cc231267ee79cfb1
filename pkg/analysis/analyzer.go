package analysis

import (
	"regexp"
	"strings"

	"github.com/mamaar/drupalrefactor/pkg/types"
)

var (
	namespacePattern = regexp.MustCompile(`^namespace\s+([^;]+);`)
	importPattern    = regexp.MustCompile(`^use\s+([^;]+);`)
	classPattern     = regexp.MustCompile(`^(?:final\s+|abstract\s+)*(?:class|interface|trait)\s+(\w+)(?:\s+extends\s+([\w\\]+))?(?:\s+implements\s+([^{]+))?`)
	propertyPattern  = regexp.MustCompile(`^(?:public|protected|private)\s+(?:static\s+)?(readonly\s+)?(?:([?\w\\|]+)\s+)?\$(\w+)`)
	parameterPattern = regexp.MustCompile(`(?:([?\w\\|]+)\s+)?&?(?:\.\.\.)?(\$\w+)`)

	containerGetPattern = regexp.MustCompile(`\$container->get\(\s*['"]([^'"]+)['"]\s*\)`)
)

// Analyzer extracts a structural skeleton from PHP source text. It works on
// lines and brace counts rather than a syntax tree, which keeps it robust
// against partially written code at the cost of known blind spots: braces
// inside string literals are counted like any other brace.
type Analyzer struct{}

// NewAnalyzer creates a new structural analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze scans the source and returns its structural skeleton. Analyze
// never fails: anything it cannot make sense of is simply absent from the
// result.
func (a *Analyzer) Analyze(source string) *types.ClassSkeleton {
	lines := strings.Split(source, "\n")

	skeleton := &types.ClassSkeleton{
		Imports:           make(map[string]int),
		Properties:        make(map[string]types.PropertyInfo),
		NamespaceLine:     -1,
		LastImportLine:    -1,
		ClassLine:         -1,
		FirstPropertyLine: -1,
	}

	bodyStart := a.scanHeader(lines, skeleton)
	if skeleton.ClassLine < 0 {
		return skeleton
	}

	a.scanBody(lines, bodyStart, skeleton)
	return skeleton
}

// scanHeader collects the namespace and import lines up to the first
// class, interface or trait header. Returns the line after the header.
func (a *Analyzer) scanHeader(lines []string, skeleton *types.ClassSkeleton) int {
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])

		if m := namespacePattern.FindStringSubmatch(trimmed); m != nil {
			skeleton.Namespace = strings.TrimSpace(m[1])
			skeleton.NamespaceLine = i
			continue
		}

		if m := importPattern.FindStringSubmatch(trimmed); m != nil {
			name := strings.TrimSpace(m[1])
			if idx := strings.Index(name, " as "); idx >= 0 {
				name = strings.TrimSpace(name[:idx])
			}
			skeleton.Imports[name] = i
			skeleton.LastImportLine = i
			continue
		}

		if m := classPattern.FindStringSubmatch(trimmed); m != nil {
			skeleton.ClassName = m[1]
			skeleton.ClassLine = i
			if m[2] != "" {
				skeleton.ParentClass = shortClassName(m[2])
			}
			if m[3] != "" {
				for _, name := range strings.Split(m[3], ",") {
					name = strings.TrimSpace(name)
					if name != "" {
						skeleton.Interfaces = append(skeleton.Interfaces, name)
					}
				}
			}
			return i + 1
		}
	}

	return len(lines)
}

// scanBody walks the class body tracking a docblock window so that each
// declaration picks up the docblock directly above it. Constructor and
// factory spans are consumed whole so their parameter and body lines are
// not mistaken for class-level declarations.
func (a *Analyzer) scanBody(lines []string, start int, skeleton *types.ClassSkeleton) {
	docStart, docEnd := -1, -1
	resetDoc := func() { docStart, docEnd = -1, -1 }

	for i := start; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "/**") {
			docStart = i
			docEnd = -1
			if strings.Contains(trimmed, "*/") {
				docEnd = i
			}
			continue
		}
		if docStart >= 0 && docEnd < 0 {
			if strings.Contains(trimmed, "*/") {
				docEnd = i
			}
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "*") {
			continue
		}

		if strings.HasPrefix(trimmed, "use ") && strings.Contains(trimmed, ";") {
			skeleton.TraitUseLines = append(skeleton.TraitUseLines, i)
			resetDoc()
			continue
		}

		if strings.Contains(line, "public function __construct(") {
			if info := a.parseConstructor(lines, i, docStart, docEnd); info != nil {
				if skeleton.Constructor == nil {
					skeleton.Constructor = info
				}
				i = info.EndLine
			}
			resetDoc()
			continue
		}

		if strings.Contains(line, "public static function create(") {
			if info := a.parseFactory(lines, i, docStart, docEnd); info != nil {
				if skeleton.FactoryMethod == nil {
					skeleton.FactoryMethod = info
				}
				i = info.EndLine
			}
			resetDoc()
			continue
		}

		if m := propertyPattern.FindStringSubmatch(trimmed); m != nil {
			name := m[3]
			skeleton.Properties[name] = types.PropertyInfo{
				Name:     name,
				Line:     i,
				Type:     strings.TrimSpace(m[2]),
				ReadOnly: m[1] != "",
				DocStart: docStart,
				DocEnd:   docEnd,
			}
			if skeleton.FirstPropertyLine < 0 {
				skeleton.FirstPropertyLine = i
			}
			resetDoc()
			continue
		}

		resetDoc()
	}
}

// parseConstructor extracts the constructor span, its parameter list and
// its body lines. Returns nil when the span cannot be resolved.
func (a *Analyzer) parseConstructor(lines []string, start, docStart, docEnd int) *types.ConstructorInfo {
	end, ok := methodSpan(lines, start)
	if !ok {
		return nil
	}

	info := &types.ConstructorInfo{
		StartLine: start,
		EndLine:   end,
		DocStart:  docStart,
		DocEnd:    docEnd,
	}

	for _, raw := range parameterTexts(lines, start, end, "__construct(") {
		info.RawParameters = append(info.RawParameters, raw)
		stripped := stripParameterModifiers(raw)
		if m := parameterPattern.FindStringSubmatch(stripped); m != nil {
			info.Parameters = append(info.Parameters, types.Parameter{
				Name: m[2],
				Type: strings.TrimSpace(m[1]),
			})
		}
	}

	info.BodyLines = bodyLines(lines, start, end)
	return info
}

// parseFactory extracts the factory span and the service ids it already
// retrieves from the container.
func (a *Analyzer) parseFactory(lines []string, start, docStart, docEnd int) *types.FactoryMethodInfo {
	end, ok := methodSpan(lines, start)
	if !ok {
		return nil
	}

	info := &types.FactoryMethodInfo{
		StartLine: start,
		EndLine:   end,
		DocStart:  docStart,
		DocEnd:    docEnd,
	}

	for i := start; i <= end && i < len(lines); i++ {
		for _, m := range containerGetPattern.FindAllStringSubmatch(lines[i], -1) {
			info.RetrievedServices = append(info.RetrievedServices, m[1])
		}
	}

	return info
}

// methodSpan accumulates brace depth per line starting at the declaration
// and returns the line where depth returns to zero after the body opened.
// Braces inside strings are counted too; a span that never closes reports
// false.
func methodSpan(lines []string, start int) (int, bool) {
	depth := 0
	opened := false

	for i := start; i < len(lines); i++ {
		if strings.Contains(lines[i], "{") {
			opened = true
		}
		depth += strings.Count(lines[i], "{") - strings.Count(lines[i], "}")
		if opened && depth <= 0 {
			return i, true
		}
	}

	return 0, false
}

// parameterTexts concatenates the signature from the declaration line up to
// the first line containing a closing parenthesis and splits it into the
// individual parameter texts, verbatim.
func parameterTexts(lines []string, start, end int, marker string) []string {
	var sig strings.Builder

	for i := start; i <= end && i < len(lines); i++ {
		part := lines[i]
		if i == start {
			if idx := strings.Index(part, marker); idx >= 0 {
				part = part[idx+len(marker):]
			}
		}
		if idx := strings.Index(part, ")"); idx >= 0 {
			sig.WriteString(part[:idx])
			break
		}
		sig.WriteString(part)
		sig.WriteString(" ")
	}

	var params []string
	for _, piece := range splitParameters(sig.String()) {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			params = append(params, piece)
		}
	}

	return params
}

// splitParameters splits a parameter list on commas that are not nested
// inside parentheses or brackets, so array defaults survive intact.
func splitParameters(s string) []string {
	var pieces []string
	depth := 0
	startIdx := 0

	for i, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				pieces = append(pieces, s[startIdx:i])
				startIdx = i + 1
			}
		}
	}

	return append(pieces, s[startIdx:])
}

// stripParameterModifiers removes promoted-property visibility and readonly
// keywords from a parameter text.
func stripParameterModifiers(param string) string {
	param = strings.TrimSpace(param)
	for {
		switch {
		case strings.HasPrefix(param, "public "):
			param = strings.TrimSpace(strings.TrimPrefix(param, "public "))
		case strings.HasPrefix(param, "protected "):
			param = strings.TrimSpace(strings.TrimPrefix(param, "protected "))
		case strings.HasPrefix(param, "private "):
			param = strings.TrimSpace(strings.TrimPrefix(param, "private "))
		case strings.HasPrefix(param, "readonly "):
			param = strings.TrimSpace(strings.TrimPrefix(param, "readonly "))
		default:
			return param
		}
	}
}

// bodyLines returns the lines strictly between the opening brace line and
// the closing line of a method span.
func bodyLines(lines []string, start, end int) []string {
	for i := start; i <= end && i < len(lines); i++ {
		if strings.Contains(lines[i], "{") {
			if i+1 > end {
				return nil
			}
			body := make([]string, end-i-1)
			copy(body, lines[i+1:end])
			return body
		}
	}
	return nil
}
