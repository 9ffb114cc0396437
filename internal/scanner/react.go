package scanner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/driftwatch/driftwatch/internal/extract"
	"github.com/driftwatch/driftwatch/internal/signal"
)

var (
	reactFuncPattern  = regexp.MustCompile(`(?m)^export\s+(?:default\s+)?function\s+([A-Z][A-Za-z0-9_]*)`)
	reactConstPattern = regexp.MustCompile(`(?m)^(?:export\s+(?:default\s+)?)?const\s+([A-Z][A-Za-z0-9_]*)\s*(?::[^=\n]+)?=\s*([^\n]*)`)
	reactClassPattern = regexp.MustCompile(`(?m)^export\s+(?:default\s+)?class\s+([A-Z][A-Za-z0-9_]*)\s+extends\b`)

	propsTypePattern = `(?:interface\s+%s\s*(?:extends\s+[^{]+)?|type\s+%s\s*=)\s*\{`
)

// ReactScanner extracts components from React TSX/JSX sources. It is not a
// TypeScript parser: declarations are found with line-anchored patterns and
// prop types are pulled out with balanced-delimiter extraction.
type ReactScanner struct{}

func (ReactScanner) Name() string { return "react" }

func (ReactScanner) Discover(files []string) []string {
	return discoverByExtension(files, []string{".tsx", ".jsx"}, []string{".stories.", ".test.", ".spec."})
}

func (ReactScanner) Parse(file SourceFile) (*ParseOutput, error) {
	// Solid components share the extension set; the import tells them apart.
	if importsSolid(file.Content) {
		return &ParseOutput{}, nil
	}
	return parseComponentScript(file, "react")
}

func importsSolid(content string) bool {
	return strings.Contains(content, `"solid-js"`) || strings.Contains(content, `'solid-js'`)
}

// parseComponentScript is the shared component-oriented script parse used
// by the react and solid scanners.
func parseComponentScript(file SourceFile, framework string) (*ParseOutput, error) {
	content := file.Content
	out := &ParseOutput{}

	deps := localImports(content)
	seen := make(map[string]struct{})

	addComponent := func(name, kind string, offset int) {
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		deprecated, note := deprecationBefore(content, offset)
		out.Components = append(out.Components, Component{
			Name:            name,
			Kind:            kind,
			File:            file.RelPath,
			Line:            lineAt(content, offset),
			Framework:       framework,
			Props:           reactProps(content, name),
			Deprecated:      deprecated,
			DeprecationNote: note,
			Dependencies:    deps,
		})
	}

	for _, loc := range reactFuncPattern.FindAllStringSubmatchIndex(content, -1) {
		addComponent(content[loc[2]:loc[3]], "function", loc[0])
	}
	for _, loc := range reactClassPattern.FindAllStringSubmatchIndex(content, -1) {
		addComponent(content[loc[2]:loc[3]], "class", loc[0])
	}
	for _, loc := range reactConstPattern.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[2]:loc[3]]
		init := content[loc[4]:loc[5]]
		kind, ok := constComponentKind(init)
		if !ok {
			continue
		}
		addComponent(name, kind, loc[0])
	}

	ctx := signal.Context{File: file.RelPath, Line: 1, Framework: framework, Scope: "script"}
	out.Signals = signal.ExtractAll(content, ctx)
	out.Occurrences = classOccurrences(content, file.RelPath, 1)
	return out, nil
}

// constComponentKind decides whether a const initializer looks like a
// component and how it was declared.
func constComponentKind(init string) (string, bool) {
	switch {
	case strings.Contains(init, "forwardRef"):
		return "forwardRef", true
	case strings.Contains(init, "memo("), strings.Contains(init, "memo<"):
		return "memo", true
	case strings.Contains(init, "=>"), strings.HasPrefix(strings.TrimSpace(init), "function"):
		return "function", true
	default:
		return "", false
	}
}

// reactProps locates the NameProps interface or type alias for a component
// and reads its members from the balanced body.
func reactProps(content, componentName string) []Prop {
	propsName := regexp.QuoteMeta(componentName + "Props")
	declPattern := regexp.MustCompile(fmt.Sprintf(propsTypePattern, propsName, propsName))

	loc := declPattern.FindStringIndex(content)
	if loc == nil {
		return nil
	}
	body, ok := extract.BalancedSpan(content, loc[1]-1)
	if !ok {
		// Unbalanced props body: skip the construct, keep the component.
		return nil
	}
	return parsePropsBlock(body)
}

func discoverByExtension(files []string, extensions, excludes []string) []string {
	var out []string
	for _, file := range files {
		lower := strings.ToLower(file)
		excluded := false
		for _, marker := range excludes {
			if strings.Contains(lower, marker) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		for _, ext := range extensions {
			if strings.HasSuffix(lower, ext) {
				out = append(out, file)
				break
			}
		}
	}
	return out
}
