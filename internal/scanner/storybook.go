package scanner

import (
	"regexp"
	"strings"

	"github.com/driftwatch/driftwatch/internal/extract"
)

var (
	storybookDefaultExport = regexp.MustCompile(`export\s+default\s*\{`)
	storybookMetaConst     = regexp.MustCompile(`const\s+meta\s*(?::[^=\n]+)?=\s*\{`)
	storybookTitlePattern  = regexp.MustCompile(`\btitle\s*:\s*['"]([^'"]+)['"]`)
	storybookNamedExport   = regexp.MustCompile(`(?m)^export\s+const\s+([A-Z][A-Za-z0-9_]*)\b`)
)

// StorybookScanner reads story files in component story format: the default
// export (or meta const) carries the title, named story exports become the
// component's variants.
type StorybookScanner struct{}

func (StorybookScanner) Name() string { return "storybook" }

func (StorybookScanner) Discover(files []string) []string {
	var out []string
	for _, file := range files {
		lower := strings.ToLower(file)
		if strings.Contains(lower, ".stories.") {
			out = append(out, file)
		}
	}
	return out
}

func (StorybookScanner) Parse(file SourceFile) (*ParseOutput, error) {
	content := file.Content
	out := &ParseOutput{}

	meta := storybookMeta(content)
	name := componentNameFromFile(file.RelPath)
	if m := storybookTitlePattern.FindStringSubmatch(meta); m != nil {
		// Titles are slash-separated paths; the leaf names the component.
		parts := strings.Split(m[1], "/")
		name = parts[len(parts)-1]
	}

	var variants []string
	for _, m := range storybookNamedExport.FindAllStringSubmatch(content, -1) {
		variants = append(variants, m[1])
	}

	out.Components = []Component{{
		Name:         name,
		Kind:         "function",
		File:         file.RelPath,
		Line:         1,
		Framework:    "storybook",
		Variants:     variants,
		Dependencies: localImports(content),
	}}
	out.Occurrences = classOccurrences(content, file.RelPath, 1)
	return out, nil
}

// storybookMeta returns the body of the default export or meta const, or
// empty when neither extracts cleanly.
func storybookMeta(content string) string {
	for _, pattern := range []*regexp.Regexp{storybookDefaultExport, storybookMetaConst} {
		loc := pattern.FindStringIndex(content)
		if loc == nil {
			continue
		}
		if body, ok := extract.BalancedSpan(content, loc[1]-1); ok {
			return body
		}
	}
	return ""
}
