package scanner

import (
	"errors"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/driftwatch/driftwatch/internal/extract"
	"github.com/driftwatch/driftwatch/internal/signal"
)

var (
	tailwindThemePattern = regexp.MustCompile(`\btheme\s*:\s*\{`)
	tailwindEntryPattern = regexp.MustCompile(`(?m)^\s*['"]?([A-Za-z0-9._-]+)['"]?\s*:\s*['"]([^'"]+)['"]`)
)

// tailwindSections maps theme sections to the token type their values
// carry.
var tailwindSections = map[string]signal.Type{
	"colors":     signal.TypeColor,
	"spacing":    signal.TypeSpacing,
	"fontSize":   signal.TypeFontSize,
	"fontFamily": signal.TypeFontFamily,
	"fontWeight": signal.TypeFontWeight,
}

var tailwindSectionPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(tailwindSections))
	for section := range tailwindSections {
		patterns[section] = regexp.MustCompile(`\b` + regexp.QuoteMeta(section) + `\s*:\s*\{`)
	}
	return patterns
}()

// TailwindScanner reads tailwind config files and turns the theme sections
// (including theme.extend) into design tokens. The config is not executed;
// the theme object is pulled out with balanced extraction and scalar
// entries are read off its sections.
type TailwindScanner struct{}

func (TailwindScanner) Name() string { return "tailwind-config" }

func (TailwindScanner) Discover(files []string) []string {
	var out []string
	for _, file := range files {
		base := strings.ToLower(path.Base(file))
		if strings.HasPrefix(base, "tailwind.config.") {
			out = append(out, file)
		}
	}
	return out
}

func (TailwindScanner) Parse(file SourceFile) (*ParseOutput, error) {
	content := file.Content
	out := &ParseOutput{}

	loc := tailwindThemePattern.FindStringIndex(content)
	if loc == nil {
		return out, nil
	}
	theme, ok := extract.BalancedSpan(content, loc[1]-1)
	if !ok {
		return nil, errors.New("unbalanced theme object")
	}
	themeStart := loc[1]

	for section, tokenType := range tailwindSections {
		sectionPattern := tailwindSectionPatterns[section]
		// theme.extend sections appear as additional matches inside the
		// same span and are collected the same way.
		for _, sloc := range sectionPattern.FindAllStringIndex(theme, -1) {
			body, ok := extract.BalancedSpan(theme, sloc[1]-1)
			if !ok {
				continue
			}
			bodyStart := themeStart + sloc[1]
			for _, eloc := range tailwindEntryPattern.FindAllStringSubmatchIndex(body, -1) {
				name := body[eloc[2]:eloc[3]]
				value := body[eloc[4]:eloc[5]]
				out.Tokens = append(out.Tokens, Token{
					Name:   section + "." + name,
					Value:  value,
					Type:   tokenType,
					File:   file.RelPath,
					Line:   lineAt(content, bodyStart+eloc[2]),
					Source: "tailwind-config",
				})
			}
		}
	}

	sortTokens(out.Tokens)
	return out, nil
}

// sortTokens orders tokens by line then name; iteration over the section
// map is unordered, so output needs an explicit sort to stay stable.
func sortTokens(tokens []Token) {
	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].Name < tokens[j].Name
	})
}
