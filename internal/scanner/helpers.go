package scanner

import (
	"regexp"
	"strings"

	"github.com/driftwatch/driftwatch/internal/extract"
	"github.com/driftwatch/driftwatch/internal/pattern"
	"github.com/driftwatch/driftwatch/internal/signal"
)

var (
	classAttrPattern  = regexp.MustCompile("(?:className|class)\\s*=\\s*[{]?\\s*[\"'`]([^\"'`]+)[\"'`]")
	importPattern     = regexp.MustCompile(`(?m)^\s*import\s+(?:[^'"\n]+\s+from\s+)?['"]([^'"]+)['"]`)
	deprecatedPattern = regexp.MustCompile(`@deprecated[ \t]*([^\n*]*)`)

	colorValuePattern   = regexp.MustCompile(`^(?:#[0-9a-fA-F]{3,8}|rgba?\(.*\)|hsla?\(.*\))$`)
	spacingUnitPattern  = regexp.MustCompile(`^-?\d+(?:\.\d+)?(?:px|rem|em|vh|vw|%)$`)
	fontSizeUnitPattern = regexp.MustCompile(`^\d+(?:\.\d+)?(?:px|rem|em|pt)$`)
	fontWeightValue     = regexp.MustCompile(`^(?:[1-9]00|bold|bolder|lighter|normal)$`)
)

// lineAt returns the 1-based line number of byte offset i in content.
func lineAt(content string, i int) int {
	if i > len(content) {
		i = len(content)
	}
	return strings.Count(content[:i], "\n") + 1
}

// classOccurrences collects static class attributes from a region.
// baseLine is the 1-based line the region starts on.
func classOccurrences(region, relPath string, baseLine int) []pattern.ClassOccurrence {
	var out []pattern.ClassOccurrence
	for _, loc := range classAttrPattern.FindAllStringSubmatchIndex(region, -1) {
		classes := strings.TrimSpace(region[loc[2]:loc[3]])
		if classes == "" || strings.ContainsAny(classes, "{}$") {
			// Dynamic class expressions are not pattern evidence.
			continue
		}
		out = append(out, pattern.ClassOccurrence{
			Classes: classes,
			File:    relPath,
			Line:    baseLine + lineAt(region, loc[0]) - 1,
		})
	}
	return out
}

// localImports returns relative import specifiers found in a script region.
func localImports(region string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range importPattern.FindAllStringSubmatch(region, -1) {
		target := m[1]
		if !strings.HasPrefix(target, ".") {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// deprecationBefore reports whether the doc comment immediately preceding
// offset carries an @deprecated marker, and returns the note after it.
func deprecationBefore(content string, offset int) (bool, string) {
	head := content[:offset]
	end := strings.LastIndex(head, "*/")
	if end == -1 {
		return false, ""
	}
	// Only whitespace may sit between the comment and the declaration.
	if strings.TrimSpace(head[end+2:]) != "" {
		return false, ""
	}
	start := strings.LastIndex(head[:end], "/*")
	if start == -1 {
		return false, ""
	}
	m := deprecatedPattern.FindStringSubmatch(head[start:end])
	if m == nil {
		return false, ""
	}
	return true, strings.TrimSpace(m[1])
}

// inferTokenType classifies a token value by its literal form.
func inferTokenType(value string) signal.Type {
	v := strings.TrimSpace(value)
	switch {
	case colorValuePattern.MatchString(v):
		return signal.TypeColor
	case spacingUnitPattern.MatchString(v):
		return signal.TypeSpacing
	case fontWeightValue.MatchString(v):
		return signal.TypeFontWeight
	case fontSizeUnitPattern.MatchString(v):
		return signal.TypeFontSize
	case strings.Contains(v, ","):
		return signal.TypeFontFamily
	default:
		return signal.TypeOther
	}
}

// parsePropsBlock reads `name?: type` members out of a balanced object or
// interface body, using depth tracking so types containing generics or
// unions survive intact.
func parsePropsBlock(block string) []Prop {
	var props []Prop
	i := 0
	for i < len(block) {
		// Skip separators and comment lines between members.
		for i < len(block) && (block[i] == '\n' || block[i] == '\r' || block[i] == ' ' || block[i] == '\t' || block[i] == ';' || block[i] == ',') {
			i++
		}
		if i >= len(block) {
			break
		}
		if strings.HasPrefix(block[i:], "//") || strings.HasPrefix(block[i:], "/*") {
			next := strings.IndexByte(block[i:], '\n')
			if next == -1 {
				break
			}
			i += next + 1
			continue
		}

		nameEnd := i
		for nameEnd < len(block) && isIdentByte(block[nameEnd]) {
			nameEnd++
		}
		if nameEnd == i {
			i++
			continue
		}
		name := block[i:nameEnd]

		rest := nameEnd
		required := true
		if rest < len(block) && block[rest] == '?' {
			required = false
			rest++
		}
		for rest < len(block) && (block[rest] == ' ' || block[rest] == '\t') {
			rest++
		}
		if rest >= len(block) || block[rest] != ':' {
			// Not a member declaration; skip to next line.
			next := strings.IndexByte(block[i:], '\n')
			if next == -1 {
				break
			}
			i += next + 1
			continue
		}

		propType, stopped := extract.WithDepthTracking(block, rest+1, ";,\n")
		props = append(props, Prop{Name: name, Type: propType, Required: required})
		i = stopped + 1
	}
	return props
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
