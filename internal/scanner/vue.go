package scanner

import (
	"errors"
	"path"
	"regexp"
	"strings"

	"github.com/driftwatch/driftwatch/internal/extract"
	"github.com/driftwatch/driftwatch/internal/signal"
)

var (
	vueTemplatePattern = regexp.MustCompile(`(?s)<template[^>]*>(.*)</template>`)
	vueScriptPattern   = regexp.MustCompile(`(?s)<script[^>]*>(.*?)</script>`)
	vueStylePattern    = regexp.MustCompile(`(?s)<style[^>]*>(.*?)</style>`)
	vueNamePattern     = regexp.MustCompile(`\bname\s*:\s*['"]([^'"]+)['"]`)
	vueOptionsProps    = regexp.MustCompile(`\bprops\s*:\s*\{`)

	vuePropObjectType     = regexp.MustCompile(`\btype\s*:\s*([A-Za-z][\w.\[\]]*)`)
	vuePropObjectRequired = regexp.MustCompile(`\brequired\s*:\s*true\b`)
	vuePropObjectDefault  = regexp.MustCompile(`\bdefault\s*:\s*([^,\n}]+)`)
)

// VueScanner extracts components from single-file Vue components. The
// template/script/style regions are located by their tags; props come from
// defineProps (composition API) or the props option (options API) via
// balanced extraction.
type VueScanner struct{}

func (VueScanner) Name() string { return "vue" }

func (VueScanner) Discover(files []string) []string {
	return discoverByExtension(files, []string{".vue"}, nil)
}

func (VueScanner) Parse(file SourceFile) (*ParseOutput, error) {
	content := file.Content
	out := &ParseOutput{}

	script, scriptLine := vueRegion(content, vueScriptPattern)
	template, templateLine := vueRegion(content, vueTemplatePattern)

	name := componentNameFromFile(file.RelPath)
	if m := vueNamePattern.FindStringSubmatch(script); m != nil {
		name = m[1]
	}

	props, err := vueProps(script)
	if err != nil {
		return nil, err
	}

	deprecated, note := false, ""
	if m := deprecatedPattern.FindStringSubmatch(script); m != nil {
		deprecated, note = true, strings.TrimSpace(m[1])
	}

	out.Components = []Component{{
		Name:            name,
		Kind:            "function",
		File:            file.RelPath,
		Line:            1,
		Framework:       "vue",
		Props:           props,
		Deprecated:      deprecated,
		DeprecationNote: note,
		Dependencies:    localImports(script),
	}}

	if template != "" {
		out.Occurrences = classOccurrences(template, file.RelPath, templateLine)
	}
	if script != "" {
		ctx := signal.Context{File: file.RelPath, Line: scriptLine, Framework: "vue", Scope: "script"}
		out.Signals = append(out.Signals, signal.ExtractAll(script, ctx)...)
	}
	for _, loc := range vueStylePattern.FindAllStringSubmatchIndex(content, -1) {
		style := content[loc[2]:loc[3]]
		ctx := signal.Context{File: file.RelPath, Line: lineAt(content, loc[2]), Framework: "vue", Scope: "style"}
		out.Signals = append(out.Signals, signal.ExtractAll(style, ctx)...)
	}
	return out, nil
}

func vueRegion(content string, pattern *regexp.Regexp) (string, int) {
	loc := pattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return "", 1
	}
	return content[loc[2]:loc[3]], lineAt(content, loc[2])
}

// vueProps reads props from defineProps or the options-API props block.
// An unbalanced props declaration fails the whole file.
func vueProps(script string) ([]Prop, error) {
	anchor := strings.Index(script, "defineProps")
	if anchor == -1 {
		if m := vueOptionsProps.FindStringIndex(script); m != nil {
			anchor = m[0]
		}
	}
	if anchor == -1 {
		return nil, nil
	}

	open := strings.IndexByte(script[anchor:], '{')
	if open == -1 {
		return nil, nil
	}
	body, ok := extract.BalancedSpan(script, anchor+open)
	if !ok {
		return nil, errors.New("unbalanced props declaration")
	}

	props := parsePropsBlock(body)
	for i := range props {
		if !strings.HasPrefix(props[i].Type, "{") {
			continue
		}
		// Options-API object form: { type: String, required: true }.
		object := props[i].Type
		if m := vuePropObjectType.FindStringSubmatch(object); m != nil {
			props[i].Type = m[1]
		} else {
			props[i].Type = ""
		}
		props[i].Required = vuePropObjectRequired.MatchString(object)
		if m := vuePropObjectDefault.FindStringSubmatch(object); m != nil {
			props[i].Default = strings.TrimSpace(m[1])
		}
	}
	return props, nil
}

// componentNameFromFile derives a PascalCase component name from the file
// base name.
func componentNameFromFile(relPath string) string {
	base := path.Base(relPath)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	parts := strings.FieldsFunc(base, func(r rune) bool {
		return r == '-' || r == '_'
	})
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	if b.Len() == 0 {
		return base
	}
	return b.String()
}
