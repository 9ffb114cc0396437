package scanner

import (
	"regexp"
	"strings"

	"github.com/driftwatch/driftwatch/internal/signal"
)

var (
	svelteScriptPattern = regexp.MustCompile(`(?s)<script[^>]*>(.*?)</script>`)
	svelteStylePattern  = regexp.MustCompile(`(?s)<style[^>]*>(.*?)</style>`)
	svelteExportLet     = regexp.MustCompile(`(?m)^\s*export\s+let\s+([A-Za-z_$][\w$]*)(?:\s*:\s*([^=;\n]+?))?(?:\s*=\s*([^;\n]+?))?\s*;?\s*$`)
)

// SvelteScanner extracts components from Svelte single-file components.
// Props are the script's export let declarations; the markup is everything
// outside the script and style tags.
type SvelteScanner struct{}

func (SvelteScanner) Name() string { return "svelte" }

func (SvelteScanner) Discover(files []string) []string {
	return discoverByExtension(files, []string{".svelte"}, nil)
}

func (SvelteScanner) Parse(file SourceFile) (*ParseOutput, error) {
	content := file.Content
	out := &ParseOutput{}

	script, scriptLine := vueRegion(content, svelteScriptPattern)

	var props []Prop
	for _, m := range svelteExportLet.FindAllStringSubmatch(script, -1) {
		prop := Prop{Name: m[1], Type: strings.TrimSpace(m[2])}
		if def := strings.TrimSpace(m[3]); def != "" {
			prop.Default = def
		} else {
			// No default means the caller must supply a value.
			prop.Required = true
		}
		props = append(props, prop)
	}

	deprecated, note := false, ""
	if m := deprecatedPattern.FindStringSubmatch(content); m != nil {
		deprecated, note = true, strings.TrimSpace(m[1])
	}

	out.Components = []Component{{
		Name:            componentNameFromFile(file.RelPath),
		Kind:            "function",
		File:            file.RelPath,
		Line:            1,
		Framework:       "svelte",
		Props:           props,
		Deprecated:      deprecated,
		DeprecationNote: note,
		Dependencies:    localImports(script),
	}}

	out.Occurrences = classOccurrences(content, file.RelPath, 1)

	if script != "" {
		ctx := signal.Context{File: file.RelPath, Line: scriptLine, Framework: "svelte", Scope: "script"}
		out.Signals = append(out.Signals, signal.ExtractAll(script, ctx)...)
	}
	for _, loc := range svelteStylePattern.FindAllStringSubmatchIndex(content, -1) {
		style := content[loc[2]:loc[3]]
		ctx := signal.Context{File: file.RelPath, Line: lineAt(content, loc[2]), Framework: "svelte", Scope: "style"}
		out.Signals = append(out.Signals, signal.ExtractAll(style, ctx)...)
	}
	return out, nil
}
