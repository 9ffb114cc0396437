package scanner

import (
	"regexp"
	"strings"

	"github.com/driftwatch/driftwatch/internal/signal"
)

var cssCustomPropPattern = regexp.MustCompile(`(--[A-Za-z0-9_-]+)\s*:\s*([^;}\n]+)`)

// CSSScanner reads plain stylesheets. Custom properties become design
// tokens; every declaration feeds the signal extractors.
type CSSScanner struct{}

func (CSSScanner) Name() string { return "css" }

func (CSSScanner) Discover(files []string) []string {
	return discoverByExtension(files, []string{".css", ".scss", ".less"}, nil)
}

func (CSSScanner) Parse(file SourceFile) (*ParseOutput, error) {
	content := file.Content
	out := &ParseOutput{}

	for _, loc := range cssCustomPropPattern.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[2]:loc[3]]
		value := strings.TrimSpace(content[loc[4]:loc[5]])
		out.Tokens = append(out.Tokens, Token{
			Name:   name,
			Value:  value,
			Type:   inferTokenType(value),
			File:   file.RelPath,
			Line:   lineAt(content, loc[0]),
			Source: "css",
		})
	}

	ctx := signal.Context{File: file.RelPath, Line: 1, Framework: "css", Scope: "style"}
	out.Signals = signal.ExtractAll(content, ctx)
	return out, nil
}
