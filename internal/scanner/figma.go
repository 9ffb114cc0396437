package scanner

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/driftwatch/driftwatch/internal/signal"
)

// FigmaScanner reads locally exported Figma token files (design-token
// JSON). The network client that produces these exports is outside the
// core; this scanner only consumes what it wrote to disk. Token groups
// nest arbitrarily; any object carrying a "value" key is a token, named by
// its dot-joined path.
type FigmaScanner struct{}

func (FigmaScanner) Name() string { return "figma" }

func (FigmaScanner) Discover(files []string) []string {
	var out []string
	for _, file := range files {
		lower := strings.ToLower(file)
		if strings.HasSuffix(lower, ".figma.json") || strings.HasSuffix(lower, "figma.tokens.json") {
			out = append(out, file)
		}
	}
	return out
}

func (FigmaScanner) Parse(file SourceFile) (*ParseOutput, error) {
	var root map[string]any
	if err := json.Unmarshal([]byte(file.Content), &root); err != nil {
		return nil, fmt.Errorf("invalid token export: %w", err)
	}

	out := &ParseOutput{}
	collectFigmaTokens(root, nil, file.RelPath, &out.Tokens)
	sort.Slice(out.Tokens, func(i, j int) bool {
		return out.Tokens[i].Name < out.Tokens[j].Name
	})
	return out, nil
}

func collectFigmaTokens(node map[string]any, path []string, relPath string, tokens *[]Token) {
	if raw, ok := node["value"]; ok {
		value := fmt.Sprintf("%v", raw)
		token := Token{
			Name:   strings.Join(path, "."),
			Value:  value,
			Type:   inferTokenType(value),
			File:   relPath,
			Line:   1,
			Source: "figma",
		}
		if declared, ok := node["type"].(string); ok {
			if mapped, known := figmaTypeMap[declared]; known {
				token.Type = mapped
			}
		}
		*tokens = append(*tokens, token)
		return
	}
	for key, child := range node {
		childMap, ok := child.(map[string]any)
		if !ok {
			continue
		}
		childPath := make([]string, 0, len(path)+1)
		childPath = append(append(childPath, path...), key)
		collectFigmaTokens(childMap, childPath, relPath, tokens)
	}
}

var figmaTypeMap = map[string]signal.Type{
	"color":      signal.TypeColor,
	"spacing":    signal.TypeSpacing,
	"dimension":  signal.TypeSpacing,
	"fontSizes":  signal.TypeFontSize,
	"fontSize":   signal.TypeFontSize,
	"fontFamily": signal.TypeFontFamily,
	"fontWeight": signal.TypeFontWeight,
}
