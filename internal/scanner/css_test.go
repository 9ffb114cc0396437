package scanner

import (
	"testing"

	"github.com/driftwatch/driftwatch/internal/signal"
)

const stylesheetSource = `:root {
  --color-primary: #3366ff;
  --space-md: 16px;
  --font-body: Inter, sans-serif;
}

.card {
  padding: var(--space-md);
  color: #ff0000;
}
`

func TestCSSScannerTokens(t *testing.T) {
	out, err := CSSScanner{}.Parse(SourceFile{RelPath: "styles/tokens.css", Content: stylesheetSource})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(out.Tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %+v", out.Tokens)
	}

	want := []struct {
		name  string
		value string
		typ   signal.Type
		line  int
	}{
		{"--color-primary", "#3366ff", signal.TypeColor, 2},
		{"--space-md", "16px", signal.TypeSpacing, 3},
		{"--font-body", "Inter, sans-serif", signal.TypeFontFamily, 4},
	}
	for i, w := range want {
		tok := out.Tokens[i]
		if tok.Name != w.name || tok.Value != w.value || tok.Type != w.typ || tok.Line != w.line {
			t.Fatalf("token %d: got %+v, want %+v", i, tok, w)
		}
		if tok.Source != "css" {
			t.Fatalf("token %d: unexpected source %q", i, tok.Source)
		}
	}
}

func TestCSSScannerSignals(t *testing.T) {
	out, err := CSSScanner{}.Parse(SourceFile{RelPath: "styles/tokens.css", Content: stylesheetSource})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	lines := make(map[string]int)
	for _, sig := range out.Signals {
		if sig.Type == signal.TypeColor {
			lines[sig.Value] = sig.Context.Line
		}
	}
	if lines["#3366ff"] != 2 || lines["#ff0000"] != 9 {
		t.Fatalf("unexpected color signals: %v", lines)
	}
}
