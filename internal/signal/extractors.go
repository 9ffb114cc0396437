package signal

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	colorHexPattern  = regexp.MustCompile(`#(?:[0-9a-fA-F]{8}|[0-9a-fA-F]{6}|[0-9a-fA-F]{3,4})\b`)
	colorFuncPattern = regexp.MustCompile(`\b(?:rgba?|hsla?)\(\s*[^)]*\)`)

	spacingPropPattern  = regexp.MustCompile(`(?i)\b(?:margin|padding|gap|row-gap|column-gap|inset)(?:-(?:top|right|bottom|left|block|inline|x|y))?\s*:\s*([^;\n}]+)`)
	spacingJSPattern    = regexp.MustCompile(`\b(?:margin|padding|gap)(?:Top|Right|Bottom|Left|X|Y)?\s*:\s*['"]([^'"\n]+)['"]`)
	spacingValuePattern = regexp.MustCompile(`-?\d+(?:\.\d+)?(?:px|rem|em|vh|vw|%)`)

	fontSizePattern   = regexp.MustCompile(`(?:font-size\s*:|fontSize\s*:)\s*['"]?([^'";\n}]+)`)
	fontFamilyPattern = regexp.MustCompile(`(?:font-family\s*:|fontFamily\s*:)\s*([^;\n}]+)`)
	fontWeightPattern = regexp.MustCompile(`(?:font-weight\s*:|fontWeight\s*:)\s*['"]?(\d{3}|bold|bolder|lighter|normal)\b`)

	quoteStripper = strings.NewReplacer(`'`, "", `"`, "")
)

// ExtractColorSignals recognizes hex, rgb/rgba and hsl/hsla literals.
func ExtractColorSignals(content string, ctx Context) []RawSignal {
	return extractByLine(content, ctx, TypeColor, func(line string) []match {
		out := matchAll(line, colorHexPattern, 0)
		return append(out, matchAll(line, colorFuncPattern, 0)...)
	})
}

// ExtractSpacingSignals recognizes numeric+unit literals in the values of
// spacing properties (margin, padding, gap, inset and their variants).
func ExtractSpacingSignals(content string, ctx Context) []RawSignal {
	return extractByLine(content, ctx, TypeSpacing, func(line string) []match {
		var out []match
		seen := make(map[int]struct{})
		collect := func(valueStart int, value string) {
			for _, v := range spacingValuePattern.FindAllStringIndex(value, -1) {
				start := valueStart + v[0]
				// The stylesheet and object-literal patterns can both hit
				// the same literal (e.g. a bare gap declaration).
				if _, dup := seen[start]; dup {
					continue
				}
				seen[start] = struct{}{}
				out = append(out, match{start: start, value: value[v[0]:v[1]]})
			}
		}
		for _, loc := range spacingPropPattern.FindAllStringSubmatchIndex(line, -1) {
			collect(loc[2], line[loc[2]:loc[3]])
		}
		for _, loc := range spacingJSPattern.FindAllStringSubmatchIndex(line, -1) {
			collect(loc[2], line[loc[2]:loc[3]])
		}
		return out
	})
}

// ExtractFontSizeSignals recognizes font-size declarations in stylesheet or
// object-literal form.
func ExtractFontSizeSignals(content string, ctx Context) []RawSignal {
	return extractByLine(content, ctx, TypeFontSize, func(line string) []match {
		return matchAll(line, fontSizePattern, 1)
	})
}

// ExtractFontFamilySignals recognizes font-family declarations.
func ExtractFontFamilySignals(content string, ctx Context) []RawSignal {
	return extractByLine(content, ctx, TypeFontFamily, func(line string) []match {
		out := matchAll(line, fontFamilyPattern, 1)
		for i := range out {
			out[i].value = strings.TrimSpace(quoteStripper.Replace(out[i].value))
		}
		return out
	})
}

// ExtractFontWeightSignals recognizes numeric and keyword font weights.
func ExtractFontWeightSignals(content string, ctx Context) []RawSignal {
	return extractByLine(content, ctx, TypeFontWeight, func(line string) []match {
		return matchAll(line, fontWeightPattern, 1)
	})
}

// ExtractAll runs every extractor over the same region and concatenates the
// results. Each extractor's output is ordered by source position; the
// concatenation keeps extractor order stable for reproducible snapshots.
func ExtractAll(content string, ctx Context) []RawSignal {
	var out []RawSignal
	out = append(out, ExtractColorSignals(content, ctx)...)
	out = append(out, ExtractSpacingSignals(content, ctx)...)
	out = append(out, ExtractFontSizeSignals(content, ctx)...)
	out = append(out, ExtractFontFamilySignals(content, ctx)...)
	out = append(out, ExtractFontWeightSignals(content, ctx)...)
	return out
}

type match struct {
	start int
	value string
}

func matchAll(line string, pattern *regexp.Regexp, group int) []match {
	var out []match
	for _, loc := range pattern.FindAllStringSubmatchIndex(line, -1) {
		start, end := loc[2*group], loc[2*group+1]
		if start < 0 {
			continue
		}
		value := strings.TrimSpace(line[start:end])
		if value == "" {
			continue
		}
		out = append(out, match{start: start, value: value})
	}
	return out
}

// extractByLine walks content line by line so signal order follows source
// position (ascending line, then column). ctx.Line is the 1-based line the
// region starts on within its file.
func extractByLine(content string, ctx Context, signalType Type, find func(line string) []match) []RawSignal {
	now := time.Now().UTC()
	baseLine := ctx.Line
	if baseLine < 1 {
		baseLine = 1
	}

	var out []RawSignal
	for i, line := range strings.Split(content, "\n") {
		matches := find(line)
		sortMatches(matches)
		for _, m := range matches {
			sctx := ctx
			sctx.Line = baseLine + i
			out = append(out, newSignal(signalType, m.value, sctx, now))
		}
	}
	return out
}

func sortMatches(matches []match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].start < matches[j].start
	})
}
