// Package extract provides delimiter-balanced text extraction primitives
// shared by the dialect scanners. The scanners locate a region of interest
// with markers or regular expressions and use these functions to pull out
// the balanced span that follows, without a grammar for the dialect.
package extract

import "strings"

var closerFor = map[byte]byte{
	'{': '}',
	'(': ')',
	'[': ']',
	'<': '>',
}

var openerFor = map[byte]byte{
	'}': '{',
	')': '(',
	']': '[',
	'>': '<',
}

// BalancedSpan returns the text strictly between the opening delimiter at
// text[open] and its matching closer. The second return is false when
// text[open] is not a recognized opener or the span never closes before end
// of input; callers treat that as a soft parse failure and skip the
// construct.
func BalancedSpan(text string, open int) (string, bool) {
	if open < 0 || open >= len(text) {
		return "", false
	}
	opener := text[open]
	closer, ok := closerFor[opener]
	if !ok {
		return "", false
	}

	depth := 0
	for i := open; i < len(text); i++ {
		c := text[i]
		switch {
		case isStringDelimiter(c):
			i = skipStringLiteral(text, i)
		case c == opener:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return text[open+1 : i], true
			}
		}
	}
	return "", false
}

// WithDepthTracking accumulates characters from text[start] while tracking
// nesting depth across all bracket kinds simultaneously, and stops when
// depth is zero and the current character is one of stop. It returns the
// trimmed captured text and the index of the character scanning stopped at
// (len(text) when input ran out), so the caller can resume after the
// terminator. Terminators inside nested brackets do not stop the scan,
// which lets callers capture prop-type expressions containing generics or
// nested calls.
func WithDepthTracking(text string, start int, stop string) (string, int) {
	if start < 0 {
		start = 0
	}
	depth := 0
	var b strings.Builder
	i := start
	for i < len(text) {
		c := text[i]
		if depth == 0 && strings.IndexByte(stop, c) >= 0 {
			return strings.TrimSpace(b.String()), i
		}
		if isStringDelimiter(c) {
			end := skipStringLiteral(text, i)
			b.WriteString(text[i : min(end+1, len(text))])
			i = end + 1
			continue
		}
		// The > of an arrow function is not a closing bracket.
		if c == '>' && i > 0 && text[i-1] == '=' {
			b.WriteByte(c)
			i++
			continue
		}
		if _, ok := closerFor[c]; ok {
			depth++
		} else if _, ok := openerFor[c]; ok {
			depth--
			if depth < 0 {
				// Closer without opener terminates the capture; treat it
				// like a stop character so enclosing spans stay intact.
				return strings.TrimSpace(b.String()), i
			}
		}
		b.WriteByte(c)
		i++
	}
	return strings.TrimSpace(b.String()), len(text)
}

func isStringDelimiter(c byte) bool {
	return c == '\'' || c == '"' || c == '`'
}

// skipStringLiteral returns the index of the closing quote for the literal
// opening at text[i], honoring backslash escapes. An unterminated literal
// consumes the rest of the input.
func skipStringLiteral(text string, i int) int {
	quote := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(text)
}
