// Package scanner discovers UI components and design tokens across source
// dialects. Each dialect is an independent implementation of the Scanner
// capability interface with no shared base state; quirks live entirely
// inside each implementation, composed from the extract and signal
// packages. None of the scanners is a grammar front end: regions are
// located with markers and regular expressions, and balanced-delimiter
// extraction pulls out the constructs inside them.
package scanner

import (
	"time"

	"github.com/driftwatch/driftwatch/internal/pattern"
	"github.com/driftwatch/driftwatch/internal/signal"
)

// SourceFile is one candidate file handed to a scanner. RelPath is slash
// separated, relative to the project root.
type SourceFile struct {
	RelPath string
	Content string
}

// Prop is one declared component property.
type Prop struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Required bool   `json:"required"`
	Default  string `json:"default,omitempty"`
}

// Component is one discovered UI component.
type Component struct {
	Name            string   `json:"name"`
	Kind            string   `json:"kind,omitempty"` // function, forwardRef, memo, class
	File            string   `json:"file"`
	Line            int      `json:"line"`
	Framework       string   `json:"framework"`
	Props           []Prop   `json:"props,omitempty"`
	Variants        []string `json:"variants,omitempty"`
	Deprecated      bool     `json:"deprecated,omitempty"`
	DeprecationNote string   `json:"deprecationNote,omitempty"`
	Dependencies    []string `json:"dependencies,omitempty"`
}

// Token is one declared design token.
type Token struct {
	Name   string      `json:"name"`
	Value  string      `json:"value"`
	Type   signal.Type `json:"type"`
	File   string      `json:"file"`
	Line   int         `json:"line"`
	Source string      `json:"source"`
}

// ScanError records a per-file parse failure. Scan errors never abort a
// run; they accumulate alongside best-effort results.
type ScanError struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// Stats summarizes one scanner invocation.
type Stats struct {
	FilesScanned    int   `json:"filesScanned"`
	ComponentsFound int   `json:"componentsFound"`
	DurationMS      int64 `json:"durationMs"`
}

// ParseOutput is everything one scanner extracts from one file.
type ParseOutput struct {
	Components  []Component               `json:"components,omitempty"`
	Tokens      []Token                   `json:"tokens,omitempty"`
	Signals     []signal.RawSignal        `json:"signals,omitempty"`
	Occurrences []pattern.ClassOccurrence `json:"occurrences,omitempty"`
}

// ScanResult is the uniform output of a scanner over a batch of files.
type ScanResult struct {
	Items       []Component               `json:"items"`
	Tokens      []Token                   `json:"tokens,omitempty"`
	Signals     []signal.RawSignal        `json:"signals,omitempty"`
	Occurrences []pattern.ClassOccurrence `json:"occurrences,omitempty"`
	Errors      []ScanError               `json:"errors,omitempty"`
	Stats       Stats                     `json:"stats"`
}

// Scanner is the capability set every dialect implements. Scanners never
// mutate shared state; each invocation is a pure function of the files it
// is given.
type Scanner interface {
	// Name identifies the dialect (react, vue, css, ...).
	Name() string
	// Discover filters a candidate path list down to the files this
	// scanner can parse.
	Discover(files []string) []string
	// Parse extracts components, tokens, signals and class occurrences
	// from one file. A returned error covers the whole file and is
	// recorded as a ScanError by the caller.
	Parse(file SourceFile) (*ParseOutput, error)
}

// Run parses a batch of files with one scanner, converting per-file errors
// into ScanErrors and filling stats. The run never aborts on a file.
func Run(s Scanner, files []SourceFile) ScanResult {
	start := time.Now()
	var result ScanResult
	for _, file := range files {
		out, err := s.Parse(file)
		result.Stats.FilesScanned++
		if err != nil {
			result.Errors = append(result.Errors, ScanError{File: file.RelPath, Message: err.Error()})
			continue
		}
		if out == nil {
			continue
		}
		result.Items = append(result.Items, out.Components...)
		result.Tokens = append(result.Tokens, out.Tokens...)
		result.Signals = append(result.Signals, out.Signals...)
		result.Occurrences = append(result.Occurrences, out.Occurrences...)
	}
	result.Stats.ComponentsFound = len(result.Items)
	result.Stats.DurationMS = time.Since(start).Milliseconds()
	return result
}
