// Package pattern groups raw class-attribute occurrences by an
// order-independent normalized form and reports patterns repeated often
// enough to suggest extraction.
package pattern

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/driftwatch/driftwatch/internal/drift"
)

// ClassOccurrence is one raw class attribute observed during a scan.
// Transient: produced per scan, consumed only by this analyzer.
type ClassOccurrence struct {
	Classes string
	File    string
	Line    int
}

// MatchMode selects how occurrences are considered equal. Only loose
// (order-independent exact-token-set) matching is implemented; exact and
// tight are accepted for forward compatibility and currently behave
// identically to loose.
type MatchMode string

const (
	MatchExact MatchMode = "exact"
	MatchTight MatchMode = "tight"
	MatchLoose MatchMode = "loose"
)

// Options configures the analyzer.
type Options struct {
	// MinOccurrences is the repetition threshold at which a pattern is
	// reported. Zero or negative falls back to DefaultMinOccurrences.
	MinOccurrences int
	Mode           MatchMode
}

// DefaultMinOccurrences is the repetition threshold used when none is set.
const DefaultMinOccurrences = 3

// utilityTokenLimit separates utility-like patterns (few tokens) from
// component-like ones.
const utilityTokenLimit = 3

// Normalize trims, splits on whitespace, drops empties, sorts tokens
// lexicographically and rejoins with single spaces. Idempotent, and
// order-independent: two class strings with the same token set normalize
// identically.
func Normalize(classes string) string {
	tokens := strings.Fields(classes)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// Analyze groups occurrences by normalized pattern and emits one
// repeated-pattern drift signal per group that meets the threshold.
// Occurrence order within a group follows input order.
func Analyze(occurrences []ClassOccurrence, opts Options) []drift.Signal {
	minOccurrences := opts.MinOccurrences
	if minOccurrences <= 0 {
		minOccurrences = DefaultMinOccurrences
	}

	type group struct {
		pattern     string
		occurrences []ClassOccurrence
	}
	byPattern := make(map[string]*group)
	order := make([]string, 0)

	for _, occ := range occurrences {
		normalized := Normalize(occ.Classes)
		if normalized == "" {
			continue
		}
		g, ok := byPattern[normalized]
		if !ok {
			g = &group{pattern: normalized}
			byPattern[normalized] = g
			order = append(order, normalized)
		}
		g.occurrences = append(g.occurrences, occ)
	}

	now := time.Now().UTC()
	var signals []drift.Signal
	for _, normalized := range order {
		g := byPattern[normalized]
		if len(g.occurrences) < minOccurrences {
			continue
		}
		signals = append(signals, buildSignal(g.pattern, g.occurrences, now))
	}
	return signals
}

func buildSignal(pattern string, occurrences []ClassOccurrence, now time.Time) drift.Signal {
	files := make(map[string]struct{}, len(occurrences))
	locations := make([]string, 0, len(occurrences))
	for _, occ := range occurrences {
		files[occ.File] = struct{}{}
		locations = append(locations, fmt.Sprintf("%s:%d", occ.File, occ.Line))
	}

	suggestion := "extract into a reusable component"
	if len(strings.Fields(pattern)) <= utilityTokenLimit {
		suggestion = "extract into a utility class"
	}

	entityID := "pattern:" + strings.ReplaceAll(pattern, " ", "-")
	return drift.Signal{
		ID:       drift.NewID(drift.TypeRepeatedPattern, entityID, ""),
		Type:     drift.TypeRepeatedPattern,
		Severity: drift.DefaultSeverity(drift.TypeRepeatedPattern),
		Source: drift.SourceRef{
			EntityType: "pattern",
			EntityID:   entityID,
			EntityName: pattern,
			Location:   locations[0],
		},
		Message: fmt.Sprintf("class pattern %q repeated %d times across %d files",
			pattern, len(occurrences), len(files)),
		Details: map[string]any{
			"pattern":       pattern,
			"occurrences":   len(occurrences),
			"distinctFiles": len(files),
			"suggestions":   []string{suggestion},
			"locations":     locations,
		},
		DetectedAt: now,
	}
}
