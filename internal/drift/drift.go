// Package drift defines the canonical drift-signal model shared by every
// analyzer that reports design-system deviations: deterministic identities,
// severity levels, and the default severity per drift type.
package drift

import (
	"sort"
	"time"
)

// Severity ranks how urgent a drift signal is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Type identifies the kind of deviation an analyzer detected.
type Type string

const (
	TypeRepeatedPattern       Type = "repeated-pattern"
	TypeHardcodedValue        Type = "hardcoded-value"
	TypeDeprecatedUsage       Type = "deprecated-usage"
	TypeNamingInconsistency   Type = "naming-inconsistency"
	TypeAccessibilityConflict Type = "accessibility-conflict"
	TypeUndefinedToken        Type = "undefined-token"
)

// SourceRef locates the entity a signal is about.
type SourceRef struct {
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	EntityName string `json:"entityName,omitempty"`
	Location   string `json:"location,omitempty"`
}

// Signal is one detected deviation. Ids are pure functions of the inputs so
// re-detection across runs is idempotent.
type Signal struct {
	ID         string         `json:"id"`
	Type       Type           `json:"type"`
	Severity   Severity       `json:"severity"`
	Source     SourceRef      `json:"source"`
	Target     *SourceRef     `json:"target,omitempty"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	DetectedAt time.Time      `json:"detectedAt"`
}

// NewID builds the deterministic drift id. targetID may be empty.
func NewID(driftType Type, sourceID, targetID string) string {
	id := "drift:" + string(driftType) + ":" + sourceID
	if targetID != "" {
		id += ":" + targetID
	}
	return id
}

// severityWeights orders severities for sorting; loaded once, never mutated.
var severityWeights = map[Severity]int{
	SeverityCritical: 3,
	SeverityWarning:  2,
	SeverityInfo:     1,
}

// SeverityWeight returns the sort weight for a severity. Unknown severities
// weigh zero so they sort after every known level.
func SeverityWeight(s Severity) int {
	return severityWeights[s]
}

var defaultSeverities = map[Type]Severity{
	TypeRepeatedPattern:       SeverityInfo,
	TypeHardcodedValue:        SeverityWarning,
	TypeDeprecatedUsage:       SeverityWarning,
	TypeNamingInconsistency:   SeverityInfo,
	TypeAccessibilityConflict: SeverityCritical,
	TypeUndefinedToken:        SeverityWarning,
}

// DefaultSeverity returns the severity analyzers fall back to when none is
// set per instance.
func DefaultSeverity(t Type) Severity {
	if s, ok := defaultSeverities[t]; ok {
		return s
	}
	return SeverityInfo
}

// SortByImportance orders signals by descending severity weight, ties broken
// by ascending id so output is reproducible.
func SortByImportance(signals []Signal) {
	sort.SliceStable(signals, func(i, j int) bool {
		wi, wj := SeverityWeight(signals[i].Severity), SeverityWeight(signals[j].Severity)
		if wi != wj {
			return wi > wj
		}
		return signals[i].ID < signals[j].ID
	})
}
