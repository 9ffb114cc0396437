// Package signal extracts typed style-usage signals (colors, spacing,
// typography) from already-located source regions and aggregates them into
// frequency statistics for drift analysis.
package signal

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Type classifies what kind of style value a signal records.
type Type string

const (
	TypeColor      Type = "color"
	TypeSpacing    Type = "spacing"
	TypeFontSize   Type = "fontSize"
	TypeFontFamily Type = "fontFamily"
	TypeFontWeight Type = "fontWeight"
	TypeOther      Type = "other"
)

// Context records where a signal was observed.
type Context struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Framework string `json:"framework"`
	Scope     string `json:"scope,omitempty"`
}

// RawSignal is a single observed use of a style value. Immutable once
// created; the id is a pure function of (type, normalized value, file,
// line) so re-scanning an unchanged region reproduces identical signals.
type RawSignal struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Value     string    `json:"value"`
	Context   Context   `json:"context"`
	ScannedAt time.Time `json:"scannedAt"`
}

// NewID derives the deterministic signal id.
func NewID(signalType Type, normalizedValue, file string, line int) string {
	h := sha256.New()
	sep := []byte{0}
	h.Write([]byte(signalType))
	h.Write(sep)
	h.Write([]byte(normalizedValue))
	h.Write(sep)
	h.Write([]byte(file))
	h.Write(sep)
	h.Write([]byte{byte(line >> 24), byte(line >> 16), byte(line >> 8), byte(line)})
	return "sig:" + hex.EncodeToString(h.Sum(nil))[:16]
}

// NormalizeValue canonicalizes a value for grouping and identity: lowercase
// with internal whitespace collapsed to single spaces.
func NormalizeValue(value string) string {
	fields := strings.Fields(strings.ToLower(value))
	return strings.Join(fields, " ")
}

func newSignal(signalType Type, value string, ctx Context, now time.Time) RawSignal {
	normalized := NormalizeValue(value)
	return RawSignal{
		ID:        NewID(signalType, normalized, ctx.File, ctx.Line),
		Type:      signalType,
		Value:     normalized,
		Context:   ctx,
		ScannedAt: now,
	}
}
