package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwatch/driftwatch/internal/drift"
	"github.com/driftwatch/driftwatch/internal/scanner"
	"github.com/driftwatch/driftwatch/internal/signal"
)

func TestDeprecatedUsageDrift(t *testing.T) {
	components := []scanner.Component{
		{
			Name: "OldButton", File: "src/OldButton.tsx", Line: 5,
			Deprecated: true, DeprecationNote: "use Button instead",
		},
		{
			Name: "Toolbar", File: "src/Toolbar.tsx", Line: 3,
			Dependencies: []string{"./OldButton", "./Icon"},
		},
		{
			Name: "Sidebar", File: "src/Sidebar.tsx", Line: 3,
			Dependencies: []string{"./Icon"},
		},
	}

	signals := deprecatedUsageDrift(components)
	require.Len(t, signals, 1)

	sig := signals[0]
	assert.Equal(t, drift.TypeDeprecatedUsage, sig.Type)
	assert.Equal(t, drift.SeverityWarning, sig.Severity)
	assert.Equal(t, "component:src/Toolbar.tsx:Toolbar", sig.Source.EntityID)
	require.NotNil(t, sig.Target)
	assert.Equal(t, "component:src/OldButton.tsx:OldButton", sig.Target.EntityID)
	assert.Contains(t, sig.Message, "use Button instead")
	// Deterministic id from (type, source, target).
	assert.Equal(t,
		"drift:deprecated-usage:component:src/Toolbar.tsx:Toolbar:component:src/OldButton.tsx:OldButton",
		sig.ID)
}

func TestDeprecatedUsageDriftIgnoresSelfImports(t *testing.T) {
	components := []scanner.Component{
		{Name: "Legacy", File: "src/Legacy.tsx", Deprecated: true, Dependencies: []string{"./Legacy"}},
	}
	assert.Empty(t, deprecatedUsageDrift(components))
}

func TestDeprecatedUsageDriftResolvesImportsPerDirectory(t *testing.T) {
	components := []scanner.Component{
		{Name: "Button", File: "legacy/Button.tsx", Deprecated: true},
		{Name: "Button", File: "src/Button.tsx"},
		// Same specifier, different directories: only the legacy one
		// points at the deprecated component.
		{Name: "Toolbar", File: "src/Toolbar.tsx", Dependencies: []string{"./Button"}},
		{Name: "Panel", File: "legacy/Panel.tsx", Dependencies: []string{"./Button"}},
		{Name: "Banner", File: "src/Banner.tsx", Dependencies: []string{"../legacy/Button"}},
	}

	signals := deprecatedUsageDrift(components)
	require.Len(t, signals, 2)

	sources := []string{signals[0].Source.EntityName, signals[1].Source.EntityName}
	assert.ElementsMatch(t, []string{"Panel", "Banner"}, sources)
	for _, sig := range signals {
		assert.Equal(t, "component:legacy/Button.tsx:Button", sig.Target.EntityID)
	}
}

func TestHardcodedValueDrift(t *testing.T) {
	agg := signal.Aggregated([]signal.RawSignal{
		sig(signal.TypeColor, "#ff0000", "a.css", 1),
		sig(signal.TypeColor, "#ff0000", "b.css", 2),
		sig(signal.TypeColor, "#ff0000", "c.tsx", 3),
		sig(signal.TypeColor, "#3366ff", "a.css", 9),
		sig(signal.TypeSpacing, "13px", "a.css", 4),
		sig(signal.TypeSpacing, "13px", "b.css", 5),
		sig(signal.TypeSpacing, "13px", "c.tsx", 6),
	})
	tokens := []scanner.Token{
		{Name: "--color-primary", Value: "#3366FF", Type: signal.TypeColor},
	}

	signals := hardcodedValueDrift(agg, tokens, 3)
	require.Len(t, signals, 1, "spacing has no declared tokens and %q is declared", "#3366ff")

	got := signals[0]
	assert.Equal(t, drift.TypeHardcodedValue, got.Type)
	assert.Equal(t, "#ff0000", got.Source.EntityName)
	assert.Equal(t, 3, got.Details["distinctFiles"])
}

func TestHardcodedValueDriftWithoutTokens(t *testing.T) {
	agg := signal.Aggregated([]signal.RawSignal{
		sig(signal.TypeColor, "#ff0000", "a.css", 1),
		sig(signal.TypeColor, "#ff0000", "b.css", 2),
		sig(signal.TypeColor, "#ff0000", "c.css", 3),
	})
	assert.Empty(t, hardcodedValueDrift(agg, nil, 3))
}

func sig(signalType signal.Type, value, file string, line int) signal.RawSignal {
	return signal.RawSignal{
		ID:      signal.NewID(signalType, value, file, line),
		Type:    signalType,
		Value:   value,
		Context: signal.Context{File: file, Line: line},
	}
}
