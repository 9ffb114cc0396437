package engine

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/driftwatch/driftwatch/internal/drift"
	"github.com/driftwatch/driftwatch/internal/scanner"
	"github.com/driftwatch/driftwatch/internal/signal"
)

// deprecatedUsageDrift reports components that import a component marked
// deprecated. Scanners record local dependencies as relative import
// specifiers; each is resolved against the importing file's directory so
// same-named components in different directories never cross-match.
func deprecatedUsageDrift(components []scanner.Component) []drift.Signal {
	deprecated := make(map[string]scanner.Component)
	for _, comp := range components {
		if comp.Deprecated {
			deprecated[stripExt(comp.File)] = comp
		}
	}
	if len(deprecated) == 0 {
		return nil
	}

	now := time.Now().UTC()
	var signals []drift.Signal
	for _, comp := range components {
		for _, dep := range comp.Dependencies {
			target, ok := deprecated[resolveImport(comp.File, dep)]
			if !ok || target.File == comp.File {
				continue
			}
			sourceID := componentID(comp)
			targetID := componentID(target)
			message := fmt.Sprintf("%s imports deprecated component %s", comp.Name, target.Name)
			if target.DeprecationNote != "" {
				message += ": " + target.DeprecationNote
			}
			signals = append(signals, drift.Signal{
				ID:       drift.NewID(drift.TypeDeprecatedUsage, sourceID, targetID),
				Type:     drift.TypeDeprecatedUsage,
				Severity: drift.DefaultSeverity(drift.TypeDeprecatedUsage),
				Source: drift.SourceRef{
					EntityType: "component",
					EntityID:   sourceID,
					EntityName: comp.Name,
					Location:   fmt.Sprintf("%s:%d", comp.File, comp.Line),
				},
				Target: &drift.SourceRef{
					EntityType: "component",
					EntityID:   targetID,
					EntityName: target.Name,
					Location:   fmt.Sprintf("%s:%d", target.File, target.Line),
				},
				Message:    message,
				DetectedAt: now,
			})
		}
	}
	return signals
}

// componentID is the deterministic entity id for a component.
func componentID(comp scanner.Component) string {
	return "component:" + comp.File + ":" + comp.Name
}

// resolveImport turns a relative import specifier into the extensionless
// root-relative path it refers to, so './Button' inside src/Toolbar.tsx
// resolves to 'src/Button'.
func resolveImport(fromFile, specifier string) string {
	return stripExt(path.Join(path.Dir(fromFile), specifier))
}

// stripExt drops the extension from a path's base name so 'src/Button.tsx'
// and 'src/Button' compare equal.
func stripExt(p string) string {
	base := path.Base(p)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return path.Join(path.Dir(p), base)
}

// hardcodedValueDrift reports style values that recur across enough
// distinct files without a declared design token for them. With no tokens
// of a given type declared at all there is nothing to drift from, so that
// type is skipped.
func hardcodedValueDrift(agg *signal.Aggregate, tokens []scanner.Token, minFiles int) []drift.Signal {
	if agg == nil || len(tokens) == 0 {
		return nil
	}
	declared := make(map[signal.Type]map[string]struct{})
	for _, tok := range tokens {
		values, ok := declared[tok.Type]
		if !ok {
			values = make(map[string]struct{})
			declared[tok.Type] = values
		}
		values[signal.NormalizeValue(tok.Value)] = struct{}{}
	}

	now := time.Now().UTC()
	var signals []drift.Signal
	for _, signalType := range []signal.Type{
		signal.TypeColor, signal.TypeSpacing, signal.TypeFontSize,
		signal.TypeFontFamily, signal.TypeFontWeight,
	} {
		values, ok := declared[signalType]
		if !ok {
			continue
		}
		for _, group := range agg.ByType[signalType] {
			if group.DistinctFiles < minFiles {
				continue
			}
			if _, defined := values[group.Value]; defined {
				continue
			}
			entityID := "value:" + string(signalType) + ":" + strings.ReplaceAll(group.Value, " ", "-")
			location := ""
			if len(group.Locations) > 0 {
				location = group.Locations[0]
			}
			signals = append(signals, drift.Signal{
				ID:       drift.NewID(drift.TypeHardcodedValue, entityID, ""),
				Type:     drift.TypeHardcodedValue,
				Severity: drift.DefaultSeverity(drift.TypeHardcodedValue),
				Source: drift.SourceRef{
					EntityType: "value",
					EntityID:   entityID,
					EntityName: group.Value,
					Location:   location,
				},
				Message: fmt.Sprintf("%s value %q used in %d files without a design token",
					signalType, group.Value, group.DistinctFiles),
				Details: map[string]any{
					"value":         group.Value,
					"signalType":    string(signalType),
					"occurrences":   group.Count,
					"distinctFiles": group.DistinctFiles,
					"locations":     group.Locations,
				},
				DetectedAt: now,
			})
		}
	}
	return signals
}
