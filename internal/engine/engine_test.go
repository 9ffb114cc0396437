package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwatch/driftwatch/internal/config"
	"github.com/driftwatch/driftwatch/internal/drift"
	"github.com/driftwatch/driftwatch/internal/gitstate"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for relPath, content := range files {
		full := filepath.Join(root, filepath.FromSlash(relPath))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func projectFiles() map[string]string {
	return map[string]string{
		"src/Button.tsx": `export function Button() {
  return (
    <div className="flex gap-2 items-center">
      <span className="flex items-center gap-2">ok</span>
    </div>
  );
}
`,
		"src/Card.tsx": `import { Button } from './Button';

export function Card() {
  return <div className="items-center flex gap-2" style={{ color: '#ff0000' }} />;
}
`,
		"styles/tokens.css": `:root {
  --color-primary: #3366ff;
}
`,
	}
}

func testOptions(root string, git gitstate.Provider) Options {
	cfg := config.Default()
	cfg.Scanners = []string{"react", "css"}
	return Options{Root: root, Config: cfg, Git: git}
}

func TestEngineRun(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, projectFiles())
	git := &gitstate.Fake{
		Commits: map[string]string{
			"src/Button.tsx":    "c1",
			"src/Card.tsx":      "c1",
			"styles/tokens.css": "c1",
		},
		HeadHash: "c1",
	}

	eng, err := New(context.Background(), testOptions(root, git))
	require.NoError(t, err)

	report, err := eng.Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.Stats.FilesScanned)
	assert.Zero(t, report.Stats.FilesFromCache)
	assert.Empty(t, report.Errors)

	names := make([]string, 0, len(report.Components))
	for _, comp := range report.Components {
		names = append(names, comp.Name)
	}
	assert.ElementsMatch(t, []string{"Button", "Card"}, names)

	require.Len(t, report.Tokens, 1)
	assert.Equal(t, "--color-primary", report.Tokens[0].Name)

	var repeated *drift.Signal
	for i := range report.Drift {
		if report.Drift[i].Type == drift.TypeRepeatedPattern {
			repeated = &report.Drift[i]
		}
	}
	require.NotNil(t, repeated, "expected a repeated-pattern drift signal")
	assert.Equal(t, 3, repeated.Details["occurrences"])
	assert.Equal(t, 2, repeated.Details["distinctFiles"])

	_, err = os.Stat(filepath.Join(root, ".driftwatch", "cache.json"))
	assert.NoError(t, err, "expected the cache file to be persisted")
}

func TestEngineRunIncremental(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, projectFiles())
	commits := map[string]string{
		"src/Button.tsx":    "c1",
		"src/Card.tsx":      "c1",
		"styles/tokens.css": "c1",
	}
	git := &gitstate.Fake{Commits: commits, HeadHash: "c1"}

	eng, err := New(context.Background(), testOptions(root, git))
	require.NoError(t, err)
	first, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, first.Stats.FilesScanned)

	// A fresh engine reloads the persisted cache; nothing changed, so
	// everything is serviceable without parsing.
	eng, err = New(context.Background(), testOptions(root, git))
	require.NoError(t, err)
	second, err := eng.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Stats.FilesScanned)
	assert.Equal(t, 3, second.Stats.FilesFromCache)
	assert.Len(t, second.Components, len(first.Components))
	assert.Len(t, second.Tokens, len(first.Tokens))

	// Same drift conclusions from cached results.
	assert.Equal(t, driftIDs(first.Drift), driftIDs(second.Drift))

	// One file advanced a commit: only that file is rescanned.
	commits["src/Button.tsx"] = "c2"
	git.HeadHash = "c2"
	eng, err = New(context.Background(), testOptions(root, git))
	require.NoError(t, err)
	third, err := eng.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, third.Stats.FilesScanned)
	assert.Equal(t, 2, third.Stats.FilesFromCache)
}

func TestEngineRunOrderingIsReproducible(t *testing.T) {
	root := t.TempDir()
	files := make(map[string]string)
	wantNames := make([]string, 0, 16)
	wantLocations := make([]string, 0, 16)
	for i := 0; i < 16; i++ {
		name := fmt.Sprintf("C%02d", i)
		relPath := "src/" + name + ".tsx"
		files[relPath] = fmt.Sprintf(`export function %s() {
  return <div className="flex gap-2 items-center" />;
}
`, name)
		wantNames = append(wantNames, name)
		wantLocations = append(wantLocations, relPath+":2")
	}
	writeTree(t, root, files)

	run := func() *Report {
		cfg := config.Default()
		cfg.Scanners = []string{"react"}
		cfg.Concurrency = 8
		eng, err := New(context.Background(), Options{
			Root: root, Config: cfg, Git: gitstate.None{}, Force: true,
		})
		require.NoError(t, err)
		report, err := eng.Run(context.Background())
		require.NoError(t, err)
		return report
	}

	first := run()
	second := run()

	// Worker completion order must not leak into the report: components
	// and pattern locations follow file order on every run.
	assert.Equal(t, wantNames, componentNames(first))
	assert.Equal(t, componentNames(first), componentNames(second))

	require.Len(t, first.Drift, 1)
	require.Len(t, second.Drift, 1)
	assert.Equal(t, wantLocations, first.Drift[0].Details["locations"])
	assert.Equal(t, first.Drift[0].Details["locations"], second.Drift[0].Details["locations"])
}

func componentNames(report *Report) []string {
	names := make([]string, 0, len(report.Components))
	for _, comp := range report.Components {
		names = append(names, comp.Name)
	}
	return names
}

func TestEngineRunForce(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, projectFiles())
	git := &gitstate.Fake{
		Commits: map[string]string{
			"src/Button.tsx":    "c1",
			"src/Card.tsx":      "c1",
			"styles/tokens.css": "c1",
		},
		HeadHash: "c1",
	}

	eng, err := New(context.Background(), testOptions(root, git))
	require.NoError(t, err)
	_, err = eng.Run(context.Background())
	require.NoError(t, err)

	opts := testOptions(root, git)
	opts.Force = true
	eng, err = New(context.Background(), opts)
	require.NoError(t, err)
	report, err := eng.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Stats.FilesScanned)
	assert.Zero(t, report.Stats.FilesFromCache)
}

func driftIDs(signals []drift.Signal) []string {
	ids := make([]string, 0, len(signals))
	for _, sig := range signals {
		ids = append(ids, sig.ID)
	}
	return ids
}

func TestEngineRunAccumulatesScanErrors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"design/broken.figma.json": "{oops",
		"design/figma.tokens.json": `{"color":{"primary":{"value":"#123456"}}}`,
	})
	cfg := config.Default()
	cfg.Scanners = []string{"figma"}

	eng, err := New(context.Background(), Options{Root: root, Config: cfg, Git: gitstate.None{}})
	require.NoError(t, err)

	report, err := eng.Run(context.Background())
	require.NoError(t, err, "per-file failures must not abort the run")
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "design/broken.figma.json", report.Errors[0].File)
	require.Len(t, report.Tokens, 1)
	assert.Equal(t, "color.primary", report.Tokens[0].Name)
}

func TestEngineCheck(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, projectFiles())
	commits := map[string]string{
		"src/Button.tsx":    "c1",
		"src/Card.tsx":      "c1",
		"styles/tokens.css": "c1",
	}
	git := &gitstate.Fake{Commits: commits, HeadHash: "c1"}

	eng, err := New(context.Background(), testOptions(root, git))
	require.NoError(t, err)
	_, err = eng.Run(context.Background())
	require.NoError(t, err)

	eng, err = New(context.Background(), testOptions(root, git))
	require.NoError(t, err)
	report, err := eng.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Fresh())
	assert.Equal(t, 3, report.TotalCandidates)
	assert.Equal(t, "c1", report.LastFullScanHash)

	commits["src/Card.tsx"] = "c2"
	eng, err = New(context.Background(), testOptions(root, git))
	require.NoError(t, err)
	report, err = eng.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Fresh())
	assert.Equal(t, 1, report.TotalStale)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Scanners = []string{"angular"}
	_, err := New(context.Background(), Options{Root: t.TempDir(), Config: cfg, Git: gitstate.None{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scanner")
}
