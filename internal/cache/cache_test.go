package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestRoundTripAndSingleEntryInvalidation(t *testing.T) {
	tmpDir := t.TempDir()
	cachePath := filepath.Join(tmpDir, "scan-cache.json")

	c := Load(tmpDir, cachePath)
	c.Record("react", FileState{RelPath: "Button.tsx", CommitHash: "H1"}, json.RawMessage(`{"components":1}`))
	c.Record("react", FileState{RelPath: "Card.tsx", CommitHash: "H1"}, json.RawMessage(`{"components":2}`))
	if err := c.Persist(); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	reloaded := Load(tmpDir, cachePath)
	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 entries after reload, got %d", reloaded.Len())
	}

	// Same commit: both cached.
	sameState := []FileState{
		{RelPath: "Button.tsx", CommitHash: "H1"},
		{RelPath: "Card.tsx", CommitHash: "H1"},
	}
	result := reloaded.Check(sameState, "react")
	if len(result.FilesToScan) != 0 || len(result.CachedFiles) != 2 {
		t.Fatalf("expected full cache hit, got %+v", result)
	}
	if string(result.CachedEntries["Button.tsx"].Result) != `{"components":1}` {
		t.Fatalf("unexpected cached result: %s", result.CachedEntries["Button.tsx"].Result)
	}

	// Button.tsx moves to H2: only that entry is invalidated.
	movedState := []FileState{
		{RelPath: "Button.tsx", CommitHash: "H2"},
		{RelPath: "Card.tsx", CommitHash: "H1"},
	}
	result = reloaded.Check(movedState, "react")
	if len(result.FilesToScan) != 1 || result.FilesToScan[0] != "Button.tsx" {
		t.Fatalf("expected only Button.tsx to need scanning, got %+v", result.FilesToScan)
	}
	if len(result.CachedFiles) != 1 || result.CachedFiles[0] != "Card.tsx" {
		t.Fatalf("expected Card.tsx to stay cached, got %+v", result.CachedFiles)
	}
}

func TestCheckUsesMtimeForUntrackedFiles(t *testing.T) {
	c := Load("/project", filepath.Join(t.TempDir(), "cache.json"))
	c.Record("css", FileState{RelPath: "new.css", MtimeUnixNano: 1000}, json.RawMessage(`{}`))

	hit := c.Check([]FileState{{RelPath: "new.css", MtimeUnixNano: 1000}}, "css")
	if len(hit.CachedFiles) != 1 {
		t.Fatalf("expected exact mtime match to be cached, got %+v", hit)
	}

	miss := c.Check([]FileState{{RelPath: "new.css", MtimeUnixNano: 1001}}, "css")
	if len(miss.FilesToScan) != 1 {
		t.Fatalf("expected mtime mismatch to need scanning, got %+v", miss)
	}

	// A file that became tracked no longer matches its untracked entry.
	tracked := c.Check([]FileState{{RelPath: "new.css", CommitHash: "H1", MtimeUnixNano: 1000}}, "css")
	if len(tracked.FilesToScan) != 1 {
		t.Fatalf("expected newly tracked file to need scanning, got %+v", tracked)
	}
}

func TestEntriesAreIndependentPerScanner(t *testing.T) {
	c := Load("/project", filepath.Join(t.TempDir(), "cache.json"))
	c.Record("react", FileState{RelPath: "Button.tsx", CommitHash: "H1"}, json.RawMessage(`{"scanner":"react"}`))
	c.Record("storybook", FileState{RelPath: "Button.tsx", CommitHash: "H1"}, json.RawMessage(`{"scanner":"storybook"}`))

	if c.Len() != 2 {
		t.Fatalf("expected independent entries per scanner, got %d", c.Len())
	}
	entry, ok := c.Entry("storybook", "Button.tsx")
	if !ok || string(entry.Result) != `{"scanner":"storybook"}` {
		t.Fatalf("unexpected storybook entry: %+v ok=%v", entry, ok)
	}
}

func TestVersionMismatchYieldsEmptyCache(t *testing.T) {
	tmpDir := t.TempDir()
	cachePath := filepath.Join(tmpDir, "cache.json")

	stale := Data{
		Version:     Version - 1,
		ProjectRoot: tmpDir,
		Entries: map[string]FileCacheEntry{
			"react:Button.tsx": {Path: "Button.tsx", Scanner: "react", CommitHash: "H1"},
		},
	}
	raw, err := json.Marshal(stale)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cachePath, raw, 0644); err != nil {
		t.Fatal(err)
	}

	c := Load(tmpDir, cachePath)
	if c.Len() != 0 {
		t.Fatalf("expected version bump to discard the cache, got %d entries", c.Len())
	}
}

func TestCorruptCacheFileYieldsEmptyCache(t *testing.T) {
	tmpDir := t.TempDir()
	cachePath := filepath.Join(tmpDir, "cache.json")
	if err := os.WriteFile(cachePath, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	c := Load(tmpDir, cachePath)
	if c.Len() != 0 {
		t.Fatalf("expected corrupt cache to degrade to empty, got %d entries", c.Len())
	}
}

func TestMarkFullScanRoundTrips(t *testing.T) {
	tmpDir := t.TempDir()
	cachePath := filepath.Join(tmpDir, "cache.json")

	c := Load(tmpDir, cachePath)
	c.MarkFullScan("H9")
	if err := c.Persist(); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	reloaded := Load(tmpDir, cachePath)
	commit, at := reloaded.LastFullScan()
	if commit != "H9" || at.IsZero() {
		t.Fatalf("unexpected full-scan marker: %q %v", commit, at)
	}
}
