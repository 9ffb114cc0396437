// Package cache persists per-file, per-scanner results between runs and
// classifies files as reusable or needing a rescan. Tracked files are
// identified by the commit that last touched them, untracked files by exact
// mtime. Correctness never depends on the cache being present; only
// performance does.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Version gates the on-disk schema. A bump invalidates every prior cache
// file wholesale; there is no partial migration.
const Version = 1

// FileCacheEntry stores one scanner's serialized result for one file.
type FileCacheEntry struct {
	Path          string          `json:"path"`
	Scanner       string          `json:"scanner"`
	MtimeUnixNano int64           `json:"mtime"`
	CommitHash    string          `json:"commitHash,omitempty"`
	Result        json.RawMessage `json:"result"`
	CachedAt      time.Time       `json:"cachedAt"`
}

// Data is the on-disk cache schema.
type Data struct {
	Version            int                       `json:"version"`
	ProjectRoot        string                    `json:"projectRoot"`
	LastFullScanCommit string                    `json:"lastFullScanCommit,omitempty"`
	LastFullScanTime   time.Time                 `json:"lastFullScanTime,omitempty"`
	Entries            map[string]FileCacheEntry `json:"entries"`
}

// FileState is the current identity of a candidate file: its last tracked
// commit (empty for untracked files) and its mtime.
type FileState struct {
	RelPath       string
	CommitHash    string
	MtimeUnixNano int64
}

// CheckResult partitions a candidate file set for one scanner.
type CheckResult struct {
	FilesToScan   []string
	CachedFiles   []string
	CachedEntries map[string]FileCacheEntry
}

// Cache owns the in-memory entry map for the process lifetime. Concurrent
// Record calls from parallel scan workers are serialized on the mutex; the
// map is not internally synchronized.
type Cache struct {
	mu   sync.Mutex
	path string
	data Data
}

// Load reads the cache file at path, or returns an empty cache when the
// file is missing, unreadable, corrupt, or carries a different schema
// version. Load never fails; a cold start only costs a full rescan.
func Load(projectRoot, path string) *Cache {
	c := &Cache{
		path: path,
		data: Data{
			Version:     Version,
			ProjectRoot: projectRoot,
			Entries:     make(map[string]FileCacheEntry),
		},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return c
	}
	if data.Version != Version {
		return c
	}
	if data.Entries == nil {
		data.Entries = make(map[string]FileCacheEntry)
	}
	data.ProjectRoot = projectRoot
	c.data = data
	return c
}

// Key builds the entry key for a (scanner, relative path) pair.
func Key(scanner, relPath string) string {
	return scanner + ":" + relPath
}

// Check classifies each candidate against the stored entry for
// (scanner, path): reusable only on an exact commit-hash match for tracked
// files or an exact mtime match for untracked ones. A mismatch invalidates
// that single entry, never the whole cache, and never consults the
// full-scan markers.
func (c *Cache) Check(files []FileState, scanner string) CheckResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := CheckResult{
		CachedEntries: make(map[string]FileCacheEntry),
	}
	for _, file := range files {
		entry, ok := c.data.Entries[Key(scanner, file.RelPath)]
		if ok && entryValid(entry, file) {
			result.CachedFiles = append(result.CachedFiles, file.RelPath)
			result.CachedEntries[file.RelPath] = entry
			continue
		}
		result.FilesToScan = append(result.FilesToScan, file.RelPath)
	}
	return result
}

func entryValid(entry FileCacheEntry, file FileState) bool {
	if file.CommitHash != "" {
		return entry.CommitHash == file.CommitHash
	}
	return entry.CommitHash == "" && entry.MtimeUnixNano == file.MtimeUnixNano
}

// Record inserts or overwrites the entry for (scanner, path). It does not
// touch the disk; Persist flushes all recorded entries in one write.
func (c *Cache) Record(scanner string, state FileState, result json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data.Entries[Key(scanner, state.RelPath)] = FileCacheEntry{
		Path:          state.RelPath,
		Scanner:       scanner,
		MtimeUnixNano: state.MtimeUnixNano,
		CommitHash:    state.CommitHash,
		Result:        result,
		CachedAt:      time.Now().UTC(),
	}
}

// Entry returns the stored entry for (scanner, path), if any.
func (c *Cache) Entry(scanner, relPath string) (FileCacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.data.Entries[Key(scanner, relPath)]
	return entry, ok
}

// Len reports how many entries the cache holds.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data.Entries)
}

// MarkFullScan records that a clean full baseline exists at commitHash.
func (c *Cache) MarkFullScan(commitHash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.LastFullScanCommit = commitHash
	c.data.LastFullScanTime = time.Now().UTC()
}

// LastFullScan reports the most recent full-scan baseline.
func (c *Cache) LastFullScan() (string, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.LastFullScanCommit, c.data.LastFullScanTime
}

// Persist writes the cache atomically (temp file, then rename) so the old
// file stays valid if the write fails. Called once per run, after all
// workers complete.
func (c *Cache) Persist() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
