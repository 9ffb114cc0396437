// Package engine orchestrates a drift scan: file discovery, cache
// classification, parallel scanning, signal aggregation and drift
// analysis, then cache persistence.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/driftwatch/driftwatch/internal/cache"
	"github.com/driftwatch/driftwatch/internal/config"
	"github.com/driftwatch/driftwatch/internal/drift"
	"github.com/driftwatch/driftwatch/internal/gitstate"
	"github.com/driftwatch/driftwatch/internal/index"
	"github.com/driftwatch/driftwatch/internal/pattern"
	"github.com/driftwatch/driftwatch/internal/scanner"
	"github.com/driftwatch/driftwatch/internal/signal"
)

// Logger is the minimal logging surface the engine needs. A nil Logger is
// valid and silences the engine; the CLI installs a color-aware one.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Options configures an Engine.
type Options struct {
	// Root is the project root to scan.
	Root string
	// Config is the resolved project configuration.
	Config *config.Config
	// Registry supplies the dialect scanners. Nil uses the default set.
	Registry *scanner.Registry
	// Git supplies version-control state. Nil auto-detects: the git CLI
	// when available, otherwise every file is treated as untracked.
	Git gitstate.Provider
	// Logger receives progress and warnings. Nil is silent.
	Logger Logger
	// Force ignores cached entries and rescans every candidate file.
	// Fresh entries are still recorded.
	Force bool
}

// Engine runs scans over one project root.
type Engine struct {
	root     string
	cfg      *config.Config
	registry *scanner.Registry
	git      gitstate.Provider
	log      Logger
	cache    *cache.Cache
	force    bool
}

// New validates the configuration and loads the scan cache. A cache that
// is missing, corrupt, or written by a different schema version degrades
// to a cold start.
func New(ctx context.Context, opts Options) (*Engine, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("engine: project root is required")
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("engine: resolve root: %w", err)
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	registry := opts.Registry
	if registry == nil {
		registry = scanner.DefaultRegistry()
	}
	if err := cfg.Validate(registry.Names()); err != nil {
		return nil, err
	}

	git := opts.Git
	if git == nil {
		g, err := gitstate.NewGit(ctx)
		if err != nil {
			git = gitstate.None{}
		} else {
			git = g
		}
	}

	cachePath := cfg.CachePath
	if !filepath.IsAbs(cachePath) {
		cachePath = filepath.Join(root, cachePath)
	}

	return &Engine{
		root:     root,
		cfg:      cfg,
		registry: registry,
		git:      git,
		log:      opts.Logger,
		cache:    cache.Load(root, cachePath),
		force:    opts.Force,
	}, nil
}

// Report is the outcome of one scan run.
type Report struct {
	RunID      string              `json:"runId"`
	Root       string              `json:"root"`
	Components []scanner.Component `json:"components,omitempty"`
	Tokens     []scanner.Token     `json:"tokens,omitempty"`
	Drift      []drift.Signal      `json:"drift,omitempty"`
	Aggregate  *signal.Aggregate   `json:"aggregate,omitempty"`
	Errors     []scanner.ScanError `json:"errors,omitempty"`
	Stats      RunStats            `json:"stats"`
}

// RunStats summarizes one run.
type RunStats struct {
	FilesIndexed   int   `json:"filesIndexed"`
	FilesScanned   int   `json:"filesScanned"`
	FilesFromCache int   `json:"filesFromCache"`
	DurationMS     int64 `json:"durationMs"`
}

// Run executes one full scan: indexing, per-scanner cache classification,
// parallel parsing of stale files, cached-result reuse, aggregation and
// drift analysis, then cache persistence. Per-file failures accumulate as
// scan errors; only indexing failures abort the run.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID: uuid.NewString(),
		Root:  e.root,
	}

	idx, err := index.Build(ctx, e.root, index.Options{
		Include: e.cfg.IncludePaths,
		Exclude: e.cfg.ExcludePaths,
	})
	if err != nil {
		return nil, fmt.Errorf("index project: %w", err)
	}
	report.Stats.FilesIndexed = len(idx.Files)

	states := e.fileStates(ctx, idx)

	var (
		allSignals     []signal.RawSignal
		allOccurrences []pattern.ClassOccurrence
	)
	for _, name := range e.cfg.Scanners {
		s, ok := e.registry.Lookup(name)
		if !ok {
			// Validate catches this before Run; a registry swap could not.
			e.warnf("scanner %q not registered, skipping", name)
			continue
		}

		candidates := s.Discover(idx.RelPaths())
		if len(candidates) == 0 {
			continue
		}
		candidateStates := make([]cache.FileState, 0, len(candidates))
		for _, relPath := range candidates {
			candidateStates = append(candidateStates, states[relPath])
		}

		var chk cache.CheckResult
		if e.force {
			chk.FilesToScan = candidates
		} else {
			chk = e.cache.Check(candidateStates, name)
		}
		e.infof("%s: %d files, %d cached, %d to scan",
			name, len(candidates), len(chk.CachedFiles), len(chk.FilesToScan))

		toScan := chk.FilesToScan
		for _, relPath := range chk.CachedFiles {
			var out scanner.ParseOutput
			if err := json.Unmarshal(chk.CachedEntries[relPath].Result, &out); err != nil {
				// Undecodable entry: treat the file as stale.
				e.warnf("%s: discarding cached result for %s: %v", name, relPath, err)
				toScan = append(toScan, relPath)
				continue
			}
			report.Stats.FilesFromCache++
			report.Components = append(report.Components, out.Components...)
			report.Tokens = append(report.Tokens, out.Tokens...)
			allSignals = append(allSignals, out.Signals...)
			allOccurrences = append(allOccurrences, out.Occurrences...)
		}

		outputs, errs := e.parseFiles(ctx, s, idx, states, toScan)
		report.Stats.FilesScanned += len(toScan)
		report.Errors = append(report.Errors, errs...)
		for _, out := range outputs {
			report.Components = append(report.Components, out.Components...)
			report.Tokens = append(report.Tokens, out.Tokens...)
			allSignals = append(allSignals, out.Signals...)
			allOccurrences = append(allOccurrences, out.Occurrences...)
		}
	}

	report.Aggregate = signal.Aggregated(allSignals)
	report.Drift = pattern.Analyze(allOccurrences, pattern.Options{
		MinOccurrences: e.cfg.MinOccurrences,
	})
	report.Drift = append(report.Drift, deprecatedUsageDrift(report.Components)...)
	report.Drift = append(report.Drift, hardcodedValueDrift(report.Aggregate, report.Tokens, e.cfg.MinOccurrences)...)
	drift.SortByImportance(report.Drift)

	head, err := e.git.Head(ctx, e.root)
	if err != nil {
		e.warnf("resolve HEAD: %v", err)
		head = ""
	}
	e.cache.MarkFullScan(head)
	if err := e.cache.Persist(); err != nil {
		// The in-memory results are complete; a failed flush only costs
		// the next run a rescan.
		e.warnf("persist cache: %v", err)
	}

	report.Stats.DurationMS = time.Since(start).Milliseconds()
	e.infof("scan complete: %d components, %d tokens, %d drift signals, %d errors in %dms",
		len(report.Components), len(report.Tokens), len(report.Drift),
		len(report.Errors), report.Stats.DurationMS)
	return report, nil
}

// parseFiles parses stale files in parallel and records fresh cache
// entries. Per-file read and parse failures become scan errors. Workers
// write into per-file slots so results keep input order no matter which
// worker finishes first; report ordering must not depend on scheduling.
func (e *Engine) parseFiles(ctx context.Context, s scanner.Scanner, idx *index.FileIndex, states map[string]cache.FileState, relPaths []string) ([]*scanner.ParseOutput, []scanner.ScanError) {
	outSlots := make([]*scanner.ParseOutput, len(relPaths))
	errSlots := make([]*scanner.ScanError, len(relPaths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())
	for i, relPath := range relPaths {
		i, relPath := i, relPath
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, ok := idx.Record(relPath)
			if !ok {
				return nil
			}
			content, err := os.ReadFile(rec.AbsPath)
			if err != nil {
				errSlots[i] = &scanner.ScanError{File: relPath, Message: err.Error()}
				return nil
			}

			out, err := s.Parse(scanner.SourceFile{RelPath: relPath, Content: string(content)})
			if err != nil {
				errSlots[i] = &scanner.ScanError{File: relPath, Message: err.Error()}
				return nil
			}
			if out == nil {
				out = &scanner.ParseOutput{}
			}

			if raw, err := json.Marshal(out); err == nil {
				e.cache.Record(s.Name(), states[relPath], raw)
			}

			outSlots[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.warnf("%s: scan interrupted: %v", s.Name(), err)
	}

	var outputs []*scanner.ParseOutput
	var errs []scanner.ScanError
	for i := range relPaths {
		if outSlots[i] != nil {
			outputs = append(outputs, outSlots[i])
		}
		if errSlots[i] != nil {
			errs = append(errs, *errSlots[i])
		}
	}
	return outputs, errs
}

// fileStates resolves the cache identity of every indexed file: last
// touching commit for tracked files, mtime for untracked ones. Git
// failures degrade everything to mtime identity.
func (e *Engine) fileStates(ctx context.Context, idx *index.FileIndex) map[string]cache.FileState {
	tracked, err := e.git.TrackedFiles(ctx, e.root)
	if err != nil {
		e.warnf("list tracked files: %v", err)
		tracked = map[string]struct{}{}
	}

	states := make(map[string]cache.FileState, len(idx.Files))
	for _, rec := range idx.Files {
		state := cache.FileState{
			RelPath:       rec.RelPath,
			MtimeUnixNano: rec.ModTimeUnixNano,
		}
		if _, ok := tracked[rec.RelPath]; ok {
			hash, ok, err := e.git.FileCommit(ctx, e.root, rec.RelPath)
			if err != nil {
				e.warnf("resolve commit for %s: %v", rec.RelPath, err)
			} else if ok {
				state.CommitHash = hash
			}
		}
		states[rec.RelPath] = state
	}
	return states
}

func (e *Engine) workers() int {
	if e.cfg.Concurrency > 0 {
		return e.cfg.Concurrency
	}
	return runtime.NumCPU()
}

func (e *Engine) infof(format string, args ...any) {
	if e.log != nil {
		e.log.Infof(format, args...)
	}
}

func (e *Engine) warnf(format string, args ...any) {
	if e.log != nil {
		e.log.Warnf(format, args...)
	}
}
