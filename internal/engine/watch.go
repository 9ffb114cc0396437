package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch runs an initial scan, then rescans after filesystem changes settle
// for the configured debounce period. Each completed scan is handed to
// onReport. Watch blocks until ctx is cancelled or the watcher fails.
// Cached entries keep rescans incremental: only invalidated files are
// parsed again.
func (e *Engine) Watch(ctx context.Context, onReport func(*Report)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init: %w", err)
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, e.root); err != nil {
		return fmt.Errorf("watch %s: %w", e.root, err)
	}

	scan := func() {
		report, err := e.Run(ctx)
		if err != nil {
			e.warnf("watch rescan failed: %v", err)
			return
		}
		if onReport != nil {
			onReport(report)
		}
	}
	scan()

	debounce := time.Duration(e.cfg.WatchDebounceMS) * time.Millisecond
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if e.watchIgnored(ev.Name) {
				continue
			}
			// New directories need their own watch before events from
			// inside them can arrive.
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, ev.Name)
				}
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounce)
			pending = true
		case <-timer.C:
			pending = false
			scan()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.warnf("watch error: %v", err)
		}
	}
}

func addWatchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && watchSkipDir(info.Name()) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// watchSkipDir mirrors the directory exclusions of file indexing so the
// watcher never reports from trees a scan would not read.
func watchSkipDir(name string) bool {
	return strings.HasPrefix(name, ".") ||
		name == "node_modules" || name == "vendor" ||
		name == "dist" || name == "build" || name == "coverage"
}

func (e *Engine) watchIgnored(path string) bool {
	rel, err := filepath.Rel(e.root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part != "." && part != ".." && watchSkipDir(part) {
			return true
		}
	}
	return false
}
