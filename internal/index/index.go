// Package index walks a project root once and captures a deterministic
// snapshot of the files eligible for scanning.
package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileRecord describes a discovered file in the project tree.
type FileRecord struct {
	AbsPath         string
	RelPath         string
	Size            int64
	ModTimeUnixNano int64
}

// FileIndex is a deterministic snapshot of files under a project root,
// sorted by relative path.
type FileIndex struct {
	Root  string
	Files []FileRecord
}

// Options filters the walk. Include and Exclude are doublestar globs
// matched against slash-separated relative paths; an empty Include list
// admits everything not excluded.
type Options struct {
	Include []string
	Exclude []string
}

// Build walks root once and captures all eligible files.
func Build(ctx context.Context, root string, opts Options) (*FileIndex, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	idx := &FileIndex{Root: absRoot}
	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			if path != absRoot && isExcludedDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if !matches(relPath, opts) {
			return nil
		}

		idx.Files = append(idx.Files, FileRecord{
			AbsPath:         path,
			RelPath:         relPath,
			Size:            info.Size(),
			ModTimeUnixNano: info.ModTime().UnixNano(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	sort.Slice(idx.Files, func(i, j int) bool {
		return idx.Files[i].RelPath < idx.Files[j].RelPath
	})

	return idx, nil
}

// RelPaths returns the relative paths of every indexed file, in index order.
func (idx *FileIndex) RelPaths() []string {
	if idx == nil {
		return nil
	}
	paths := make([]string, len(idx.Files))
	for i, rec := range idx.Files {
		paths[i] = rec.RelPath
	}
	return paths
}

// Record returns the file record for a relative path.
func (idx *FileIndex) Record(relPath string) (FileRecord, bool) {
	if idx == nil {
		return FileRecord{}, false
	}
	i := sort.Search(len(idx.Files), func(i int) bool {
		return idx.Files[i].RelPath >= relPath
	})
	if i < len(idx.Files) && idx.Files[i].RelPath == relPath {
		return idx.Files[i], true
	}
	return FileRecord{}, false
}

func matches(relPath string, opts Options) bool {
	for _, pattern := range opts.Exclude {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return false
		}
	}
	if len(opts.Include) == 0 {
		return true
	}
	for _, pattern := range opts.Include {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

func isExcludedDir(name string) bool {
	return strings.HasPrefix(name, ".") ||
		name == "node_modules" || name == "vendor" ||
		name == "dist" || name == "build" || name == "coverage"
}
