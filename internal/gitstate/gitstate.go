// Package gitstate answers the one question the scan cache needs from
// version control: for a given file, what commit does its content belong
// to, or is it untracked. It shells out to the git CLI and implements no
// git plumbing of its own.
package gitstate

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Provider supplies git state for files under a project root. Untracked
// files are reported with ok=false from FileCommit; callers fall back to
// mtime identity for those.
type Provider interface {
	// TrackedFiles returns the set of tracked relative paths.
	TrackedFiles(ctx context.Context, root string) (map[string]struct{}, error)
	// FileCommit returns the hash of the last commit touching relPath.
	FileCommit(ctx context.Context, root, relPath string) (string, bool, error)
	// Head returns the current HEAD commit hash.
	Head(ctx context.Context, root string) (string, error)
}

// Git implements Provider using the git CLI.
type Git struct {
	gitPath string
}

// NewGit locates the git executable and verifies it runs.
func NewGit(ctx context.Context) (*Git, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("git not found in PATH: %w", err)
	}
	cmd := exec.CommandContext(ctx, gitPath, "version")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git command failed: %w", err)
	}
	return &Git{gitPath: gitPath}, nil
}

// TrackedFiles lists tracked paths via git ls-files.
func (g *Git) TrackedFiles(ctx context.Context, root string) (map[string]struct{}, error) {
	cmd := exec.CommandContext(ctx, g.gitPath, "-C", root, "ls-files", "-z")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files failed in %s: %w", root, err)
	}

	tracked := make(map[string]struct{})
	for _, path := range bytes.Split(output, []byte{0}) {
		if len(path) == 0 {
			continue
		}
		tracked[string(path)] = struct{}{}
	}
	return tracked, nil
}

// FileCommit returns the last commit hash touching relPath. ok is false for
// untracked files or paths with no history yet.
func (g *Git) FileCommit(ctx context.Context, root, relPath string) (string, bool, error) {
	cmd := exec.CommandContext(ctx, g.gitPath, "-C", root, "log", "-1", "--format=%H", "--", relPath)
	output, err := cmd.Output()
	if err != nil {
		return "", false, fmt.Errorf("git log failed for %s: %w", relPath, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(output))
	if scanner.Scan() {
		hash := strings.TrimSpace(scanner.Text())
		if hash != "" {
			return hash, true, nil
		}
	}
	return "", false, nil
}

// Head returns the current HEAD commit hash, or empty when the repository
// has no commits yet. Other failures (not a repository, git errors) are
// returned so callers can log before degrading.
func (g *Git) Head(ctx context.Context, root string) (string, error) {
	cmd := exec.CommandContext(ctx, g.gitPath, "-C", root, "rev-parse", "--quiet", "--verify", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		// --quiet --verify exits 1 for an unborn HEAD.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", fmt.Errorf("git rev-parse HEAD failed in %s: %w", root, err)
	}
	return strings.TrimSpace(string(output)), nil
}
