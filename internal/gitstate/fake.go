package gitstate

import "context"

// Fake is an in-memory Provider for tests and for projects without git.
type Fake struct {
	// Commits maps relative path to the commit hash reported for it.
	Commits map[string]string
	// HeadHash is returned by Head.
	HeadHash string
}

func (f *Fake) TrackedFiles(ctx context.Context, root string) (map[string]struct{}, error) {
	tracked := make(map[string]struct{}, len(f.Commits))
	for path := range f.Commits {
		tracked[path] = struct{}{}
	}
	return tracked, nil
}

func (f *Fake) FileCommit(ctx context.Context, root, relPath string) (string, bool, error) {
	hash, ok := f.Commits[relPath]
	return hash, ok, nil
}

func (f *Fake) Head(ctx context.Context, root string) (string, error) {
	return f.HeadHash, nil
}

// None is a Provider for projects outside version control: every file is
// untracked and identified by mtime.
type None struct{}

func (None) TrackedFiles(ctx context.Context, root string) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func (None) FileCommit(ctx context.Context, root, relPath string) (string, bool, error) {
	return "", false, nil
}

func (None) Head(ctx context.Context, root string) (string, error) {
	return "", nil
}
