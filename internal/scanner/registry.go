package scanner

import "sort"

// Registry stores the available dialect scanners. The set is closed and
// enumerable: scanners are registered explicitly, never discovered at
// runtime.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: make(map[string]Scanner)}
}

// Register adds or replaces a scanner under its name.
func (r *Registry) Register(s Scanner) {
	if r == nil || s == nil {
		return
	}
	r.scanners[s.Name()] = s
}

// Lookup returns the scanner registered under name.
func (r *Registry) Lookup(name string) (Scanner, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.scanners[name]
	return s, ok
}

// Names returns registered scanner names sorted lexicographically.
func (r *Registry) Names() []string {
	if r == nil || len(r.scanners) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.scanners))
	for name := range r.scanners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns the built-in scanner set.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(ReactScanner{})
	r.Register(SolidScanner{})
	r.Register(VueScanner{})
	r.Register(SvelteScanner{})
	r.Register(StorybookScanner{})
	r.Register(CSSScanner{})
	r.Register(TailwindScanner{})
	r.Register(FigmaScanner{})
	return r
}
