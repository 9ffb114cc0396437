package scanner

// SolidScanner extracts components from Solid sources. Solid shares the
// TSX/JSX extension set with React; files claim the dialect through their
// solid-js import, and the component-declaration heuristics are shared with
// the react scanner.
type SolidScanner struct{}

func (SolidScanner) Name() string { return "solid" }

func (SolidScanner) Discover(files []string) []string {
	return discoverByExtension(files, []string{".tsx", ".jsx"}, []string{".stories.", ".test.", ".spec."})
}

func (SolidScanner) Parse(file SourceFile) (*ParseOutput, error) {
	if !importsSolid(file.Content) {
		return &ParseOutput{}, nil
	}
	return parseComponentScript(file, "solid")
}
