package cparser

// StubResult is a source file rewritten into its stub form.
type StubResult struct {
	Lines   []string
	Resets  []string
	Externs []string
	Macros  []Macro
}

// Runs the partition, declaration rewrite and implementation filter over a source file.
func StubSource(lines []string, filter ImplementationFilter) StubResult {
	declarations, implementation := Partition(lines)
	rewritten := RewriteDeclarations(declarations)
	filtered := filter.Apply(implementation)

	stubbed := make([]string, 0, len(rewritten.Lines)+len(filtered))
	stubbed = append(stubbed, rewritten.Lines...)
	stubbed = append(stubbed, filtered...)
	return StubResult{
		Lines:   stubbed,
		Resets:  rewritten.Resets,
		Externs: rewritten.Externs,
		Macros:  rewritten.Macros,
	}
}
