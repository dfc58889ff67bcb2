package cparser

import (
	"path/filepath"
	"strings"
)

const prefixSeparator = "_"

// ImplementationFilter rewrites the implementation region of a source file.
// Lines that look like a call or forward declaration (`(` and `);` on one line) are
// kept only when they mention one of the prefixes; everything else passes through.
type ImplementationFilter struct {
	Prefixes []string
}

// Builds a filter whose prefixes are the module prefixes of the source files
// (the part of the file name before the first underscore) plus the extra prefixes.
func NewImplementationFilter(sourceFiles []string, extraPrefixes []string) ImplementationFilter {
	prefixes := make([]string, 0, len(sourceFiles)+len(extraPrefixes))
	seen := make(map[string]bool)
	add := func(prefix string) {
		if prefix != "" && !seen[prefix] {
			seen[prefix] = true
			prefixes = append(prefixes, prefix)
		}
	}
	for _, source := range sourceFiles {
		add(ModulePrefix(source))
	}
	for _, prefix := range extraPrefixes {
		add(strings.TrimSpace(prefix))
	}
	return ImplementationFilter{Prefixes: prefixes}
}

// Returns the module prefix of a source file name, e.g. "Motor" for "Motor_ctrl.c".
func ModulePrefix(sourceFile string) string {
	name := strings.TrimSuffix(filepath.Base(sourceFile), filepath.Ext(sourceFile))
	prefix, _, _ := strings.Cut(name, prefixSeparator)
	return prefix
}

func (f ImplementationFilter) Apply(lines []string) []string {
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		if HasStatic(line) && !strings.Contains(line, "inline") {
			line = StripStatic(line)
		}
		if isCallOrPrototype(line) && !f.references(line) {
			continue
		}
		filtered = append(filtered, line)
	}
	return filtered
}

// Returns whether the line mentions one of the filter's prefixes.
func (f ImplementationFilter) references(line string) bool {
	for _, prefix := range f.Prefixes {
		if strings.Contains(line, prefix) {
			return true
		}
	}
	return false
}

func isCallOrPrototype(line string) bool {
	return strings.Contains(line, "(") && strings.Contains(line, ");")
}
