package cparser

import (
	"regexp"
	"strings"
)

var (
	staticKeyword   = regexp.MustCompile(`\bstatic\b`)
	staticWithSpace = regexp.MustCompile(`\bstatic\b[ \t]*`)
	qualifierWord   = regexp.MustCompile(`\b(const|inline|volatile)\b`)
)

// Line prefixes that never declare a resettable variable.
var nonVariablePrefixes = []string{"}", "typedef", "extern", "return", "//", "/*", "*"}

// DeclarationResult is the output of rewriting a declaration region.
type DeclarationResult struct {
	// Lines is the rewritten region: static removed and macro bounds substituted.
	Lines []string
	// Resets holds one `name = 0;` or `name = {0};` statement per global variable.
	Resets []string
	// Externs holds an `extern` declaration for every symbol that was static.
	Externs []string
	// Macros are the object-like macros defined in the region.
	Macros []Macro
}

// Rewrites the declaration region of a source file so its globals have external
// linkage, and derives the statements that zero them.
//
// The rewrite is line based: a declaration must fit on one line and end with `;`.
// Lines mentioning const, inline or volatile are left alone, as are comment lines.
// Reset statements are only produced at brace depth zero, and the variable name
// is the second whitespace separated token of the declaration.
func RewriteDeclarations(lines []string) DeclarationResult {
	result := DeclarationResult{
		Lines:   make([]string, 0, len(lines)),
		Resets:  make([]string, 0),
		Externs: make([]string, 0),
	}
	macros := NewMacroTable()
	depth := 0

	for _, line := range lines {
		depthBefore := depth
		depth = max(depth+braceBalance(line), 0)

		if macro, ok := ParseDefine(line); ok {
			macros.Add(macro)
			result.Lines = append(result.Lines, line)
			continue
		}
		if !isPlainDeclaration(line) {
			result.Lines = append(result.Lines, line)
			continue
		}

		line = macros.SubstituteBounds(line)
		if HasStatic(line) {
			line = StripStatic(line)
			result.Externs = append(result.Externs, ExternDeclaration(line))
		}
		result.Lines = append(result.Lines, line)

		if depthBefore == 0 {
			if reset, ok := ResetStatement(line); ok {
				result.Resets = append(result.Resets, reset)
			}
		}
	}

	result.Macros = macros.Macros()
	return result
}

// Returns whether the line is a candidate variable or prototype declaration.
func isPlainDeclaration(line string) bool {
	if !strings.Contains(line, ";") || qualifierWord.MatchString(line) {
		return false
	}
	trimmed := strings.TrimSpace(line)
	return !strings.HasPrefix(trimmed, "//") && !strings.HasPrefix(trimmed, "/*") && !strings.HasPrefix(trimmed, "*")
}

// Returns the statement that zeroes the variable declared on the line.
// Prototypes and lines closing a brace initializer or struct produce nothing.
func ResetStatement(declaration string) (string, bool) {
	trimmed := strings.TrimSpace(declaration)
	if strings.Contains(trimmed, ");") || strings.Contains(trimmed, "};") {
		return "", false
	}
	for _, prefix := range nonVariablePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return "", false
		}
	}

	fields := strings.Fields(trimmed)
	if len(fields) < 2 {
		return "", false
	}
	name := fields[1]
	if end := strings.IndexAny(name, "[=;,"); end >= 0 {
		name = name[:end]
	}
	if name == "" {
		return "", false
	}

	if strings.Contains(trimmed, "[") && strings.Contains(trimmed, "]") {
		return name + " = {0};", true
	}
	return name + " = 0;", true
}

// Returns whether the line uses the static keyword.
func HasStatic(line string) bool {
	return staticKeyword.MatchString(line)
}

// Removes the static keyword, keeping the line's indentation.
func StripStatic(line string) string {
	return staticWithSpace.ReplaceAllString(line, "")
}

// Returns the extern declaration for a global declaration line.
// An initializer is dropped so the header only declares the symbol.
func ExternDeclaration(line string) string {
	declaration := strings.TrimSpace(line)
	if i := strings.Index(declaration, "="); i >= 0 && !strings.Contains(declaration[:i], "(") {
		declaration = strings.TrimSpace(declaration[:i]) + ";"
	}
	return "extern " + declaration
}

func braceBalance(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}
