package cparser

import "strings"

// Splits a translation unit into its declaration and implementation regions.
//
// The boundary is the first line that has no `;`, has both `(` and `)`, and whose
// next line contains `{`, i.e. the signature of the first function definition.
// Signatures are assumed to fit on one line. Without a boundary the whole input is
// the declaration region.
func Partition(lines []string) (declarations []string, implementation []string) {
	boundary := FindBoundary(lines)
	return lines[:boundary], lines[boundary:]
}

// Returns the index of the first function signature, or len(lines) if there is none.
func FindBoundary(lines []string) int {
	for i := 0; i+1 < len(lines); i++ {
		if isFunctionSignature(lines[i]) && strings.Contains(lines[i+1], "{") {
			return i
		}
	}
	return len(lines)
}

func isFunctionSignature(line string) bool {
	return !strings.Contains(line, ";") && strings.Contains(line, "(") && strings.Contains(line, ")")
}
