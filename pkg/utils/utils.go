package utils

import "strings"

const (
	CRLF = "\r\n"
	LF   = "\n"
)

func SplitLines(text string) []string {
	normalized := strings.Replace(text, CRLF, LF, -1)
	return strings.Split(normalized, LF)
}

// Splits the text into lines and drops the ones that are blank after trimming.
// The returned lines are trimmed.
func NonEmptyLines(text string) []string {
	lines := make([]string, 0)
	for _, line := range SplitLines(text) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// Appends a statement terminator unless the statement already ends with one.
func Terminate(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if strings.HasSuffix(stmt, ";") {
		return stmt
	}
	return stmt + ";"
}
