package options

import (
	"fmt"
	"strings"

	"github.com/google/shlex"
	"github.com/webunittest/swtest/pkg/swerr"
)

const (
	flagPrefix = "-"
	flagDelete = 'D'
	flagInsert = 'I'
	flagDefine = 'A'
)

// CompileOptions holds the tokens parsed from a compilation option string such as
// `-D TRACE LOG_ -I Hal -A "UNIT_TEST 1"`.
// Delete tokens remove every line that contains them, insert tokens are extra
// name prefixes whose forward declarations survive stubbing, and define texts are
// emitted as #define lines.
type CompileOptions struct {
	Delete []string `yaml:"delete"`
	Insert []string `yaml:"insert"`
	Define []string `yaml:"define"`
}

// Parses the option string. Values that appear before any flag, or after an unknown
// flag letter, are skipped. A repeated -D or -I replaces the earlier set.
// The only failure is an option string that cannot be tokenized (e.g. an unbalanced quote).
func Parse(optionString string) (CompileOptions, error) {
	opts := CompileOptions{}
	tokens, err := shlex.Split(optionString)
	if err != nil {
		return opts, fmt.Errorf("%w: invalid compilation option %q: %v", swerr.ErrConfiguration, optionString, err)
	}

	var current *[]string
	for _, token := range tokens {
		if isFlag(token) {
			current = opts.target(token[1])
			if rest := token[2:]; rest != "" && current != nil {
				*current = append(*current, rest)
			}
			continue
		}
		if current != nil {
			*current = append(*current, token)
		}
	}
	return opts, nil
}

// Returns the list a flag letter writes to, resetting it for -D and -I.
func (o *CompileOptions) target(letter byte) *[]string {
	switch letter {
	case flagDelete:
		o.Delete = nil
		return &o.Delete
	case flagInsert:
		o.Insert = nil
		return &o.Insert
	case flagDefine:
		return &o.Define
	default:
		return nil
	}
}

func isFlag(token string) bool {
	if len(token) < 2 || !strings.HasPrefix(token, flagPrefix) {
		return false
	}
	c := token[1]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// Returns whether the line contains one of the delete tokens.
func (o CompileOptions) Deletes(line string) bool {
	for _, token := range o.Delete {
		if strings.Contains(line, token) {
			return true
		}
	}
	return false
}

// Returns the lines that don't contain any delete token.
func (o CompileOptions) DeleteLines(lines []string) []string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if !o.Deletes(line) {
			kept = append(kept, line)
		}
	}
	return kept
}

// Returns the define texts rendered as preprocessor lines.
func (o CompileOptions) DefineLines() []string {
	lines := make([]string, 0, len(o.Define))
	for _, define := range o.Define {
		lines = append(lines, "#define "+strings.TrimSpace(define))
	}
	return lines
}

func (o CompileOptions) IsEmpty() bool {
	return len(o.Delete) == 0 && len(o.Insert) == 0 && len(o.Define) == 0
}
