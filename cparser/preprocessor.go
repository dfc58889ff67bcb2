package cparser

import (
	"regexp"
	"slices"
	"strings"
)

const (
	crlf            = "\r\n"
	lf              = "\n"
	directivePrefix = "#"
	defineDirective = "define"
)

var directiveTypes = []string{
	"assert",
	"define",
	"elif",
	"else",
	"endif",
	"error",
	"if",
	"ifdef",
	"ifndef",
	"include",
	"line",
	"pragma",
	"undef",
	"warning",
}

var bracketExpression = regexp.MustCompile(`\[([^\[\]]*)\]`)

// Directive is a single preprocessor line split into its type and arguments.
type Directive struct {
	Type string
	Args []string
}

// Macro is an object-like macro binding, e.g. `#define BUF_LEN 8`.
type Macro struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Splits the given input into lines, normalizing line endings to LF.
func SplitLines(input string) []string {
	normalized := strings.ReplaceAll(input, crlf, lf)
	return strings.Split(normalized, lf)
}

// Joins lines produced by SplitLines back into file content.
func JoinLines(lines []string) string {
	return strings.Join(lines, lf)
}

// Parses a preprocessor line. Returns false if the line is not a directive or
// the directive type is unknown.
func ParseDirective(line string) (Directive, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, directivePrefix) {
		return Directive{}, false
	}
	fields := strings.Fields(strings.TrimPrefix(trimmed, directivePrefix))
	if len(fields) == 0 || !slices.Contains(directiveTypes, fields[0]) {
		return Directive{}, false
	}
	return Directive{Type: fields[0], Args: fields[1:]}, true
}

// Parses an object-like `#define NAME VALUE...` line. Only the first value token is
// kept. Function-like macros and macros without a value are not bindings.
func ParseDefine(line string) (Macro, bool) {
	directive, ok := ParseDirective(line)
	if !ok || directive.Type != defineDirective || len(directive.Args) < 2 {
		return Macro{}, false
	}
	name := directive.Args[0]
	if strings.Contains(name, "(") {
		return Macro{}, false
	}
	return Macro{Name: name, Value: directive.Args[1]}, true
}

// MacroTable records macro bindings in the order they were seen.
// A later definition of the same name replaces the earlier value.
type MacroTable struct {
	macros []Macro
	index  map[string]int
}

func NewMacroTable() *MacroTable {
	return &MacroTable{index: make(map[string]int)}
}

func (t *MacroTable) Add(macro Macro) {
	if i, ok := t.index[macro.Name]; ok {
		t.macros[i] = macro
		return
	}
	t.index[macro.Name] = len(t.macros)
	t.macros = append(t.macros, macro)
}

func (t *MacroTable) Lookup(name string) (string, bool) {
	i, ok := t.index[name]
	if !ok {
		return "", false
	}
	return t.macros[i].Value, true
}

func (t *MacroTable) Macros() []Macro {
	return slices.Clone(t.macros)
}

// Replaces every bracket expression that consists of a single recorded macro name
// with the macro's value, so `buf[BUF_LEN]` becomes `buf[8]`.
func (t *MacroTable) SubstituteBounds(line string) string {
	return bracketExpression.ReplaceAllStringFunc(line, func(expr string) string {
		inner := strings.TrimSpace(expr[1 : len(expr)-1])
		if value, ok := t.Lookup(inner); ok {
			return "[" + value + "]"
		}
		return expr
	})
}
