package testcase

import (
	"strings"

	"github.com/webunittest/swtest/pkg/utils"
)

const definitionSeparator = ":"

// Definition is a named constant written as `NAME : value` in a test's note.
type Definition struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type Definitions []Definition

// Defaults appended after the test's own definitions.
var GlobalDefinitions = Definitions{
	{Name: "OFF", Value: "0"},
	{Name: "ON", Value: "1"},
	{Name: "FALSE", Value: "0"},
	{Name: "TRUE", Value: "1"},
	{Name: "NULL_16", Value: "65535"},
}

// Parses `NAME : value` lines. Lines without a separator are ignored.
func ParseDefinitions(note string) Definitions {
	definitions := make(Definitions, 0)
	for _, line := range utils.NonEmptyLines(note) {
		name, value, ok := strings.Cut(line, definitionSeparator)
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		definitions = append(definitions, Definition{Name: name, Value: strings.TrimSpace(value)})
	}
	return definitions
}

// Returns the definitions in effect for a test: its own note first, then the globals.
func ScopedDefinitions(note string) Definitions {
	return append(ParseDefinitions(note), GlobalDefinitions...)
}

// Substitutes every definition in order. A name is only replaced where it stands
// as a whole identifier, so OFF does not touch OFFSET.
func (d Definitions) Apply(text string) string {
	for _, definition := range d {
		text = replaceIdentifier(text, definition.Name, definition.Value)
	}
	return text
}

func replaceIdentifier(text, name, value string) string {
	if name == "" {
		return text
	}
	var b strings.Builder
	pos := 0
	for {
		i := strings.Index(text[pos:], name)
		if i < 0 {
			b.WriteString(text[pos:])
			return b.String()
		}
		start := pos + i
		end := start + len(name)
		before := start > 0 && isIdentByte(text[start-1]) && isIdentByte(name[0])
		after := end < len(text) && isIdentByte(text[end]) && isIdentByte(name[len(name)-1])
		b.WriteString(text[pos:start])
		if before || after {
			b.WriteString(name)
		} else {
			b.WriteString(value)
		}
		pos = end
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
