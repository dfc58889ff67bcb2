package cparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAndJoinLines(t *testing.T) {
	input := "int a;\r\nint b;\n"
	lines := SplitLines(input)
	assert.Equal(t, []string{"int a;", "int b;", ""}, lines)
	assert.Equal(t, "int a;\nint b;\n", JoinLines(lines))
}

func TestParseDirective(t *testing.T) {
	directive, ok := ParseDirective("  # include <stdio.h>")
	assert.True(t, ok)
	assert.Equal(t, Directive{Type: "include", Args: []string{"<stdio.h>"}}, directive)

	_, ok = ParseDirective("#bogus 1")
	assert.False(t, ok)
	_, ok = ParseDirective("int a;")
	assert.False(t, ok)
}

func TestParseDefine(t *testing.T) {
	testCases := []struct {
		line     string
		expected Macro
		ok       bool
	}{
		{"#define BUF_LEN 8", Macro{Name: "BUF_LEN", Value: "8"}, true},
		{"#define MAX_SPEED 100 /* rpm */", Macro{Name: "MAX_SPEED", Value: "100"}, true},
		{"#define GUARD_H", Macro{}, false},
		{"#define SQUARE(x) ((x) * (x))", Macro{}, false},
		{"#include \"a.h\"", Macro{}, false},
	}

	for _, tc := range testCases {
		actual, ok := ParseDefine(tc.line)
		assert.Equal(t, tc.ok, ok, tc.line)
		assert.Equal(t, tc.expected, actual, tc.line)
	}
}

func TestSubstituteBounds(t *testing.T) {
	table := NewMacroTable()
	table.Add(Macro{Name: "ROWS", Value: "2"})
	table.Add(Macro{Name: "COLS", Value: "3"})

	assert.Equal(t, "int m[2][3];", table.SubstituteBounds("int m[ROWS][COLS];"))
	assert.Equal(t, "int m[ROWS * 2];", table.SubstituteBounds("int m[ROWS * 2];"))
	assert.Equal(t, "int COLS_USED;", table.SubstituteBounds("int COLS_USED;"))
}
