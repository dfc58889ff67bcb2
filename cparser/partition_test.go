package cparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartition(t *testing.T) {
	testCases := []struct {
		name           string
		lines          []string
		declarations   []string
		implementation []string
	}{
		{
			name:           "function after globals",
			lines:          []string{"int x;", "void f(void);", "void f(void)", "{", "}"},
			declarations:   []string{"int x;", "void f(void);"},
			implementation: []string{"void f(void)", "{", "}"},
		},
		{
			name:           "brace on the same line is not a boundary",
			lines:          []string{"int x;", "void f(void) {", "}"},
			declarations:   []string{"int x;", "void f(void) {", "}"},
			implementation: []string{},
		},
		{
			name:           "no functions",
			lines:          []string{"#define A 1", "int x;"},
			declarations:   []string{"#define A 1", "int x;"},
			implementation: []string{},
		},
		{
			name:           "signature on the last line",
			lines:          []string{"int x;", "void f(void)"},
			declarations:   []string{"int x;", "void f(void)"},
			implementation: []string{},
		},
	}

	for _, tc := range testCases {
		declarations, implementation := Partition(tc.lines)
		assert.Equal(t, tc.declarations, declarations, tc.name)
		assert.Equal(t, tc.implementation, implementation, tc.name)
	}
}
