package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/webunittest/swtest/pkg/swerr"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		textual  string
		expected CompileOptions
	}{
		{
			textual:  "",
			expected: CompileOptions{},
		},
		{
			textual: "-D TRACE LOG_ -I Hal -A \"UNIT_TEST 1\"",
			expected: CompileOptions{
				Delete: []string{"TRACE", "LOG_"},
				Insert: []string{"Hal"},
				Define: []string{"UNIT_TEST 1"},
			},
		},
		{
			textual: "stray -D a -D b c",
			expected: CompileOptions{
				Delete: []string{"b", "c"},
			},
		},
		{
			textual: "-Ifoo -X ignored -A ONE -A TWO",
			expected: CompileOptions{
				Insert: []string{"foo"},
				Define: []string{"ONE", "TWO"},
			},
		},
	}

	for _, tc := range testCases {
		actual, err := Parse(tc.textual)
		assert.NoError(t, err)
		assert.Equal(t, tc.expected, actual, "option string %q", tc.textual)
	}
}

func TestParseUnbalancedQuote(t *testing.T) {
	_, err := Parse("-A \"UNIT_TEST")
	assert.ErrorIs(t, err, swerr.ErrConfiguration)
}

func TestDeleteLines(t *testing.T) {
	opts := CompileOptions{Delete: []string{"TRACE"}}
	lines := []string{"int a;", "    TRACE(\"x\");", "int b;"}
	assert.Equal(t, []string{"int a;", "int b;"}, opts.DeleteLines(lines))
	assert.Equal(t, lines, CompileOptions{}.DeleteLines(lines))
}

func TestDefineLines(t *testing.T) {
	opts := CompileOptions{Define: []string{"UNIT_TEST 1", " STATIC "}}
	assert.Equal(t, []string{"#define UNIT_TEST 1", "#define STATIC"}, opts.DefineLines())
}

func TestIsEmpty(t *testing.T) {
	opts, err := Parse("gcc -O2")
	assert.NoError(t, err)
	assert.True(t, opts.IsEmpty())

	opts, err = Parse("-A DEBUG")
	assert.NoError(t, err)
	assert.False(t, opts.IsEmpty())
}
