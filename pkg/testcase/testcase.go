package testcase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/webunittest/swtest/pkg/swerr"
	"github.com/webunittest/swtest/pkg/utils"
)

// LastRow is the cycle key of expectations that are not tied to a cycle.
// They are checked against the last row the test wrote. Cycles start at 1, so
// the key never collides with an indexed expectation.
const LastRow = 0

const indexMarker = ")"

var (
	inputRange    = regexp.MustCompile(`^(\d+)\s*~\s*(\d+)\s*\)\s*(.*)$`)
	inputIndex    = regexp.MustCompile(`^(\d+)\s*\)\s*(.*)$`)
	expectIndexed = regexp.MustCompile(`^(\d+)\s*\)\s*([^=\s]+)\s*=\s*(.*?)\s*;?$`)
	expectFlat    = regexp.MustCompile(`^([^=\s]+)\s*=\s*(.*?)\s*;?$`)
	testReference = regexp.MustCompile(`Test_(\d+)\s*\(\s*\)`)
	resetWord     = regexp.MustCompile(`\breset\b`)
)

type PreconditionKind int

const (
	PreconditionStatement PreconditionKind = iota
	PreconditionTest
	PreconditionReset
)

// Precondition is one line of a test's precondition column.
type Precondition struct {
	Kind PreconditionKind
	// Statement is set for PreconditionStatement.
	Statement string
	// Test is the referenced test number for PreconditionTest.
	Test int
	// File is the source file whose globals are reset for PreconditionReset.
	// Empty means the test's own target file.
	File string
}

// Input is an assignment applied before a call. Cycle 0 applies once, before the
// first cycle; other values apply before that cycle only.
type Input struct {
	Cycle     int
	Statement string
}

type Expectation struct {
	Variable string
	Value    string
}

// ExpectedResult maps a 1-based cycle (or LastRow) to the values expected in that
// row of the test's CSV output.
type ExpectedResult struct {
	// Variables are the captured columns in the order first seen.
	Variables []string
	ByCycle   map[int][]Expectation
	// Cycles lists the keys of ByCycle in the order first seen.
	Cycles []int
}

func (e ExpectedResult) Count() int {
	count := 0
	for _, expectations := range e.ByCycle {
		count += len(expectations)
	}
	return count
}

// TestCase is a decoded row of the test table.
type TestCase struct {
	Number        int
	Description   string
	File          string
	Calls         []string
	Cycle         int
	Definitions   Definitions
	Preconditions []Precondition
	Inputs        []Input
	Indexed       bool
	Expected      ExpectedResult
}

// Returns the zero padded test identifier, e.g. "007".
func (tc *TestCase) ID() string {
	return FormatID(tc.Number)
}

// Returns the name of the generated C function for the test.
func (tc *TestCase) FunctionName() string {
	return "Test_" + tc.ID()
}

// Returns the name of the CSV file the test writes.
func (tc *TestCase) CsvName() string {
	return "test_" + tc.ID() + ".csv"
}

func FormatID(number int) string {
	return fmt.Sprintf("%03d", number)
}

// Decodes a table row. Definitions from the note are applied to the
// precondition, input and expected text before they are parsed.
func Decode(row Row) (*TestCase, error) {
	if row.Number < 0 {
		return nil, fmt.Errorf("%w: test number %d is negative", swerr.ErrConfiguration, row.Number)
	}
	if row.Cycle < 1 {
		return nil, fmt.Errorf("%w: test %s: cycle must be at least 1, got %d", swerr.ErrConfiguration, FormatID(row.Number), row.Cycle)
	}
	if strings.TrimSpace(row.File) == "" {
		return nil, fmt.Errorf("%w: test %s: target file is empty", swerr.ErrConfiguration, FormatID(row.Number))
	}

	definitions := ScopedDefinitions(row.Note)
	precondition := definitions.Apply(row.Precondition)
	input := definitions.Apply(row.Input)
	expected := definitions.Apply(row.Expected)

	inputs, err := ParseInputs(input, row.Cycle)
	if err != nil {
		return nil, fmt.Errorf("test %s: %w", FormatID(row.Number), err)
	}
	expectedResult, err := ParseExpected(expected)
	if err != nil {
		return nil, fmt.Errorf("test %s: %w", FormatID(row.Number), err)
	}

	return &TestCase{
		Number:        row.Number,
		Description:   row.Description,
		File:          strings.TrimSpace(row.File),
		Calls:         ParseFunctions(row.Functions),
		Cycle:         row.Cycle,
		Definitions:   definitions,
		Preconditions: ParsePreconditions(precondition),
		Inputs:        inputs,
		Indexed:       IsIndexed(input),
		Expected:      expectedResult,
	}, nil
}

// Returns one call statement per non-empty line.
func ParseFunctions(text string) []string {
	calls := make([]string, 0)
	for _, line := range utils.NonEmptyLines(text) {
		calls = append(calls, utils.Terminate(line))
	}
	return calls
}

// Parses the precondition column: `Test_<n>()` replays an earlier test, a line
// with the word reset zeroes the target file's globals (or the .c file named on
// the line), anything else is a statement.
func ParsePreconditions(text string) []Precondition {
	preconditions := make([]Precondition, 0)
	for _, line := range utils.NonEmptyLines(text) {
		if match := testReference.FindStringSubmatch(line); match != nil {
			number, _ := strconv.Atoi(match[1])
			preconditions = append(preconditions, Precondition{Kind: PreconditionTest, Test: number})
			continue
		}
		if resetWord.MatchString(line) {
			preconditions = append(preconditions, Precondition{Kind: PreconditionReset, File: resetTarget(line)})
			continue
		}
		preconditions = append(preconditions, Precondition{Kind: PreconditionStatement, Statement: utils.Terminate(line)})
	}
	return preconditions
}

func resetTarget(line string) string {
	for _, field := range strings.Fields(line) {
		if strings.HasSuffix(field, ".c") {
			return field
		}
	}
	return ""
}

// Returns whether the input block uses cycle indexes. Any `)` switches the test
// to indexed mode.
func IsIndexed(input string) bool {
	return strings.Contains(input, indexMarker)
}

// Parses the input column of a test with the given number of cycles.
// `i~j) expr` expands to one input per cycle in [i, j], `k) expr` applies to
// cycle k and any other line applies once. Ranges are cut at the last cycle.
func ParseInputs(text string, cycles int) ([]Input, error) {
	inputs := make([]Input, 0)
	for _, line := range utils.NonEmptyLines(text) {
		if match := inputRange.FindStringSubmatch(line); match != nil {
			first, err := strconv.Atoi(match[1])
			if err != nil {
				return nil, fmt.Errorf("%w: invalid cycle range in input %q", swerr.ErrConfiguration, line)
			}
			last, err := strconv.Atoi(match[2])
			if err != nil || first < 1 || last < first {
				return nil, fmt.Errorf("%w: invalid cycle range in input %q", swerr.ErrConfiguration, line)
			}
			last = min(last, cycles)
			for cycle := first; cycle <= last; cycle++ {
				inputs = append(inputs, Input{Cycle: cycle, Statement: utils.Terminate(match[3])})
			}
			continue
		}
		if match := inputIndex.FindStringSubmatch(line); match != nil {
			cycle, err := strconv.Atoi(match[1])
			if err != nil || cycle < 1 {
				return nil, fmt.Errorf("%w: invalid cycle in input %q", swerr.ErrConfiguration, line)
			}
			inputs = append(inputs, Input{Cycle: cycle, Statement: utils.Terminate(match[2])})
			continue
		}
		inputs = append(inputs, Input{Statement: utils.Terminate(line)})
	}
	return inputs, nil
}

// Parses the expected column. A line reading `n) var = value` is checked
// against row n, a line reading `var = value` against the last row. Both may
// appear in the same column.
func ParseExpected(text string) (ExpectedResult, error) {
	result := ExpectedResult{
		Variables: make([]string, 0),
		ByCycle:   make(map[int][]Expectation),
		Cycles:    make([]int, 0),
	}
	seen := make(map[string]bool)

	for _, line := range utils.NonEmptyLines(text) {
		cycle := LastRow
		var variable, value string
		if match := expectIndexed.FindStringSubmatch(line); match != nil {
			var err error
			cycle, err = strconv.Atoi(match[1])
			if err != nil || cycle < 1 {
				return result, fmt.Errorf("%w: invalid cycle in expected output %q", swerr.ErrConfiguration, line)
			}
			variable, value = match[2], match[3]
		} else if match := expectFlat.FindStringSubmatch(line); match != nil {
			variable, value = match[1], match[2]
		} else {
			return result, fmt.Errorf("%w: expected output %q matches neither `n) var = value` nor `var = value`", swerr.ErrConfiguration, line)
		}
		if value == "" {
			return result, fmt.Errorf("%w: expected output %q has no value", swerr.ErrConfiguration, line)
		}

		if !seen[variable] {
			seen[variable] = true
			result.Variables = append(result.Variables, variable)
		}
		if _, ok := result.ByCycle[cycle]; !ok {
			result.Cycles = append(result.Cycles, cycle)
		}
		result.ByCycle[cycle] = append(result.ByCycle[cycle], Expectation{Variable: variable, Value: value})
	}
	return result, nil
}
