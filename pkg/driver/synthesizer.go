package driver

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/webunittest/swtest/pkg/swerr"
	"github.com/webunittest/swtest/pkg/testcase"
)

const (
	fileVar     = "fptr"
	valueFormat = "%d"
	separator   = ","
)

// ResetLookup returns the reset statements of a stubbed source file.
type ResetLookup interface {
	Lookup(sourceFile string) ([]string, bool)
}

// Synthesizer turns test table rows into driver functions, in table order.
type Synthesizer struct {
	resultDir string
	includes  []string
	defines   []string
	resets    ResetLookup

	tests     []*testcase.TestCase
	functions []Function
	// Pre-code of every test added so far, by test number. It holds the
	// preconditions, inputs and calls but no output statements.
	preCode map[int][]Stmt
}

// NewSynthesizer creates a synthesizer whose tests write their CSV files into
// resultDir. includes are the project headers, defines are emitted as #define lines.
func NewSynthesizer(resultDir string, includes, defines []string, resets ResetLookup) *Synthesizer {
	return &Synthesizer{
		resultDir: resultDir,
		includes:  includes,
		defines:   defines,
		resets:    resets,
		tests:     make([]*testcase.TestCase, 0),
		functions: make([]Function, 0),
		preCode:   make(map[int][]Stmt),
	}
}

// Decodes a row and appends its test function. A row may only reference tests
// that were added before it.
func (s *Synthesizer) Add(row testcase.Row) (*testcase.TestCase, error) {
	tc, err := testcase.Decode(row)
	if err != nil {
		return nil, err
	}
	if _, ok := s.preCode[tc.Number]; ok {
		return nil, fmt.Errorf("%w: test %s appears more than once", swerr.ErrConfiguration, tc.ID())
	}

	pre, err := s.resolvePreconditions(tc)
	if err != nil {
		return nil, err
	}
	body, cached := s.cycles(tc)

	s.preCode[tc.Number] = concat(pre, cached)
	s.tests = append(s.tests, tc)
	s.functions = append(s.functions, Function{
		Comment: tc.Description,
		Name:    tc.FunctionName(),
		Body:    s.wrap(tc, concat(pre, body)),
	})
	return tc, nil
}

// Returns the decoded tests in table order.
func (s *Synthesizer) Tests() []*testcase.TestCase {
	return s.tests
}

// Returns the expected results in table order.
func (s *Synthesizer) Expected() []testcase.ExpectedResult {
	expected := make([]testcase.ExpectedResult, 0, len(s.tests))
	for _, tc := range s.tests {
		expected = append(expected, tc.Expected)
	}
	return expected
}

// Builds the driver from every test added so far.
func (s *Synthesizer) TranslationUnit() TranslationUnit {
	includes := []Include{{Path: "stdio.h", System: true}}
	for _, include := range s.includes {
		includes = append(includes, Include{Path: include})
	}

	main := Function{ReturnType: "int", Name: "main", Body: make([]Stmt, 0, len(s.functions)+1)}
	for _, f := range s.functions {
		main.Body = append(main.Body, Call{Function: f.Name})
	}
	main.Body = append(main.Body, Return{Value: "0"})

	return TranslationUnit{
		Defines:   s.defines,
		Includes:  includes,
		Functions: s.functions,
		Main:      main,
	}
}

func (s *Synthesizer) resolvePreconditions(tc *testcase.TestCase) ([]Stmt, error) {
	stmts := make([]Stmt, 0)
	for _, precondition := range tc.Preconditions {
		switch precondition.Kind {
		case testcase.PreconditionTest:
			cached, ok := s.preCode[precondition.Test]
			if !ok {
				return nil, fmt.Errorf("%w: test %s: precondition Test_%d() refers to a test that is not defined before it",
					swerr.ErrConfiguration, tc.ID(), precondition.Test)
			}
			stmts = append(stmts, Comment(fmt.Sprintf("Test_%s", testcase.FormatID(precondition.Test))))
			stmts = append(stmts, cached...)
		case testcase.PreconditionReset:
			file := precondition.File
			if file == "" {
				file = tc.File
			}
			resets, ok := s.lookupResets(file)
			if !ok {
				return nil, fmt.Errorf("%w: test %s: no reset list for %s, it is not a stubbed source",
					swerr.ErrConfiguration, tc.ID(), file)
			}
			stmts = append(stmts, Comment("reset "+filepath.Base(file)))
			for _, reset := range resets {
				stmts = append(stmts, Line(reset))
			}
		default:
			stmts = append(stmts, Line(precondition.Statement))
		}
	}
	return stmts, nil
}

func (s *Synthesizer) lookupResets(file string) ([]string, bool) {
	if s.resets == nil {
		return nil, false
	}
	return s.resets.Lookup(file)
}

// Returns the cycle statements of a test, and the same statements without the
// output rows for the pre-code cache.
func (s *Synthesizer) cycles(tc *testcase.TestCase) ([]Stmt, []Stmt) {
	body := make([]Stmt, 0)
	cached := make([]Stmt, 0)
	emit := func(stmt Stmt) {
		body = append(body, stmt)
		cached = append(cached, stmt)
	}
	calls := func() {
		for _, call := range tc.Calls {
			emit(Line(call))
		}
	}
	row := printRow(tc.Expected.Variables)

	if tc.Indexed {
		for _, input := range tc.Inputs {
			if input.Cycle == 0 {
				emit(Line(input.Statement))
			}
		}
		for cycle := 1; cycle <= tc.Cycle; cycle++ {
			emit(Comment(fmt.Sprintf("cycle %d", cycle)))
			for _, input := range tc.Inputs {
				if input.Cycle == cycle {
					emit(Line(input.Statement))
				}
			}
			calls()
			body = append(body, row)
		}
		return body, cached
	}

	for _, input := range tc.Inputs {
		emit(Line(input.Statement))
	}
	for cycle := 1; cycle <= tc.Cycle; cycle++ {
		calls()
		body = append(body, row)
	}
	return body, cached
}

// Wraps the test body with the CSV file handling.
func (s *Synthesizer) wrap(tc *testcase.TestCase, body []Stmt) []Stmt {
	path := filepath.ToSlash(filepath.Join(s.resultDir, tc.CsvName()))
	stmts := []Stmt{
		OpenFile{Var: fileVar, Path: path},
		If{Condition: fileVar + " == NULL", Body: []Stmt{Return{}}},
		Fprintf{Var: fileVar, Format: strings.Join(tc.Expected.Variables, separator) + "\n"},
	}
	stmts = append(stmts, body...)
	return append(stmts, CloseFile{Var: fileVar})
}

func printRow(variables []string) Fprintf {
	formats := make([]string, len(variables))
	for i := range variables {
		formats[i] = valueFormat
	}
	return Fprintf{
		Var:    fileVar,
		Format: strings.Join(formats, separator) + "\n",
		Args:   variables,
	}
}

func concat(a, b []Stmt) []Stmt {
	out := make([]Stmt, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
