package analyze

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/webunittest/swtest/pkg/swerr"
	"github.com/webunittest/swtest/pkg/testcase"
)

// Scores every test against its CSV output. The tests and measurements must
// pair up one to one by test number; otherwise nothing is scored and an
// ErrResultMismatch is returned.
func Score(tests []*testcase.TestCase, measurements []Measurement) ([]Verdict, error) {
	if len(tests) != len(measurements) {
		return nil, fmt.Errorf("%w: expected results for %d tests but found %d CSV files",
			swerr.ErrResultMismatch, len(tests), len(measurements))
	}
	byTest := make(map[int]Measurement, len(measurements))
	for _, m := range measurements {
		byTest[m.Test] = m
	}

	verdicts := make([]Verdict, 0, len(tests))
	for _, tc := range tests {
		m, ok := byTest[tc.Number]
		if !ok {
			return nil, fmt.Errorf("%w: no CSV file for test %s", swerr.ErrResultMismatch, tc.ID())
		}
		verdicts = append(verdicts, ScoreTest(tc, m))
	}
	return verdicts, nil
}

// Scores one test. Expectations tied to a cycle read that row, the others read
// the last row.
func ScoreTest(tc *testcase.TestCase, m Measurement) Verdict {
	verdict := Verdict{
		Test:        tc.Number,
		Result:      ResultPass,
		Measured:    make([]string, 0),
		Diagnostics: make([]string, 0),
	}
	if tc.Expected.Count() == 0 {
		verdict.Result = ResultFail
		verdict.Diagnostics = append(verdict.Diagnostics, "no expected values")
		return verdict
	}

	for _, cycle := range tc.Expected.Cycles {
		prefix := ""
		if cycle != testcase.LastRow {
			prefix = strconv.Itoa(cycle) + ") "
		}
		for _, expectation := range tc.Expected.ByCycle[cycle] {
			value, err := m.Value(expectation.Variable, cycle)
			if err != nil {
				verdict.Result = ResultFail
				verdict.Diagnostics = append(verdict.Diagnostics, err.Error())
				continue
			}
			verdict.Measured = append(verdict.Measured, prefix+expectation.Variable+" = "+value)
			if !ValuesEqual(expectation.Value, value) {
				verdict.Result = ResultFail
			}
		}
	}
	return verdict
}

// Compares an expected and a measured value as integers when both parse,
// otherwise as text. Expected values may use any Go integer literal base.
func ValuesEqual(expected, measured string) bool {
	expected = strings.TrimSpace(expected)
	measured = strings.TrimSpace(measured)
	want, errWant := strconv.ParseInt(expected, 0, 64)
	got, errGot := strconv.ParseInt(measured, 10, 64)
	if errWant == nil && errGot == nil {
		return want == got
	}
	return expected == measured
}
