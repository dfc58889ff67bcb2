package analyze

import (
	"fmt"
	"strings"

	"github.com/rodaine/table"
	"github.com/webunittest/swtest/pkg/testcase"
)

const (
	ResultFail Result = 0
	ResultPass Result = 1
)

type Result uint8

func (r Result) String() string {
	switch r {
	case ResultFail:
		return "Fail"
	case ResultPass:
		return "Pass"
	default:
		return "unknown"
	}
}

// Verdict is the scored outcome of one test.
type Verdict struct {
	Test   int
	Result Result
	// Measured holds one `var = value` line per expectation, prefixed with the
	// cycle for indexed expectations.
	Measured []string
	// Diagnostics explain missing columns or rows.
	Diagnostics []string
}

// Returns the text of the Measured column: measured values, then diagnostics.
func (v Verdict) MeasuredText() string {
	return strings.Join(v.lines(), "\n")
}

func (v Verdict) lines() []string {
	lines := make([]string, 0, len(v.Measured)+len(v.Diagnostics))
	lines = append(lines, v.Measured...)
	return append(lines, v.Diagnostics...)
}

// Summary counts the verdicts of a run.
type Summary struct {
	Passed      int
	Failed      int
	FailedTests []int
}

func Summarize(verdicts []Verdict) Summary {
	summary := Summary{FailedTests: make([]int, 0)}
	for _, verdict := range verdicts {
		if verdict.Result == ResultPass {
			summary.Passed++
			continue
		}
		summary.Failed++
		summary.FailedTests = append(summary.FailedTests, verdict.Test)
	}
	return summary
}

func (s Summary) String() string {
	if s.Failed == 0 {
		return "all tests passed"
	}
	ids := make([]string, 0, len(s.FailedTests))
	for _, test := range s.FailedTests {
		ids = append(ids, fmt.Sprint(test))
	}
	if len(ids) == 1 {
		return "test " + ids[0] + " failed"
	}
	return "tests " + strings.Join(ids, ", ") + " failed"
}

// Returns a printable table of the verdicts.
func Table(verdicts []Verdict) table.Table {
	tbl := table.New("Test", "Result", "Measured")
	for _, verdict := range verdicts {
		tbl.AddRow(
			testcase.FormatID(verdict.Test),
			verdict.Result,
			strings.Join(verdict.lines(), "; "),
		)
	}
	return tbl
}
