package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/webunittest/swtest/pkg/analyze"
	"github.com/webunittest/swtest/pkg/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [run_id]",
	Short: "Score the CSV files of an earlier run against the test table",
	Args:  cobra.ExactArgs(1),
	RunE:  executeAnalyze,
}

func executeAnalyze(cmd *cobra.Command, args []string) error {
	runID := args[0]
	s, err := loadSettings()
	if err != nil {
		return err
	}
	tests, err := pipeline.DecodeTable(s.TestCaseFile)
	if err != nil {
		return err
	}
	verdicts, err := pipeline.AnalyzeRun(filepath.Join(s.ResultPath, runID), tests)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	analyze.Table(verdicts).WithWriter(out).Print()
	fmt.Fprintln(out, analyze.Summarize(verdicts))
	if pipeline.IsWorkbook(s.TestCaseFile) {
		path := filepath.Join(s.ResultPath, runID+pipeline.WorkbookSuffix)
		if err := analyze.WriteWorkbook(s.TestCaseFile, path, verdicts); err != nil {
			return err
		}
		fmt.Fprintln(out, "results written to", path)
	}
	return nil
}

func init() {
	RootCmd.AddCommand(analyzeCmd)
}
