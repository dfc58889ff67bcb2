package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/webunittest/swtest/pkg/analyze"
	"github.com/webunittest/swtest/pkg/pipeline"
	"github.com/webunittest/swtest/pkg/swerr"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate, compile and run the tests, then score the results",
	RunE:  executeRun,
}

func executeRun(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	g := pipeline.New(s)
	if err := g.Run(cmd.Context()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !g.Status {
		if compilerLog, err := os.ReadFile(g.Outcome.LogPath); err == nil {
			fmt.Fprint(out, string(compilerLog))
		}
		return fmt.Errorf("%w: build failed, see %s", swerr.ErrCompile, g.Outcome.LogPath)
	}
	if err := g.Analyze(); err != nil {
		return err
	}

	analyze.Table(g.Verdicts).WithWriter(out).Print()
	fmt.Fprintln(out, analyze.Summarize(g.Verdicts))
	if g.WorkbookPath != "" {
		fmt.Fprintln(out, "results written to", g.WorkbookPath)
	}
	return nil
}

func init() {
	RootCmd.AddCommand(runCmd)
}
