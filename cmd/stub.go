package cmd

import (
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"github.com/webunittest/swtest/pkg/pipeline"
)

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Recreate the stub directory from the project",
	RunE:  executeStub,
}

func executeStub(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	g := pipeline.New(s)
	if err := g.GenerateStubs(); err != nil {
		return err
	}

	tbl := table.New("File", "Reset").WithWriter(cmd.OutOrStdout())
	for _, source := range g.Stubs.Sources {
		for _, reset := range g.Stubs.Resets[source] {
			tbl.AddRow(source, reset)
		}
	}
	tbl.Print()
	return nil
}

func init() {
	RootCmd.AddCommand(stubCmd)
}
