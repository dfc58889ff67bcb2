package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/webunittest/swtest/pkg/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the stubs and the test driver without compiling",
	RunE:  executeGenerate,
}

func executeGenerate(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	g := pipeline.New(s)
	if err := g.GenerateStubs(); err != nil {
		return err
	}
	if err := g.WriteDriver(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d tests, results in %s\n", g.DriverPath, len(g.Tests), g.RunDir)
	return nil
}

func init() {
	RootCmd.AddCommand(generateCmd)
}
