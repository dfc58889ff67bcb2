package cmd

import (
	"strings"

	"github.com/rodaine/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/webunittest/swtest/pkg/options"
)

var optionsCmd = &cobra.Command{
	Use:   "options [option_string]",
	Short: "Show how a compilation option string is parsed",
	Long: "Show the delete, insert and define tokens of a compilation option string.\n" +
		"Without an argument the compilation_option of the settings file is used.",
	Args: cobra.MaximumNArgs(1),
	RunE: executeOptions,
}

func executeOptions(cmd *cobra.Command, args []string) error {
	var optionString string
	if len(args) == 1 {
		optionString = args[0]
	} else {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		optionString = s.CompilationOption
	}

	opts, err := options.Parse(optionString)
	if err != nil {
		return err
	}
	if opts.IsEmpty() {
		log.Warn().Str("option", optionString).Msg("No -D, -I or -A tokens found")
	}
	tbl := table.New("Flag", "Meaning", "Values").WithWriter(cmd.OutOrStdout())
	tbl.AddRow("-D", "delete lines containing", strings.Join(opts.Delete, " "))
	tbl.AddRow("-I", "keep declarations mentioning", strings.Join(opts.Insert, " "))
	tbl.AddRow("-A", "define", strings.Join(opts.DefineLines(), "; "))
	tbl.Print()
	return nil
}

func init() {
	RootCmd.AddCommand(optionsCmd)
}
