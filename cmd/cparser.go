package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/webunittest/swtest/cparser"
	"github.com/webunittest/swtest/pkg/options"
)

var showResets bool

var cparserCmd = &cobra.Command{
	Use: "cparser [source_file] [option_string]",
	Long: `Stub a single C source file and print the result.
The prefixes that keep forward declarations come from the file name and the -I tokens of the
option string. With --resets the reset statements and extern declarations are printed instead.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: executeCParser,
}

func executeCParser(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	fileContent, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	opts := options.CompileOptions{}
	if len(args) == 2 {
		if opts, err = options.Parse(args[1]); err != nil {
			return err
		}
	}

	filter := cparser.NewImplementationFilter([]string{filePath}, opts.Insert)
	result := cparser.StubSource(opts.DeleteLines(cparser.SplitLines(string(fileContent))), filter)

	out := cmd.OutOrStdout()
	if showResets {
		for _, reset := range result.Resets {
			fmt.Fprintln(out, reset)
		}
		for _, extern := range result.Externs {
			fmt.Fprintln(out, extern)
		}
		return nil
	}
	fmt.Fprint(out, cparser.JoinLines(append(opts.DefineLines(), result.Lines...)))
	return nil
}

func init() {
	cparserCmd.Flags().BoolVar(&showResets, "resets", false, "print the reset statements and extern declarations")
	RootCmd.AddCommand(cparserCmd)
}
