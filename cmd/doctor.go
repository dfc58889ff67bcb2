package cmd

import (
	"errors"
	"os"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"github.com/webunittest/swtest/pkg/options"
	"github.com/webunittest/swtest/pkg/pipeline"
	"github.com/webunittest/swtest/pkg/swerr"
	"github.com/webunittest/swtest/pkg/toolchain"
)

const (
	checkOK     = "ok"
	checkFailed = "failed"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the settings, the compiler, the project and the test table",
	RunE:  executeDoctor,
}

func executeDoctor(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	failed := false
	tbl := table.New("Check", "Status", "Detail").WithWriter(cmd.OutOrStdout())
	report := func(check, detail string, err error) {
		if err != nil {
			failed = true
			tbl.AddRow(check, checkFailed, err.Error())
			return
		}
		tbl.AddRow(check, checkOK, detail)
	}

	report("settings", settingsPath, s.ValidateBuild())

	version, err := toolchain.Version(cmd.Context(), s.Compiler)
	report("compiler", version, err)

	if info, err := os.Stat(s.ProjectPath); err != nil || !info.IsDir() {
		report("project", "", swerr.ErrMissingProjectPath)
	} else {
		report("project", s.ProjectPath, nil)
	}

	_, err = options.Parse(s.CompilationOption)
	report("compilation option", s.CompilationOption, err)

	tests, err := pipeline.DecodeTable(s.TestCaseFile)
	report("test table", s.TestCaseFile, err)
	if err == nil {
		tbl.AddRow("tests", checkOK, len(tests))
	}

	tbl.Print()
	if failed {
		return errors.New("some checks failed")
	}
	return nil
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}
