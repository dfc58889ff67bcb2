package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/webunittest/swtest/pkg/settings"
)

var (
	settingsPath string
	verbose      bool
	projectPath  string
	testsPath    string
	stubDir      string
	resultDir    string
)

var RootCmd = &cobra.Command{
	Use:   "swtest",
	Short: "Generate, build and score C unit tests from a test table",
	Long: "Generates a stubbed copy of a C project and a test driver from a test table,\n" +
		"compiles and runs it, then compares the captured CSV output with the expected values.\n" +
		"Settings are read from a YAML file, see --settings.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// Loads the settings file and applies the path overrides given on the command line.
func loadSettings() (settings.Settings, error) {
	s, err := settings.Load(settingsPath)
	if err != nil {
		return s, err
	}
	overrides := []struct {
		value string
		field *string
	}{
		{projectPath, &s.ProjectPath},
		{testsPath, &s.TestCaseFile},
		{stubDir, &s.StubPath},
		{resultDir, &s.ResultPath},
	}
	for _, override := range overrides {
		if override.value != "" {
			*override.field = override.value
		}
	}
	return s, nil
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&settingsPath, "settings", settings.DefaultSettingsFile, "settings file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&projectPath, "project", "", "project root, overrides project_path")
	flags.StringVar(&testsPath, "tests", "", "test table, overrides test_case_file")
	flags.StringVar(&stubDir, "stub-dir", "", "stub directory, overrides stub_path")
	flags.StringVar(&resultDir, "result-dir", "", "result root, overrides result_path")
}
