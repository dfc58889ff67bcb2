package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/webunittest/swtest/pkg/analyze"
	"github.com/webunittest/swtest/pkg/driver"
	"github.com/webunittest/swtest/pkg/options"
	"github.com/webunittest/swtest/pkg/runner"
	"github.com/webunittest/swtest/pkg/settings"
	"github.com/webunittest/swtest/pkg/stub"
	"github.com/webunittest/swtest/pkg/swerr"
	"github.com/webunittest/swtest/pkg/testcase"
)

const (
	WorkbookSuffix = "_SW_TestCase.xlsx"
	filePerm       = 0o644
)

// Generator runs the stub, driver, build and execution stages for one settings
// file and keeps what each stage produced.
type Generator struct {
	Settings settings.Settings
	Logger   zerolog.Logger
	// Now names the run directory.
	Now func() time.Time

	State  State
	Status bool
	RunID  string
	RunDir string
	// Tests are the decoded test cases in table order, each carrying its
	// expected results.
	Tests        []*testcase.TestCase
	Stubs        *stub.Result
	DriverPath   string
	Outcome      runner.Outcome
	Verdicts     []analyze.Verdict
	WorkbookPath string
}

func New(s settings.Settings) *Generator {
	return &Generator{
		Settings: s,
		Logger:   log.Logger,
		Now:      time.Now,
		State:    StateIdle,
	}
}

// Runs every stage up to the CSV artifacts. Generation errors are returned;
// a failed build or run only leaves Status false.
func (g *Generator) Run(ctx context.Context) error {
	if err := g.Settings.ValidateBuild(); err != nil {
		return err
	}
	if err := g.GenerateStubs(); err != nil {
		return err
	}
	if err := g.WriteDriver(); err != nil {
		return err
	}
	return g.Build(ctx)
}

// Recreates the stub directory from the project.
func (g *Generator) GenerateStubs() error {
	g.Status = false
	if err := g.Settings.Validate(); err != nil {
		return err
	}
	opts, err := options.Parse(g.Settings.CompilationOption)
	if err != nil {
		return err
	}

	orchestrator := stub.NewOrchestrator(stub.Config{
		ProjectPath: g.Settings.ProjectPath,
		StubPath:    g.Settings.StubPath,
		SourceFiles: g.Settings.SourceFiles,
		StubFiles:   g.Settings.StubbedSources(),
		HeaderFiles: g.Settings.HeaderFiles,
		Options:     opts,
	})
	orchestrator.Logger = g.Logger
	result, err := orchestrator.Run()
	if err != nil {
		return err
	}

	g.Stubs = result
	g.State = StateStubsGenerated
	g.Logger.Info().Str("stub", result.Dir).Int("sources", len(result.Sources)).Msg("Stubs generated")
	return nil
}

// Writes the driver for the test table into the stub directory and creates the
// run directory its tests write to. Nothing is created if a row is rejected.
func (g *Generator) WriteDriver() error {
	if g.State != StateStubsGenerated {
		return fmt.Errorf("%w: the driver needs generated stubs, the run is %s", swerr.ErrConfiguration, g.State)
	}
	rows, err := testcase.LoadTable(g.Settings.TestCaseFile)
	if err != nil {
		return err
	}
	opts, err := options.Parse(g.Settings.CompilationOption)
	if err != nil {
		return err
	}

	resultPath, err := filepath.Abs(g.Settings.ResultPath)
	if err != nil {
		return fmt.Errorf("%w: invalid result path %q", swerr.ErrConfiguration, g.Settings.ResultPath)
	}
	runID, runDir, err := runner.NextRunID(resultPath, g.Now())
	if err != nil {
		return err
	}

	synthesizer := driver.NewSynthesizer(runDir, g.Stubs.Includes(), opts.Define, g.Stubs.Resets)
	for _, row := range rows {
		if _, err := synthesizer.Add(row); err != nil {
			return err
		}
	}

	var b strings.Builder
	if err := synthesizer.TranslationUnit().Render(&b); err != nil {
		return fmt.Errorf("rendering driver: %w", err)
	}
	if _, err := runner.MakeRunDir(resultPath, runID); err != nil {
		return err
	}
	g.RunID, g.RunDir = runID, runDir
	g.Logger = g.Logger.With().Str("run", runID).Logger()
	path := filepath.Join(g.Stubs.Dir, g.Settings.DriverFile)
	if err := os.WriteFile(path, []byte(b.String()), filePerm); err != nil {
		return fmt.Errorf("%w: writing driver %s: %v", swerr.ErrProjectAccess, path, err)
	}

	g.Tests = synthesizer.Tests()
	g.DriverPath = path
	g.State = StateDriverWritten
	g.Logger.Info().Str("driver", path).Int("tests", len(g.Tests)).Msg("Driver written")
	return nil
}

// Compiles the stub directory and runs the tests.
func (g *Generator) Build(ctx context.Context) error {
	if g.State != StateDriverWritten {
		return fmt.Errorf("%w: building needs a written driver, the run is %s", swerr.ErrConfiguration, g.State)
	}
	if err := g.Settings.ValidateBuild(); err != nil {
		return err
	}

	r := runner.New(runner.Config{
		Compiler:  g.Settings.Compiler,
		Flags:     g.Settings.GccOption,
		ExeSuffix: g.Settings.ExeSuffix,
		StubDir:   g.Stubs.Dir,
		RunDir:    g.RunDir,
		Timeout:   g.Settings.RunTimeout,
	})
	r.Logger = g.Logger
	outcome, err := r.Run(ctx)
	if err != nil {
		return err
	}
	g.Outcome = outcome
	g.State = StateCompiled
	if !outcome.Status {
		g.Logger.Error().Str("log", outcome.LogPath).Msg("Build or execution failed")
		return nil
	}

	g.State = StateExecuted
	g.Status = true
	measurements, err := analyze.Load(g.RunDir)
	if err != nil {
		return err
	}
	if len(measurements) == 0 {
		g.Logger.Warn().Str("results", g.RunDir).Msg("Test executable wrote no CSV files")
		return nil
	}
	g.State = StateCsvArtifactsReady
	g.Logger.Info().Str("results", g.RunDir).Int("files", len(measurements)).Msg("CSV artifacts ready")
	return nil
}

// Scores the CSV artifacts of the run and writes the result workbook when the
// test table is a workbook. It refuses to run after a failed build.
func (g *Generator) Analyze() error {
	if !g.Status {
		return fmt.Errorf("%w: no results to analyze, see %s", swerr.ErrCompile, g.Outcome.LogPath)
	}
	verdicts, err := AnalyzeRun(g.RunDir, g.Tests)
	if err != nil {
		return err
	}
	g.Verdicts = verdicts

	if IsWorkbook(g.Settings.TestCaseFile) {
		path := filepath.Join(filepath.Dir(g.RunDir), g.RunID+WorkbookSuffix)
		if err := analyze.WriteWorkbook(g.Settings.TestCaseFile, path, verdicts); err != nil {
			return err
		}
		g.WorkbookPath = path
		g.Logger.Info().Str("workbook", path).Msg("Result workbook written")
	}

	summary := analyze.Summarize(verdicts)
	g.Logger.Info().Int("passed", summary.Passed).Int("failed", summary.Failed).Msg(summary.String())
	return nil
}

// Scores the CSV files of a run directory against the tests.
func AnalyzeRun(runDir string, tests []*testcase.TestCase) ([]analyze.Verdict, error) {
	measurements, err := analyze.Load(runDir)
	if err != nil {
		return nil, err
	}
	return analyze.Score(tests, measurements)
}

// Loads and decodes the test table without generating anything.
func DecodeTable(path string) ([]*testcase.TestCase, error) {
	rows, err := testcase.LoadTable(path)
	if err != nil {
		return nil, err
	}
	tests := make([]*testcase.TestCase, 0, len(rows))
	for _, row := range rows {
		tc, err := testcase.Decode(row)
		if err != nil {
			return nil, err
		}
		tests = append(tests, tc)
	}
	return tests, nil
}

// Returns whether the test table is a spreadsheet that can carry results.
func IsWorkbook(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".xlsx" || ext == ".xlsm"
}
