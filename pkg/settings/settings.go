package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/webunittest/swtest/pkg/swerr"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSettingsFile = "data/setting.yaml"
	DefaultCompiler     = "gcc"
	DefaultStubPath     = "data/stub"
	DefaultResultPath   = "data/result"
	DefaultTestCaseFile = "data/SW_TestCase.xlsx"
	DefaultDriverFile   = "test_driver.c"
	DefaultExeSuffix    = ".exe"
	DefaultRunTimeout   = 60 * time.Second
)

// Settings is the content of the settings file.
type Settings struct {
	ProjectPath       string        `yaml:"project_path"`
	GitBranch         string        `yaml:"git_branch"`
	GccOption         string        `yaml:"gcc_option"`
	CompilationOption string        `yaml:"compilation_option"`
	SourceFiles       []string      `yaml:"source_file"`
	StubFiles         []string      `yaml:"stub_file"`
	HeaderFiles       []string      `yaml:"header_file"`
	Compiler          string        `yaml:"compiler"`
	StubPath          string        `yaml:"stub_path"`
	ResultPath        string        `yaml:"result_path"`
	TestCaseFile      string        `yaml:"test_case_file"`
	DriverFile        string        `yaml:"driver_file"`
	ExeSuffix         string        `yaml:"exe_suffix"`
	RunTimeout        time.Duration `yaml:"run_timeout"`
}

// Returns settings with every optional field set to its default.
func Defaults() Settings {
	return Settings{
		Compiler:     DefaultCompiler,
		StubPath:     DefaultStubPath,
		ResultPath:   DefaultResultPath,
		TestCaseFile: DefaultTestCaseFile,
		DriverFile:   DefaultDriverFile,
		ExeSuffix:    DefaultExeSuffix,
		RunTimeout:   DefaultRunTimeout,
	}
}

// Reads the settings file. Fields missing from the file keep their defaults and
// relative paths are resolved against the directory of the settings file.
func Load(path string) (Settings, error) {
	settings := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("%w: reading settings %s: %v", swerr.ErrConfiguration, path, err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("%w: parsing settings %s: %v", swerr.ErrConfiguration, path, err)
	}
	settings.resolvePaths(filepath.Dir(path))
	return settings, nil
}

func (s *Settings) resolvePaths(base string) {
	for _, p := range []*string{&s.ProjectPath, &s.StubPath, &s.ResultPath, &s.TestCaseFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Returns the source files that go through the full stub rewrite.
// When stub_file is empty every source file is stubbed.
func (s Settings) StubbedSources() []string {
	if len(s.StubFiles) == 0 {
		return slices.Clone(s.SourceFiles)
	}
	return slices.Clone(s.StubFiles)
}

// Validates the settings needed to generate stubs and a driver.
func (s Settings) Validate() error {
	if s.ProjectPath == "" {
		return fmt.Errorf("%w: project_path is empty", swerr.ErrConfiguration)
	}
	if len(s.SourceFiles) == 0 {
		return fmt.Errorf("%w: source_file is empty", swerr.ErrConfiguration)
	}
	for _, stubFile := range s.StubFiles {
		if !slices.Contains(s.SourceFiles, stubFile) {
			return fmt.Errorf("%w: stub_file %s is not listed in source_file", swerr.ErrConfiguration, stubFile)
		}
	}
	if s.StubPath == "" || s.ResultPath == "" {
		return fmt.Errorf("%w: stub_path and result_path must be set", swerr.ErrConfiguration)
	}
	if s.RunTimeout < 0 {
		return fmt.Errorf("%w: run_timeout is negative", swerr.ErrConfiguration)
	}
	return nil
}

// Validates the settings needed to compile and run the driver.
func (s Settings) ValidateBuild() error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Compiler == "" {
		return fmt.Errorf("%w: compiler is empty", swerr.ErrConfiguration)
	}
	if s.GccOption == "" {
		return fmt.Errorf("%w: gcc_option is empty", swerr.ErrConfiguration)
	}
	return nil
}
