package stub

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/webunittest/swtest/cparser"
	"github.com/webunittest/swtest/pkg/options"
	"github.com/webunittest/swtest/pkg/swerr"
)

const (
	sourceExt = ".c"
	headerExt = ".h"
	filePerm  = 0o644
	dirPerm   = 0o755
)

// VariableResetTable maps a stubbed source file name to the statements that zero
// its global variables.
type VariableResetTable map[string][]string

// Returns the reset list of a source file, looked up by base name.
func (t VariableResetTable) Lookup(sourceFile string) ([]string, bool) {
	resets, ok := t[filepath.Base(sourceFile)]
	return resets, ok
}

type Config struct {
	ProjectPath string
	StubPath    string
	// SourceFiles are copied into the stub directory.
	SourceFiles []string
	// StubFiles are the source files that go through the full rewrite. The rest of
	// the source files only get option based line deletion.
	StubFiles []string
	// HeaderFiles get option based line deletion. Empty means every copied header.
	HeaderFiles []string
	Options     options.CompileOptions
}

// Result describes a generated stub directory.
type Result struct {
	Dir     string
	Sources []string
	Headers []string
	Resets  VariableResetTable
	Externs map[string][]string
}

// Returns the header includes matching the copied sources, e.g. Motor_ctrl.h.
// Sources without a header in the stub directory are skipped.
func (r *Result) Includes() []string {
	includes := make([]string, 0, len(r.Sources))
	for _, source := range r.Sources {
		header := headerFor(source)
		if _, err := os.Stat(filepath.Join(r.Dir, header)); err != nil {
			continue
		}
		includes = append(includes, header)
	}
	return includes
}

// Orchestrator copies a project's sources and headers into an isolated stub
// directory and rewrites them there. The project tree is never modified.
type Orchestrator struct {
	Config
	Logger zerolog.Logger
}

func NewOrchestrator(cfg Config) *Orchestrator {
	return &Orchestrator{
		Config: cfg,
		Logger: log.Logger,
	}
}

// Recreates the stub directory from scratch and fills it with rewritten files.
func (o *Orchestrator) Run() (*Result, error) {
	projectPath, stubPath, err := o.paths()
	if err != nil {
		return nil, err
	}
	logger := o.Logger.With().Str("project", projectPath).Str("stub", stubPath).Logger()

	if err := os.RemoveAll(stubPath); err != nil {
		return nil, fmt.Errorf("%w: removing %s: %v", swerr.ErrProjectAccess, stubPath, err)
	}
	if err := os.MkdirAll(stubPath, dirPerm); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", swerr.ErrProjectAccess, stubPath, err)
	}

	sources, headers, err := o.collect(projectPath, stubPath)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Dir:     stubPath,
		Sources: make([]string, 0, len(o.SourceFiles)),
		Resets:  make(VariableResetTable),
		Externs: make(map[string][]string),
	}
	for _, file := range append(sources, headers...) {
		if err := copyFile(file, filepath.Join(stubPath, filepath.Base(file))); err != nil {
			return nil, err
		}
	}
	for _, source := range o.SourceFiles {
		result.Sources = append(result.Sources, filepath.Base(source))
	}
	logger.Info().Int("sources", len(sources)).Int("headers", len(headers)).Msg("Copied project files")

	filter := cparser.NewImplementationFilter(o.SourceFiles, o.Options.Insert)
	for _, source := range result.Sources {
		path := filepath.Join(stubPath, source)
		if !slices.Contains(o.stubFiles(), source) {
			if err := o.deleteOptionLines(path); err != nil {
				return nil, err
			}
			continue
		}

		stubbed, err := o.stubSource(path, filter)
		if err != nil {
			return nil, err
		}
		result.Resets[source] = stubbed.Resets
		result.Externs[source] = stubbed.Externs
		if err := appendExterns(filepath.Join(stubPath, headerFor(source)), stubbed.Externs, logger); err != nil {
			return nil, err
		}
		logger.Debug().Str("file", source).
			Int("resets", len(stubbed.Resets)).
			Int("externs", len(stubbed.Externs)).
			Msg("Stubbed source")
	}

	result.Headers = o.headersToFilter(headers)
	for _, header := range result.Headers {
		if err := o.deleteOptionLines(filepath.Join(stubPath, header)); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Resolves the project and stub paths and refuses a stub path that would delete the project.
func (o *Orchestrator) paths() (string, string, error) {
	projectPath, err := filepath.Abs(o.ProjectPath)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", swerr.ErrMissingProjectPath, o.ProjectPath)
	}
	if info, err := os.Stat(projectPath); err != nil || !info.IsDir() {
		return "", "", fmt.Errorf("%w: %s", swerr.ErrMissingProjectPath, o.ProjectPath)
	}
	stubPath, err := filepath.Abs(o.StubPath)
	if err != nil || o.StubPath == "" {
		return "", "", fmt.Errorf("%w: invalid stub path %q", swerr.ErrConfiguration, o.StubPath)
	}
	if isWithin(projectPath, stubPath) {
		return "", "", fmt.Errorf("%w: stub path %s contains the project %s", swerr.ErrConfiguration, stubPath, projectPath)
	}
	return projectPath, stubPath, nil
}

// Walks the project and returns the configured source files and every header.
// The stub directory is skipped when it lives inside the project.
func (o *Orchestrator) collect(projectPath, stubPath string) ([]string, []string, error) {
	var sources, headers []string
	found := make(map[string]bool)

	err := filepath.WalkDir(projectPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == stubPath {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		switch {
		case strings.HasSuffix(name, sourceExt) && o.isSource(name):
			if found[name] {
				o.Logger.Warn().Str("file", name).Str("path", path).Msg("Duplicate source name, the last copy wins")
			}
			found[name] = true
			sources = append(sources, path)
		case strings.HasSuffix(name, headerExt):
			headers = append(headers, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: walking %s: %v", swerr.ErrProjectAccess, projectPath, err)
	}

	missing := make([]string, 0)
	for _, source := range o.SourceFiles {
		if !found[filepath.Base(source)] {
			missing = append(missing, source)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: source files not found in %s: %s", swerr.ErrProjectAccess, projectPath, strings.Join(missing, ", "))
	}
	return sources, headers, nil
}

func (o *Orchestrator) isSource(name string) bool {
	for _, source := range o.SourceFiles {
		if filepath.Base(source) == name {
			return true
		}
	}
	return false
}

func (o *Orchestrator) stubFiles() []string {
	if len(o.StubFiles) == 0 {
		return baseNames(o.SourceFiles)
	}
	return baseNames(o.StubFiles)
}

func (o *Orchestrator) headersToFilter(copied []string) []string {
	if len(o.HeaderFiles) > 0 {
		return baseNames(o.HeaderFiles)
	}
	names := baseNames(copied)
	slices.Sort(names)
	return slices.Compact(names)
}

func (o *Orchestrator) stubSource(path string, filter cparser.ImplementationFilter) (cparser.StubResult, error) {
	lines, err := readLines(path)
	if err != nil {
		return cparser.StubResult{}, err
	}
	stubbed := cparser.StubSource(o.Options.DeleteLines(lines), filter)
	content := append(o.Options.DefineLines(), stubbed.Lines...)
	return stubbed, writeLines(path, content)
}

func (o *Orchestrator) deleteOptionLines(path string) error {
	if len(o.Options.Delete) == 0 {
		return nil
	}
	lines, err := readLines(path)
	if err != nil {
		return err
	}
	return writeLines(path, o.Options.DeleteLines(lines))
}

// Appends the extern declarations to the header, creating it when the project has none.
func appendExterns(path string, externs []string, logger zerolog.Logger) error {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: reading %s: %v", swerr.ErrProjectAccess, path, err)
	}
	if os.IsNotExist(err) {
		logger.Warn().Str("header", filepath.Base(path)).Msg("Header not found, creating it")
	}
	if len(externs) == 0 && err == nil {
		return nil
	}

	text := string(content)
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	for _, extern := range externs {
		text += extern + "\n"
	}
	if err := os.WriteFile(path, []byte(text), filePerm); err != nil {
		return fmt.Errorf("%w: writing %s: %v", swerr.ErrProjectAccess, path, err)
	}
	return nil
}

func headerFor(source string) string {
	return strings.TrimSuffix(filepath.Base(source), sourceExt) + headerExt
}

func baseNames(files []string) []string {
	names := make([]string, 0, len(files))
	for _, file := range files {
		names = append(names, filepath.Base(file))
	}
	return names
}

// Returns whether path is dir or inside it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func readLines(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", swerr.ErrProjectAccess, path, err)
	}
	return cparser.SplitLines(string(content)), nil
}

func writeLines(path string, lines []string) error {
	if err := os.WriteFile(path, []byte(cparser.JoinLines(lines)), filePerm); err != nil {
		return fmt.Errorf("%w: writing %s: %v", swerr.ErrProjectAccess, path, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", swerr.ErrProjectAccess, src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", swerr.ErrProjectAccess, dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("%w: copying %s: %v", swerr.ErrProjectAccess, src, err)
	}
	return nil
}
