package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/webunittest/swtest/pkg/swerr"
)

const (
	CompileLogFileName = "error.log"
	OutputLogFileName  = "output.log"
	filePerm           = 0o644
	waitDelay          = 2 * time.Second
)

type Config struct {
	// Compiler is the executable invoked with Flags, e.g. gcc.
	Compiler string
	// Flags is the compiler flag string. The token ending in ExeSuffix names the
	// executable it produces.
	Flags     string
	ExeSuffix string
	// StubDir is the working directory of both the compiler and the executable.
	StubDir string
	// RunDir receives the compiler and program logs.
	RunDir string
	// Timeout bounds the executable. Zero means no limit.
	Timeout time.Duration
}

// Outcome reports how a build and run went. A failed compile is not an error,
// it shows up as a false Status and the compiler output in LogPath.
type Outcome struct {
	Status     bool
	Executable string
	LogPath    string
	OutputPath string
}

type Runner struct {
	Config
	Logger zerolog.Logger
}

func New(cfg Config) *Runner {
	return &Runner{
		Config: cfg,
		Logger: log.Logger,
	}
}

// Compiles the stub directory and runs the produced executable.
// Only configuration problems are returned as errors.
func (r *Runner) Run(ctx context.Context) (Outcome, error) {
	args, err := shlex.Split(r.Flags)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: invalid compiler flags %q: %v", swerr.ErrConfiguration, r.Flags, err)
	}
	token, ok := ExecutableToken(args, r.ExeSuffix)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: compiler flags %q name no file ending in %s", swerr.ErrConfiguration, r.Flags, r.ExeSuffix)
	}
	executable := token
	if !filepath.IsAbs(executable) {
		executable = filepath.Join(r.StubDir, executable)
	}
	outcome := Outcome{
		Executable: executable,
		LogPath:    filepath.Join(r.RunDir, CompileLogFileName),
		OutputPath: filepath.Join(r.RunDir, OutputLogFileName),
	}
	logger := r.Logger.With().Str("executable", filepath.Base(executable)).Logger()

	if err := os.Remove(executable); err != nil && !os.IsNotExist(err) {
		return outcome, fmt.Errorf("%w: removing stale executable %s: %v", swerr.ErrProjectAccess, executable, err)
	}

	logger.Info().Str("compiler", r.Compiler).Msg("Compiling driver")
	if err := r.execute(ctx, outcome.LogPath, r.Compiler, args...); err != nil {
		logger.Warn().Err(err).Msg("Compiler returned an error")
	}
	if !isFile(executable) {
		logger.Error().Str("log", outcome.LogPath).Msg("Compilation did not produce the executable")
		return outcome, nil
	}

	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	logger.Info().Msg("Running tests")
	err = r.execute(runCtx, outcome.OutputPath, executable)
	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		logger.Error().Dur("timeout", r.Timeout).Msg("Test executable timed out")
		return outcome, nil
	case isStartError(err):
		logger.Error().Err(err).Msg("Could not start test executable")
		return outcome, nil
	case err != nil:
		logger.Warn().Err(err).Msg("Test executable exited with an error")
	}

	outcome.Status = true
	return outcome, nil
}

// Runs a process in the stub directory with its output written to logPath.
func (r *Runner) execute(ctx context.Context, logPath, name string, args ...string) error {
	logFile, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", swerr.ErrProjectAccess, logPath, err)
	}
	defer logFile.Close()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.StubDir
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.WaitDelay = waitDelay
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(logFile, "\n%s: %v\n", filepath.Base(name), err)
		return err
	}
	return nil
}

// Returns the last token ending in suffix.
func ExecutableToken(args []string, suffix string) (string, bool) {
	if suffix == "" {
		return "", false
	}
	for i := len(args) - 1; i >= 0; i-- {
		if strings.HasSuffix(args[i], suffix) && len(args[i]) > len(suffix) {
			return args[i], true
		}
	}
	return "", false
}

// Returns whether the process never started, as opposed to exiting with an error.
func isStartError(err error) bool {
	if err == nil {
		return false
	}
	var exitErr *exec.ExitError
	return !errors.As(err, &exitErr)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
