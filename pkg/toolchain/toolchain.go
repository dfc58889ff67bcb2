package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/webunittest/swtest/pkg/swerr"
)

const versionFlag = "--version"

// Returns whether the compiler is found on the search path.
func IsAvailable(compiler string) bool {
	_, err := exec.LookPath(compiler)
	return err == nil
}

// Returns the full path of the compiler.
func Locate(compiler string) (string, error) {
	path, err := exec.LookPath(compiler)
	if err != nil {
		return "", fmt.Errorf("%w: compiler %q not found on the search path: %v", swerr.ErrConfiguration, compiler, err)
	}
	return path, nil
}

// Returns the first line the compiler prints for --version.
func Version(ctx context.Context, compiler string) (string, error) {
	path, err := Locate(compiler)
	if err != nil {
		return "", err
	}
	output, err := exec.CommandContext(ctx, path, versionFlag).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("running %s %s: %w", compiler, versionFlag, err)
	}
	first, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\n")
	return strings.TrimSpace(first), nil
}
