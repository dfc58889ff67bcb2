package runner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/webunittest/swtest/pkg/swerr"
)

const (
	RunIDFormat = "20060102_150405"
	dirPerm     = 0o755
)

// Returns the first run id for the time that has no directory under resultRoot
// yet, and that directory. A second run in the same second gets a _2, _3...
// suffix. Nothing is created.
func NextRunID(resultRoot string, now time.Time) (string, string, error) {
	base := now.Format(RunIDFormat)
	id := base
	for n := 2; ; n++ {
		dir := filepath.Join(resultRoot, id)
		_, err := os.Stat(dir)
		if errors.Is(err, fs.ErrNotExist) {
			return id, dir, nil
		}
		if err != nil {
			return "", "", fmt.Errorf("%w: checking run directory %s: %v", swerr.ErrProjectAccess, dir, err)
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}

// Creates the result root if needed and the run directory id inside it. Fails
// if the run directory already exists.
func MakeRunDir(resultRoot, id string) (string, error) {
	if err := os.MkdirAll(resultRoot, dirPerm); err != nil {
		return "", fmt.Errorf("%w: creating result directory %s: %v", swerr.ErrProjectAccess, resultRoot, err)
	}
	dir := filepath.Join(resultRoot, id)
	if err := os.Mkdir(dir, dirPerm); err != nil {
		return "", fmt.Errorf("%w: creating run directory %s: %v", swerr.ErrProjectAccess, dir, err)
	}
	return dir, nil
}
