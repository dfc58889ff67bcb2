package swerr

import (
	"errors"
	"fmt"
)

// Error categories surfaced to the user. Call sites wrap them with the offending
// detail, so callers match with errors.Is.
var (
	ErrConfiguration  = errors.New("configuration error")
	ErrProjectAccess  = errors.New("project access error")
	ErrCompile        = errors.New("compile error")
	ErrResultMismatch = errors.New("result mismatch")
	ErrPartialRow     = errors.New("partial row")
)

// Returned when the configured project root does not exist.
var ErrMissingProjectPath = fmt.Errorf("%w: project path does not exist", ErrProjectAccess)
