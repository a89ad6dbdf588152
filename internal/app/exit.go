package app

import (
	"context"
	"fmt"

	"probekit/internal/errors"
)

// Process exit codes.
const (
	ExitOK        = 0
	ExitNoMatch   = 1 // default for design runs that accept no probe
	ExitUsage     = 2
	ExitRuntime   = 3
	ExitTool      = 4 // alignment tool missing or failed
	ExitCancelled = 130
)

// exitError ends a run with a chosen code without being reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// usageError marks bad command lines.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, a ...any) error { return usageError{fmt.Errorf(format, a...)} }

var errNoProbes = errors.NewStd("no probes passed the design criteria")

// ExitCode maps the error of a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var ue usageError
	if errors.As(err, &ue) {
		return ExitUsage
	}
	if errors.Is(err, context.Canceled) {
		return ExitCancelled
	}
	switch errors.CategoryOf(err) {
	case errors.CategoryCancellation:
		return ExitCancelled
	case errors.CategoryValidation, errors.CategoryConfiguration:
		return ExitUsage
	case errors.CategoryCommandExecution:
		return ExitTool
	}
	return ExitRuntime
}
