// Package exec hands the process over to a wrapped command once every
// authentication check has passed.
package exec

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrNoCommand is returned when Exec is called with an empty argv.
var ErrNoCommand = errors.New("no command given")

// Executor replaces the running process with argv. On success Exec does not
// return (Unix) or returns the child's outcome (Windows).
type Executor interface {
	Exec(argv []string) error
}

// ExitError carries the exit status of a child that ran to completion but
// failed. Only platforms without process replacement produce it.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// RealExecutor resolves argv[0] on PATH and hands off to it with the current
// environment.
type RealExecutor struct{}

// Swapped in tests so nothing is actually replaced.
var (
	lookPath = exec.LookPath
	environ  = os.Environ
)

func resolve(argv []string) (string, error) {
	if len(argv) == 0 || argv[0] == "" {
		return "", ErrNoCommand
	}
	binary, err := lookPath(argv[0])
	if err != nil {
		return "", fmt.Errorf("cannot run %s: %w", argv[0], err)
	}
	return binary, nil
}
