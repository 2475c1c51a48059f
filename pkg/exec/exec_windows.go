//go:build windows

package exec

import (
	"errors"
	"os"
	"os/exec"
)

// Exec runs argv as a child with inherited stdio and waits for it, since
// Windows cannot replace the running process. A non-zero exit becomes
// *ExitError.
func (e *RealExecutor) Exec(argv []string) error {
	binary, err := resolve(argv)
	if err != nil {
		return err
	}
	cmd := exec.Command(binary, argv[1:]...) // #nosec G204 -- user-supplied command line
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	cmd.Env = environ()

	var exitErr *exec.ExitError
	if err := cmd.Run(); errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode()}
	} else if err != nil {
		return err
	}
	return nil
}
