//go:build unix

package exec

import (
	"fmt"
	"syscall"
)

var execFunc = syscall.Exec

// Exec replaces the current process image. argv[0] stays the name the user
// typed, not the resolved path.
func (e *RealExecutor) Exec(argv []string) error {
	binary, err := resolve(argv)
	if err != nil {
		return err
	}
	// #nosec G204 -- the wrapped command comes from the user's own command line.
	if err := execFunc(binary, argv, environ()); err != nil {
		return fmt.Errorf("exec %s: %w", argv[0], err)
	}
	return nil
}
