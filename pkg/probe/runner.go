package probe

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// Output is what a finished external command left behind.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Combined returns stdout followed by stderr. Some CLIs (gh) write
// status text to stderr even on success.
func (o Output) Combined() string {
	return o.Stdout + o.Stderr
}

// Runner abstracts command execution for testability.
//
// A non-zero exit status is not an error: it is reported through
// Output.ExitCode. Run returns an error only when the command could not be
// started or was interrupted, in which case ctx.Err() must be returned if the
// context ended.
type Runner interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

// waitDelay bounds how long Run waits for inherited pipes to close after the
// process has been killed.
const waitDelay = time.Second

// RealRunner implements Runner using actual OS commands.
type RealRunner struct{}

// LookPath searches for an executable in PATH.
func (r *RealRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and captures its output. Stdin is left unset so the
// child reads from the null device.
func (r *RealRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- argv is fixed per check
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	out := Output{Stdout: outBuf.String(), Stderr: errBuf.String()}

	// A killed process surfaces as an ExitError, so the context wins.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	return out, err
}

// loggingRunner records every invocation at debug level.
type loggingRunner struct {
	next Runner
	log  *zap.Logger
}

// WithLogging wraps a Runner so each lookup and invocation is logged.
func WithLogging(next Runner, log *zap.Logger) Runner {
	if log == nil {
		return next
	}
	return &loggingRunner{next: next, log: log}
}

func (l *loggingRunner) LookPath(file string) (string, error) {
	path, err := l.next.LookPath(file)
	if err != nil {
		l.log.Debug("executable not found", zap.String("file", file), zap.Error(err))
		return path, err
	}
	l.log.Debug("executable resolved", zap.String("file", file), zap.String("path", path))
	return path, nil
}

func (l *loggingRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	start := time.Now()
	out, err := l.next.Run(ctx, name, args...)
	fields := []zap.Field{
		zap.Strings("argv", append([]string{name}, args...)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("exit_code", out.ExitCode),
		zap.Int("stdout_bytes", len(out.Stdout)),
		zap.Int("stderr_bytes", len(out.Stderr)),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	l.log.Debug("command finished", fields...)
	return out, err
}
