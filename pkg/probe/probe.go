// Package probe runs bounded, single-shot external commands that observe
// authentication state and classifies their outcome into a check.Result.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"github.com/vertti/devauth/pkg/check"
)

// DefaultTimeout applies when a Request leaves Timeout unset.
const DefaultTimeout = 10 * time.Second

// Request describes one probe invocation.
type Request struct {
	Name    string        // result name; defaults to Tool
	Tool    string        // display name used in "<Tool> not installed"
	Command []string      // argv, Command[0] is looked up in PATH
	Timeout time.Duration // upper bound for the whole call
	Hint    string        // remediation shown when the tool reports failure

	// Parse turns successful output into the result message. Extra detail
	// lines may be appended to result. A nil Parse yields "Authenticated".
	Parse func(out Output, result *check.Result) (string, error)
}

func (req Request) name() string {
	if req.Name != "" {
		return req.Name
	}
	return req.Tool
}

func (req Request) timeout() time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	return DefaultTimeout
}

// Capture locates and runs the command under the request timeout.
// Non-zero exit codes are returned as data; errors are always *Error.
func Capture(ctx context.Context, r Runner, req Request) (Output, error) {
	if len(req.Command) == 0 || req.Command[0] == "" {
		return Output{}, &Error{Kind: check.KindUnknown, Tool: req.Tool, Err: errors.New("empty command")}
	}

	if _, err := r.LookPath(req.Command[0]); err != nil {
		return Output{}, &Error{Kind: check.KindNotInstalled, Tool: req.Tool, Err: err}
	}

	timeout := req.timeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := r.Run(ctx, req.Command[0], req.Command[1:]...)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return out, &Error{Kind: check.KindTimedOut, Tool: req.Tool,
				Err: fmt.Errorf("%s timed out after %s", req.Command[0], timeout)}
		case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
			return out, &Error{Kind: check.KindNotInstalled, Tool: req.Tool, Err: err}
		default:
			return out, &Error{Kind: check.KindUnknown, Tool: req.Tool, Err: err}
		}
	}
	return out, nil
}

// Run performs the full probe: capture, exit-code classification and
// output parsing. It never panics; unexpected faults become KindUnknown.
func Run(ctx context.Context, r Runner, req Request) (result check.Result) {
	result = check.Result{Name: req.name()}

	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("panic: %v", p)
			result = check.Result{Name: req.name(), Details: result.Details}
			result = result.Fail(check.KindUnknown, unknownMessage(fmt.Errorf("%v", p)), err)
		}
	}()

	out, err := Capture(ctx, r, req)
	if err != nil {
		failed := Failure(req.name(), req.Tool, err)
		failed.Details = result.Details
		return failed
	}

	if out.ExitCode != 0 {
		if stderr := strings.TrimSpace(out.Stderr); stderr != "" {
			result.AddDetailf("stderr: %s", firstLine(stderr))
		}
		return result.Fail(check.KindNotAuthenticated, notAuthenticatedMessage(req.Hint),
			fmt.Errorf("%s exited with status %d", strings.Join(req.Command, " "), out.ExitCode))
	}

	if req.Parse == nil {
		return result.Pass("Authenticated")
	}

	msg, err := req.Parse(out, &result)
	if err != nil {
		if errors.Is(err, ErrMalformedOutput) {
			return result.Fail(check.KindMalformedOutput, err.Error(), err)
		}
		return result.Fail(check.KindUnknown, unknownMessage(err), err)
	}
	return result.Pass(msg)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
