package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertti/devauth/pkg/check"
)

// MockRunner is a test double for Runner.
type MockRunner struct {
	LookPathFunc func(file string) (string, error)
	RunFunc      func(ctx context.Context, name string, args ...string) (Output, error)
}

func (m *MockRunner) LookPath(file string) (string, error) {
	if m.LookPathFunc == nil {
		return "/usr/bin/" + file, nil
	}
	return m.LookPathFunc(file)
}

func (m *MockRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	return m.RunFunc(ctx, name, args...)
}

func returns(out Output, err error) *MockRunner {
	return &MockRunner{
		RunFunc: func(context.Context, string, ...string) (Output, error) { return out, err },
	}
}

func notFound() *MockRunner {
	return &MockRunner{
		LookPathFunc: func(file string) (string, error) {
			return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
		},
		RunFunc: func(context.Context, string, ...string) (Output, error) {
			panic("Run must not be called when the executable is missing")
		},
	}
}

var testRequest = Request{
	Tool:    "Example CLI",
	Command: []string{"example", "auth", "status"},
	Timeout: time.Second,
	Hint:    "Run 'example login' to authenticate.",
}

func TestRun(t *testing.T) {
	tests := []struct {
		name        string
		runner      Runner
		parse       func(Output, *check.Result) (string, error)
		wantOK      bool
		wantKind    check.Kind
		wantMessage string
	}{
		{
			name:        "exit zero without parser",
			runner:      returns(Output{}, nil),
			wantOK:      true,
			wantMessage: "Authenticated",
		},
		{
			name:   "exit zero with parser",
			runner: returns(Output{Stdout: "alice\n"}, nil),
			parse: func(out Output, _ *check.Result) (string, error) {
				return "Authenticated as: " + out.Stdout, nil
			},
			wantOK:      true,
			wantMessage: "Authenticated as: alice",
		},
		{
			name:        "non-zero exit",
			runner:      returns(Output{ExitCode: 1, Stderr: "please log in"}, nil),
			wantKind:    check.KindNotAuthenticated,
			wantMessage: "Not authenticated. Run 'example login' to authenticate.",
		},
		{
			name:        "executable missing",
			runner:      notFound(),
			wantKind:    check.KindNotInstalled,
			wantMessage: "Example CLI not installed",
		},
		{
			name:        "not found while starting",
			runner:      returns(Output{}, &exec.Error{Name: "example", Err: exec.ErrNotFound}),
			wantKind:    check.KindNotInstalled,
			wantMessage: "Example CLI not installed",
		},
		{
			name:        "deadline exceeded",
			runner:      returns(Output{}, context.DeadlineExceeded),
			wantKind:    check.KindTimedOut,
			wantMessage: "Authentication check timed out",
		},
		{
			name:        "wrapped deadline exceeded",
			runner:      returns(Output{}, fmt.Errorf("wait: %w", context.DeadlineExceeded)),
			wantKind:    check.KindTimedOut,
			wantMessage: "Authentication check timed out",
		},
		{
			name:        "other runner error",
			runner:      returns(Output{}, errors.New("permission denied")),
			wantKind:    check.KindUnknown,
			wantMessage: "Error checking authentication: permission denied",
		},
		{
			name:   "malformed output",
			runner: returns(Output{Stdout: "<html>"}, nil),
			parse: func(Output, *check.Result) (string, error) {
				return "", Malformed("Could not parse Example CLI output")
			},
			wantKind:    check.KindMalformedOutput,
			wantMessage: "Could not parse Example CLI output",
		},
		{
			name:   "parser error",
			runner: returns(Output{}, nil),
			parse: func(Output, *check.Result) (string, error) {
				return "", errors.New("boom")
			},
			wantKind:    check.KindUnknown,
			wantMessage: "Error checking authentication: boom",
		},
		{
			name:   "parser panic",
			runner: returns(Output{}, nil),
			parse: func(Output, *check.Result) (string, error) {
				var m map[string]int
				m["x"]++
				return "", nil
			},
			wantKind: check.KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest
			req.Parse = tt.parse

			result := Run(context.Background(), tt.runner, req)

			assert.Equal(t, tt.wantOK, result.OK(), "message: %s", result.Message)
			assert.Equal(t, tt.wantKind, result.Kind)
			assert.Equal(t, "Example CLI", result.Name)
			assert.NotEmpty(t, result.Message)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, result.Message)
			}
			if !tt.wantOK {
				assert.Error(t, result.Err)
			}
		})
	}
}

func TestRun_ParserPanicMessage(t *testing.T) {
	req := testRequest
	req.Parse = func(Output, *check.Result) (string, error) { panic("unexpected shape") }

	result := Run(context.Background(), returns(Output{}, nil), req)

	assert.False(t, result.OK())
	assert.Equal(t, "Error checking authentication: unexpected shape", result.Message)
}

func TestRun_StderrDetailOnFailure(t *testing.T) {
	result := Run(context.Background(), returns(Output{ExitCode: 2, Stderr: "not logged in\nmore"}, nil), testRequest)

	assert.Equal(t, []string{"stderr: not logged in"}, result.Details)
}

func TestRun_ParserDetails(t *testing.T) {
	req := testRequest
	req.Parse = func(_ Output, r *check.Result) (string, error) {
		r.AddDetail("tenant: contoso")
		return "ok", nil
	}

	result := Run(context.Background(), returns(Output{}, nil), req)

	assert.Equal(t, []string{"tenant: contoso"}, result.Details)
}

func TestRun_NameOverride(t *testing.T) {
	req := testRequest
	req.Name = "Example"

	result := Run(context.Background(), notFound(), req)

	assert.Equal(t, "Example", result.Name)
	assert.Equal(t, "Example CLI not installed", result.Message)
}

func TestCapture_PassesArgvAndDeadline(t *testing.T) {
	var gotName string
	var gotArgs []string
	var hadDeadline bool
	runner := &MockRunner{
		RunFunc: func(ctx context.Context, name string, args ...string) (Output, error) {
			gotName, gotArgs = name, args
			_, hadDeadline = ctx.Deadline()
			return Output{ExitCode: 3}, nil
		},
	}

	out, err := Capture(context.Background(), runner, testRequest)

	require.NoError(t, err)
	assert.Equal(t, 3, out.ExitCode)
	assert.Equal(t, "example", gotName)
	assert.Equal(t, []string{"auth", "status"}, gotArgs)
	assert.True(t, hadDeadline)
}

func TestCapture_DefaultTimeout(t *testing.T) {
	var remaining time.Duration
	runner := &MockRunner{
		RunFunc: func(ctx context.Context, _ string, _ ...string) (Output, error) {
			deadline, _ := ctx.Deadline()
			remaining = time.Until(deadline)
			return Output{}, nil
		},
	}
	req := testRequest
	req.Timeout = 0

	_, err := Capture(context.Background(), runner, req)

	require.NoError(t, err)
	assert.InDelta(t, DefaultTimeout.Seconds(), remaining.Seconds(), 1)
}

func TestCapture_EmptyCommand(t *testing.T) {
	_, err := Capture(context.Background(), &MockRunner{}, Request{Tool: "x"})

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, check.KindUnknown, pe.Kind)
}

func TestCapture_ErrorKinds(t *testing.T) {
	_, err := Capture(context.Background(), notFound(), testRequest)
	assert.ErrorIs(t, err, &Error{Kind: check.KindNotInstalled})
	assert.ErrorIs(t, err, exec.ErrNotFound)

	_, err = Capture(context.Background(), returns(Output{}, context.DeadlineExceeded), testRequest)
	assert.ErrorIs(t, err, &Error{Kind: check.KindTimedOut, Tool: "Example CLI"})
	assert.NotErrorIs(t, err, &Error{Kind: check.KindTimedOut, Tool: "Other"})
}

func TestCapture_CancelledParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &MockRunner{
		RunFunc: func(ctx context.Context, _ string, _ ...string) (Output, error) {
			return Output{}, ctx.Err()
		},
	}

	result := Run(ctx, runner, testRequest)

	assert.Equal(t, check.KindUnknown, result.Kind)
	assert.Equal(t, "Error checking authentication: context canceled", result.Message)
}

func TestFailure_NonProbeError(t *testing.T) {
	result := Failure("Git Configuration", "Git", errors.New("odd"))

	assert.Equal(t, "Git Configuration", result.Name)
	assert.Equal(t, check.KindUnknown, result.Kind)
	assert.Equal(t, "Error checking authentication: odd", result.Message)
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: check.KindTimedOut, Tool: "GitHub CLI", Err: errors.New("gh timed out after 10s")}
	assert.Equal(t, "[timed_out] GitHub CLI: gh timed out after 10s", err.Error())

	bare := &Error{Kind: check.KindNotInstalled, Tool: "Git"}
	assert.Equal(t, "[not_installed] Git", bare.Error())
}

func TestMalformed(t *testing.T) {
	err := Malformed("Could not parse")

	assert.ErrorIs(t, err, ErrMalformedOutput)
	assert.Equal(t, "Could not parse", err.Error())
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", err), ErrMalformedOutput)
}

func TestOutput_Combined(t *testing.T) {
	out := Output{Stdout: "a\n", Stderr: "b\n"}
	assert.Equal(t, "a\nb\n", out.Combined())
}
