package probe

import (
	"errors"
	"fmt"

	"github.com/vertti/devauth/pkg/check"
)

// ErrMalformedOutput marks a Parse failure on an otherwise successful command.
var ErrMalformedOutput = errors.New("malformed output")

// Error is a categorized probe failure. Kind decides the user-facing message.
type Error struct {
	Kind check.Kind
	Tool string // display name, e.g. "Azure CLI"
	Err  error  // underlying cause
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Tool)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind && (t.Tool == "" || t.Tool == e.Tool)
	}
	return false
}

type malformedError struct {
	msg string
}

func (e *malformedError) Error() string        { return e.msg }
func (e *malformedError) Is(target error) bool { return target == ErrMalformedOutput }

// Malformed returns a parse error carrying a user-facing message.
func Malformed(msg string) error {
	return &malformedError{msg: msg}
}

// Failure converts a Capture error into a failed Result named name.
func Failure(name, tool string, err error) check.Result {
	result := check.Result{Name: name}

	var pe *Error
	if !errors.As(err, &pe) {
		return result.Fail(check.KindUnknown, unknownMessage(err), err)
	}

	switch pe.Kind {
	case check.KindNotInstalled:
		return result.Fail(pe.Kind, fmt.Sprintf("%s not installed", tool), err)
	case check.KindTimedOut:
		return result.Fail(pe.Kind, "Authentication check timed out", err)
	default:
		return result.Fail(check.KindUnknown, unknownMessage(pe.Err), err)
	}
}

func unknownMessage(cause error) string {
	if cause == nil {
		return "Error checking authentication: unknown error"
	}
	return fmt.Sprintf("Error checking authentication: %v", cause)
}

func notAuthenticatedMessage(hint string) string {
	if hint == "" {
		return "Not authenticated."
	}
	return "Not authenticated. " + hint
}
