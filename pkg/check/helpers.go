package check

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// escapePattern matches terminal escape sequences emitted by CLIs that ignore
// NO_COLOR when they think they are attached to a terminal: OSC strings, CSI
// sequences (possibly truncated) and the short ESC forms such as charset
// designators (ESC ( B) and keypad modes (ESC =).
var escapePattern = regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\|$)|\x1b\[[0-?]*[ -/]*[@-~]?|\x1b[ -/]*[0-~]?`)

// controlPattern matches C0 and C1 control characters other than tab and
// newline, plus DEL.
var controlPattern = regexp.MustCompile(`[\x00-\x08\x0b-\x1f\x7f\x{80}-\x{9f}]`)

// stripEscapes removes escape sequences and control characters. 8-bit CSI
// (0x9b, raw or as U+009B) is rewritten to ESC [ first so it is stripped
// with its parameters, and bytes that are not valid UTF-8 are dropped.
func stripEscapes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			if s[i] == 0x9b {
				b.WriteString("\x1b[")
			}
		case r == 0x9b:
			b.WriteString("\x1b[")
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return controlPattern.ReplaceAllString(escapePattern.ReplaceAllString(b.String(), ""), "")
}

const fallbackMessage = "No details available"

// CleanMessage strips terminal escape sequences and surrounding whitespace.
// Only the first line is kept. An empty result becomes a generic placeholder
// so that a Result message is never blank.
func CleanMessage(msg string) string {
	if i := strings.IndexAny(msg, "\r\n"); i >= 0 {
		msg = msg[:i]
	}
	msg = strings.TrimSpace(stripEscapes(msg))
	if msg == "" {
		return fallbackMessage
	}
	return msg
}

// Pass sets the result to OK status with a message.
func (r *Result) Pass(msg string) Result {
	r.Status = StatusOK
	r.Kind = ""
	r.Message = CleanMessage(msg)
	r.Err = nil
	return *r
}

// Fail sets the result to failed status with a kind and message.
func (r *Result) Fail(kind Kind, msg string, err error) Result {
	r.Status = StatusFail
	r.Kind = kind
	r.Message = CleanMessage(msg)
	r.Err = err
	return *r
}

// Failf sets the result to failed status with a formatted message.
func (r *Result) Failf(kind Kind, format string, args ...interface{}) Result {
	return r.Fail(kind, fmt.Sprintf(format, args...), fmt.Errorf(format, args...))
}

// AddDetail appends a detail line to the result.
func (r *Result) AddDetail(detail string) *Result {
	r.Details = append(r.Details, stripEscapes(detail))
	return r
}

// AddDetailf appends a formatted detail line to the result.
func (r *Result) AddDetailf(format string, args ...interface{}) *Result {
	return r.AddDetail(fmt.Sprintf(format, args...))
}
