package check

// Status represents the outcome of a check.
type Status string

const (
	StatusOK   Status = "OK"
	StatusFail Status = "FAIL"
)

// Kind classifies why a check failed. It is empty for passing results.
type Kind string

const (
	KindNotAuthenticated Kind = "not_authenticated" // tool ran and reported failure
	KindNotInstalled     Kind = "not_installed"     // executable not found in PATH
	KindTimedOut         Kind = "timed_out"         // external call exceeded its bound
	KindMalformedOutput  Kind = "malformed_output"  // exit 0 but output could not be parsed
	KindUnknown          Kind = "unknown"           // anything else
)

// Result holds the outcome of a single authentication check.
type Result struct {
	Name    string   // e.g., "Azure CLI", "Git Configuration"
	Status  Status   // OK or FAIL
	Kind    Kind     // failure classification
	Message string   // one-line human-readable summary
	Details []string // extra lines, shown in verbose and JSON output
	Err     error    // underlying error for failures
}

// OK returns true if the check passed.
func (r Result) OK() bool {
	return r.Status == StatusOK
}
