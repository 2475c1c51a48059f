// Package report runs registered checks in order and aggregates their results.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vertti/devauth/pkg/check"
)

// Entry registers a check under a display name. The name labels the result
// when the check panics before producing one.
type Entry struct {
	Name  string
	Check check.Checker
}

// Report is the ordered outcome of one run.
type Report struct {
	RunID   string
	Started time.Time
	Results []check.Result
}

// Passed reports whether every result is OK. An empty report passes.
func (r Report) Passed() bool {
	for _, res := range r.Results {
		if !res.OK() {
			return false
		}
	}
	return true
}

// Failed returns the results that did not pass, in order.
func (r Report) Failed() []check.Result {
	var failed []check.Result
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// ExitCode is 0 when all checks passed and 1 otherwise.
func (r Report) ExitCode() int {
	if r.Passed() {
		return 0
	}
	return 1
}

// Run executes entries sequentially under a fresh run ID. onResult, if
// non-nil, is called after each check so output can stream. A failing check
// never stops later ones.
func Run(ctx context.Context, entries []Entry, onResult func(check.Result)) Report {
	return RunWithID(ctx, uuid.NewString(), entries, onResult)
}

// RunWithID is Run with a caller-chosen run ID, so log lines emitted during
// the run can carry the same ID as the report.
func RunWithID(ctx context.Context, runID string, entries []Entry, onResult func(check.Result)) Report {
	rep := Report{
		RunID:   runID,
		Started: time.Now(),
		Results: make([]check.Result, 0, len(entries)),
	}

	for _, e := range entries {
		res := runOne(ctx, e)
		rep.Results = append(rep.Results, res)
		if onResult != nil {
			onResult(res)
		}
	}
	return rep
}

func runOne(ctx context.Context, e Entry) (res check.Result) {
	defer func() {
		if p := recover(); p != nil {
			res = check.Result{Name: e.Name}
			res.Fail(check.KindUnknown, fmt.Sprintf("Error checking authentication: %v", p), fmt.Errorf("panic: %v", p))
		}
	}()

	res = e.Check.Run(ctx)
	if res.Name == "" {
		res.Name = e.Name
	}
	return res
}
