package report

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertti/devauth/pkg/check"
)

type checkFunc func(ctx context.Context) check.Result

func (f checkFunc) Run(ctx context.Context) check.Result { return f(ctx) }

func pass(name string) checkFunc {
	return func(context.Context) check.Result {
		r := check.Result{Name: name}
		return r.Pass("ok")
	}
}

func fail(name string) checkFunc {
	return func(context.Context) check.Result {
		r := check.Result{Name: name}
		return r.Failf(check.KindNotAuthenticated, "Not authenticated.")
	}
}

func TestRun_OrderAndAggregate(t *testing.T) {
	tests := []struct {
		name     string
		entries  []Entry
		wantPass bool
		wantExit int
	}{
		{"all pass", []Entry{{"a", pass("a")}, {"b", pass("b")}, {"c", pass("c")}}, true, 0},
		{"first fails", []Entry{{"a", fail("a")}, {"b", pass("b")}, {"c", pass("c")}}, false, 1},
		{"last fails", []Entry{{"a", pass("a")}, {"b", pass("b")}, {"c", fail("c")}}, false, 1},
		{"all fail", []Entry{{"a", fail("a")}, {"b", fail("b")}, {"c", fail("c")}}, false, 1},
		{"empty", nil, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var streamed []string
			rep := Run(context.Background(), tt.entries, func(r check.Result) {
				streamed = append(streamed, r.Name)
			})

			require.Len(t, rep.Results, len(tt.entries))
			for i, e := range tt.entries {
				assert.Equal(t, e.Name, rep.Results[i].Name)
			}
			assert.Len(t, streamed, len(tt.entries))
			assert.Equal(t, tt.wantPass, rep.Passed())
			assert.Equal(t, tt.wantExit, rep.ExitCode())
		})
	}
}

func TestRun_NoFailFast(t *testing.T) {
	calls := 0
	counting := checkFunc(func(context.Context) check.Result {
		calls++
		r := check.Result{Name: "counted"}
		return r.Pass("ok")
	})

	rep := Run(context.Background(), []Entry{{"a", fail("a")}, {"counted", counting}}, nil)

	assert.Equal(t, 1, calls)
	assert.Len(t, rep.Failed(), 1)
	assert.Equal(t, "a", rep.Failed()[0].Name)
}

func TestRun_RecoversPanics(t *testing.T) {
	boom := checkFunc(func(context.Context) check.Result { panic("kaboom") })

	rep := Run(context.Background(), []Entry{{"Boom", boom}, {"after", pass("after")}}, nil)

	require.Len(t, rep.Results, 2)
	assert.Equal(t, "Boom", rep.Results[0].Name)
	assert.Equal(t, check.KindUnknown, rep.Results[0].Kind)
	assert.Equal(t, "Error checking authentication: kaboom", rep.Results[0].Message)
	assert.True(t, rep.Results[1].OK())
}

func TestRun_FillsMissingName(t *testing.T) {
	unnamed := checkFunc(func(context.Context) check.Result {
		var r check.Result
		return r.Pass("ok")
	})

	rep := Run(context.Background(), []Entry{{"Named", unnamed}}, nil)

	assert.Equal(t, "Named", rep.Results[0].Name)
}

func TestRun_RunID(t *testing.T) {
	rep := Run(context.Background(), nil, nil)

	_, err := uuid.Parse(rep.RunID)
	assert.NoError(t, err)
	assert.False(t, rep.Started.IsZero())
}

func TestRunWithID(t *testing.T) {
	rep := RunWithID(context.Background(), "fixed-id", []Entry{{"a", pass("a")}}, nil)

	assert.Equal(t, "fixed-id", rep.RunID)
	assert.Len(t, rep.Results, 1)
}
