// Package setup runs the post-authentication tasks for a fresh devcontainer.
package setup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vertti/devauth/pkg/check"
	"github.com/vertti/devauth/pkg/output"
	"github.com/vertti/devauth/pkg/probe"
	"github.com/vertti/devauth/pkg/workspace"
)

// DefaultTimeout bounds each setup command.
const DefaultTimeout = 30 * time.Second

// ErrStepFailed is returned by a task whose required command failed.
// The step has already been reported, so callers only record the task name.
var ErrStepFailed = errors.New("setup step failed")

// Task is one named unit of setup work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Setup holds the collaborators shared by all tasks.
type Setup struct {
	Runner        probe.Runner
	Printer       *output.Printer
	Timeout       time.Duration // per command (default: 30s)
	WorkspaceRoot string        // default: workspace.DefaultRoot
	Log           *zap.Logger   // optional
}

func (s *Setup) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// RunCommand runs argv, reports the outcome under description and returns
// whether it exited 0.
func (s *Setup) RunCommand(ctx context.Context, description string, argv ...string) bool {
	s.Printer.Step(description)

	timeout := s.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	tool := ""
	if len(argv) > 0 {
		tool = argv[0]
	}
	out, err := probe.Capture(ctx, s.Runner, probe.Request{
		Tool:    tool,
		Command: argv,
		Timeout: timeout,
	})
	if err != nil {
		s.logger().Debug("setup command failed", zap.Strings("argv", argv), zap.Error(err))
		var pe *probe.Error
		switch {
		case errors.As(err, &pe) && pe.Kind == check.KindTimedOut:
			s.Printer.StepTimedOut()
		case errors.As(err, &pe) && pe.Kind == check.KindNotInstalled:
			s.Printer.StepError(fmt.Sprintf("%s not installed", tool))
		case errors.As(err, &pe) && pe.Err != nil:
			s.Printer.StepError(pe.Err.Error())
		default:
			s.Printer.StepError(err.Error())
		}
		return false
	}

	if out.ExitCode != 0 {
		s.Printer.StepFailed(out.Stderr)
		return false
	}
	s.Printer.StepOK(out.Stdout)
	return true
}

// AzureResources lists subscriptions (required) and shows the current one.
func (s *Setup) AzureResources(ctx context.Context) error {
	s.Printer.Section("📦", "Setting up Azure resources")

	if !s.RunCommand(ctx, "Listing Azure subscriptions", "az", "account", "list", "--output", "table") {
		return ErrStepFailed
	}
	s.RunCommand(ctx, "Showing current Azure subscription", "az", "account", "show", "--output", "table")
	return nil
}

// GitHubConfig confirms the GitHub API is reachable with the current login.
func (s *Setup) GitHubConfig(ctx context.Context) error {
	s.Printer.Section("🐙", "Setting up GitHub configuration")

	if !s.RunCommand(ctx, "Getting GitHub user info", "gh", "api", "user", "--jq", ".login") {
		return ErrStepFailed
	}
	return nil
}

// SampleWorkspace scaffolds the workspace directories and README.
func (s *Setup) SampleWorkspace(_ context.Context) error {
	s.Printer.Section("📁", "Creating sample workspace")

	root := s.WorkspaceRoot
	if root == "" {
		root = workspace.DefaultRoot
	}
	created, err := workspace.Scaffold(root)
	for _, path := range created {
		s.Printer.Created(path)
	}
	if err != nil {
		return err
	}
	if len(created) == 0 {
		s.Printer.Line("  Workspace already present: " + root)
	}
	return nil
}

// Tasks returns the default task list in execution order.
func (s *Setup) Tasks() []Task {
	return []Task{
		{Name: "Azure Resources", Run: s.AzureResources},
		{Name: "GitHub Configuration", Run: s.GitHubConfig},
		{Name: "Sample Workspace", Run: s.SampleWorkspace},
	}
}

// RunTasks executes every task in order and returns the names of those that
// failed. Unexpected errors and panics are reported and do not stop the run.
func (s *Setup) RunTasks(ctx context.Context, tasks []Task) []string {
	var failed []string
	for _, task := range tasks {
		if err := s.runTask(ctx, task); err != nil {
			if !errors.Is(err, ErrStepFailed) {
				s.Printer.Line(fmt.Sprintf("❌ Error in %s: %v", task.Name, err))
			}
			s.logger().Info("setup task failed", zap.String("task", task.Name), zap.Error(err))
			failed = append(failed, task.Name)
		}
	}
	return failed
}

func (s *Setup) runTask(ctx context.Context, task Task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return task.Run(ctx)
}
