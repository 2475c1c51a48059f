// Package gitcheck verifies that git has a global identity configured.
package gitcheck

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vertti/devauth/pkg/check"
	"github.com/vertti/devauth/pkg/probe"
)

const (
	Name = "Git Configuration"
	Tool = "Git"

	DefaultTimeout = 5 * time.Second
)

// Check verifies global git user.name and user.email.
type Check struct {
	Timeout time.Duration // per sub-probe timeout (default: 5s)
	Runner  probe.Runner  // injected for testing
}

// Run executes the git config check.
func (c *Check) Run(ctx context.Context) check.Result {
	result := check.Result{
		Name: Name,
	}

	name, err := c.configGet(ctx, "user.name")
	if err != nil {
		return probe.Failure(Name, Tool, err)
	}
	email, err := c.configGet(ctx, "user.email")
	if err != nil {
		return probe.Failure(Name, Tool, err)
	}

	switch {
	case name != "" && email != "":
		return result.Pass(fmt.Sprintf("Configured as: %s <%s>", name, email))
	case name != "":
		return result.Failf(check.KindNotAuthenticated,
			"Git email not configured. Set with: git config --global user.email 'you@example.com'")
	case email != "":
		return result.Failf(check.KindNotAuthenticated,
			"Git name not configured. Set with: git config --global user.name 'Your Name'")
	default:
		return result.Failf(check.KindNotAuthenticated,
			"Git not configured. Set with: git config --global user.name/user.email")
	}
}

// configGet reads a global config key. git exits 1 for unset keys, which is
// reported as an empty value rather than an error.
func (c *Check) configGet(ctx context.Context, key string) (string, error) {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	out, err := probe.Capture(ctx, c.Runner, probe.Request{
		Tool:    Tool,
		Command: []string{"git", "config", "--global", key},
		Timeout: timeout,
	})
	if err != nil {
		return "", err
	}
	if out.ExitCode != 0 {
		return "", nil
	}
	return strings.TrimSpace(out.Stdout), nil
}
