// Package azcheck observes Azure authentication state through the Azure CLI
// and, optionally, the Azure SDK CLI credential.
package azcheck

import (
	"context"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/vertti/devauth/pkg/check"
	"github.com/vertti/devauth/pkg/probe"
)

const (
	// Name is the report label for the CLI check.
	Name = "Azure CLI"
	// Hint is the remediation shown for unauthenticated sessions.
	Hint = "Run 'az login' to authenticate."

	DefaultTimeout = 10 * time.Second
)

// Check verifies that the Azure CLI has an active account.
type Check struct {
	Timeout time.Duration // timeout for az account show (default: 10s)
	Runner  probe.Runner  // injected for testing
}

// Run executes the Azure CLI check.
func (c *Check) Run(ctx context.Context) check.Result {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return probe.Run(ctx, c.Runner, probe.Request{
		Tool:    Name,
		Command: []string{"az", "account", "show", "--output", "json"},
		Timeout: timeout,
		Hint:    Hint,
		Parse:   ParseAccount,
	})
}

// ParseAccount extracts the signed-in identity from `az account show` JSON.
// Subscription and tenant are added as details when present.
func ParseAccount(out probe.Output, result *check.Result) (string, error) {
	doc := out.Stdout
	if !gjson.Valid(doc) || !gjson.Parse(doc).IsObject() {
		return "", probe.Malformed("Could not parse Azure CLI output")
	}

	user := gjson.Get(doc, "user.name").String()
	if user == "" {
		user = "Unknown"
	}

	if sub := gjson.Get(doc, "name").String(); sub != "" {
		if id := gjson.Get(doc, "id").String(); id != "" {
			result.AddDetailf("subscription: %s (%s)", sub, id)
		} else {
			result.AddDetailf("subscription: %s", sub)
		}
	}
	if tenant := gjson.Get(doc, "tenantId").String(); tenant != "" {
		result.AddDetailf("tenant: %s", tenant)
	}

	return fmt.Sprintf("Authenticated as: %s", user), nil
}
