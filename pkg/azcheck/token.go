package azcheck

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/vertti/devauth/pkg/check"
	"github.com/vertti/devauth/pkg/probe"
)

// TokenName is the report label for the SDK token check.
const TokenName = "Azure token"

// ManagementScope is the Azure Resource Manager scope requested by default.
const ManagementScope = "https://management.azure.com/.default"

// TokenCheck verifies that the cached Azure CLI login can still mint an
// access token. The token itself is discarded.
type TokenCheck struct {
	Credential azcore.TokenCredential // nil = azidentity.AzureCLICredential
	Scopes     []string               // default: ManagementScope
	Timeout    time.Duration          // default: 10s
	Runner     probe.Runner           // resolves az before the SDK shells out to it
}

// NewCLICredential returns the SDK credential backed by `az account get-access-token`.
// The context passed to GetToken bounds the az invocation.
func NewCLICredential() (azcore.TokenCredential, error) {
	return azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{})
}

// Run executes the token check.
func (c *TokenCheck) Run(ctx context.Context) check.Result {
	result := check.Result{Name: TokenName}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	runner := c.Runner
	if runner == nil {
		runner = &probe.RealRunner{}
	}
	// The SDK reports a missing az as an unavailable credential, which would
	// read as "not authenticated".
	if _, err := runner.LookPath("az"); err != nil {
		return probe.Failure(TokenName, Name, &probe.Error{Kind: check.KindNotInstalled, Tool: Name, Err: err})
	}

	cred := c.Credential
	if cred == nil {
		var err error
		if cred, err = NewCLICredential(); err != nil {
			return result.Fail(check.KindUnknown, fmt.Sprintf("Error checking authentication: %v", err), err)
		}
	}

	scopes := c.Scopes
	if len(scopes) == 0 {
		scopes = []string{ManagementScope}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	token, err := cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: scopes})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return result.Fail(check.KindTimedOut, "Authentication check timed out", err)
		}
		var authErr *azidentity.AuthenticationFailedError
		if errors.As(err, &authErr) {
			result.AddDetail("token request rejected by Microsoft Entra ID")
		}
		return result.Fail(check.KindNotAuthenticated, "Not authenticated. "+Hint, err)
	}

	result.AddDetailf("scopes: %v", scopes)
	return result.Pass(fmt.Sprintf("Token acquired (expires %s)", token.ExpiresOn.UTC().Format(time.RFC3339)))
}
