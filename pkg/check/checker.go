package check

import "context"

// Checker is implemented by all check types.
// Each check observes the authentication state of one external tool
// and returns a Result indicating success or failure.
//
// Implementations:
//   - azcheck.Check: Azure CLI account
//   - azcheck.TokenCheck: Azure SDK token acquisition
//   - ghcheck.Check: GitHub CLI auth status
//   - gitcheck.Check: global git identity
type Checker interface {
	Run(ctx context.Context) Result
}
