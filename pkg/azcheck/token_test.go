package azcheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/vertti/devauth/pkg/check"
	"github.com/vertti/devauth/pkg/probe/probetest"
)

type fakeCredential struct {
	GetTokenFunc func(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error)
}

func (f *fakeCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return f.GetTokenFunc(ctx, opts)
}

// azOnPath returns a runner whose LookPath finds az.
func azOnPath(t *testing.T) *probetest.MockRunner {
	t.Helper()
	m := probetest.NewMockRunner(gomock.NewController(t))
	probetest.Installed(m)
	return m
}

func TestTokenCheck_Acquired(t *testing.T) {
	expires := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	var gotScopes []string
	c := &TokenCheck{Runner: azOnPath(t), Credential: &fakeCredential{
		GetTokenFunc: func(_ context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
			gotScopes = opts.Scopes
			return azcore.AccessToken{Token: "secret-token", ExpiresOn: expires}, nil
		},
	}}

	result := c.Run(context.Background())

	assert.True(t, result.OK())
	assert.Equal(t, TokenName, result.Name)
	assert.Equal(t, "Token acquired (expires 2026-10-14T12:00:00Z)", result.Message)
	assert.Equal(t, []string{ManagementScope}, gotScopes)
	assert.NotContains(t, result.Message, "secret-token")
	for _, d := range result.Details {
		assert.NotContains(t, d, "secret-token")
	}
}

func TestTokenCheck_CustomScopes(t *testing.T) {
	var gotScopes []string
	c := &TokenCheck{
		Runner: azOnPath(t),
		Scopes: []string{"https://cognitiveservices.azure.com/.default"},
		Credential: &fakeCredential{
			GetTokenFunc: func(_ context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
				gotScopes = opts.Scopes
				return azcore.AccessToken{ExpiresOn: time.Now().Add(time.Hour)}, nil
			},
		},
	}

	c.Run(context.Background())

	assert.Equal(t, []string{"https://cognitiveservices.azure.com/.default"}, gotScopes)
}

func TestTokenCheck_Failures(t *testing.T) {
	tests := []struct {
		name     string
		err      func(ctx context.Context) error
		wantKind check.Kind
		wantMsg  string
	}{
		{
			name:     "not logged in",
			err:      func(context.Context) error { return errors.New("AzureCLICredential: ERROR: Please run 'az login'") },
			wantKind: check.KindNotAuthenticated,
			wantMsg:  "Not authenticated. Run 'az login' to authenticate.",
		},
		{
			name: "deadline",
			err: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
			wantKind: check.KindTimedOut,
			wantMsg:  "Authentication check timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &TokenCheck{
				Runner:  azOnPath(t),
				Timeout: 20 * time.Millisecond,
				Credential: &fakeCredential{
					GetTokenFunc: func(ctx context.Context, _ policy.TokenRequestOptions) (azcore.AccessToken, error) {
						return azcore.AccessToken{}, tt.err(ctx)
					},
				},
			}

			result := c.Run(context.Background())

			assert.False(t, result.OK())
			assert.Equal(t, tt.wantKind, result.Kind)
			assert.Equal(t, tt.wantMsg, result.Message)
		})
	}
}

func TestTokenCheck_AzNotInstalled(t *testing.T) {
	m := probetest.NewMockRunner(gomock.NewController(t))
	m.EXPECT().LookPath("az").Return("", errors.New(`exec: "az": executable file not found in $PATH`))
	c := &TokenCheck{
		Runner: m,
		Credential: &fakeCredential{
			GetTokenFunc: func(context.Context, policy.TokenRequestOptions) (azcore.AccessToken, error) {
				t.Fatal("GetToken must not be called when az is missing")
				return azcore.AccessToken{}, nil
			},
		},
	}

	result := c.Run(context.Background())

	assert.False(t, result.OK())
	assert.Equal(t, TokenName, result.Name)
	assert.Equal(t, check.KindNotInstalled, result.Kind)
	assert.Equal(t, "Azure CLI not installed", result.Message)
}
