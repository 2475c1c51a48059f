package main

import (
	"github.com/spf13/cobra"

	"github.com/vertti/devauth/pkg/config"
)

func newAzureCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "azure",
		Short: "Check Azure CLI authentication (az account show)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSingle(cmd, global, config.CheckAzure)
		},
	}
}

func newGitHubCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "github",
		Short: "Check GitHub CLI authentication (gh auth status)",
		Long: `Check GitHub CLI authentication (gh auth status).

The host defaults to github.com and can be changed with github.hostname in
.devauth.yml or DEVAUTH_GITHUB_HOSTNAME.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSingle(cmd, global, config.CheckGitHub)
		},
	}
}

func newGitCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "git",
		Short: "Check global git user.name and user.email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSingle(cmd, global, config.CheckGit)
		},
	}
}
