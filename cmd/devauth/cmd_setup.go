package main

import (
	"github.com/spf13/cobra"

	"github.com/vertti/devauth/pkg/setup"
)

type setupOptions struct {
	workspace  string
	skipVerify bool
}

func newSetupCmd(global *globalOptions) *cobra.Command {
	opts := &setupOptions{}
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Run post-authentication setup tasks",
		Long: `Verify authentication, then list Azure subscriptions, show the GitHub
user and scaffold a sample workspace.

Every task runs even if an earlier one fails. The exit status is 1 if any
task failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetupCmd(cmd, global, opts)
		},
	}
	cmd.Flags().StringVar(&opts.workspace, "workspace", "",
		"workspace root to scaffold (default: workspace.root from config)")
	cmd.Flags().BoolVar(&opts.skipVerify, "skip-verify", false,
		"skip the authentication verification step")
	return cmd
}

func runSetupCmd(cmd *cobra.Command, global *globalOptions, opts *setupOptions) error {
	a, err := newApp(cmd, global)
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	p := a.printer
	p.Banner()

	if !opts.skipVerify {
		p.Section("🔐", "Verifying authentication")
		rep, err := a.run(cmd, a.cfg.EnabledChecks(), true)
		if err != nil {
			return err
		}
		if !rep.Passed() {
			p.Line("⚠️  Authentication verification failed!")
			p.Line("Please run devauth check for details.")
			return ErrCheckFailed
		}
		p.Line("✅ Authentication verified!")
	}

	root := opts.workspace
	if root == "" {
		root = a.cfg.Workspace.Root
	}
	s := &setup.Setup{
		Runner:        a.runner,
		Printer:       p,
		WorkspaceRoot: root,
		Log:           a.log,
	}
	failed := s.RunTasks(cmd.Context(), s.Tasks())
	p.SetupSummary(failed)

	if len(failed) > 0 {
		return ErrCheckFailed
	}
	return nil
}
