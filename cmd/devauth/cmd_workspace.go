package main

import (
	"github.com/spf13/cobra"

	"github.com/vertti/devauth/pkg/workspace"
)

func newWorkspaceCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "workspace [DIR]",
		Short: "Create the sample workspace layout",
		Long: `Create notebooks/, data/, models/ and scripts/ under DIR (default:
workspace.root from config) plus a README.md when none exists.

Running it again creates nothing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkspaceCmd(cmd, global, args)
		},
	}
}

func runWorkspaceCmd(cmd *cobra.Command, global *globalOptions, args []string) error {
	a, err := newApp(cmd, global)
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	root := a.cfg.Workspace.Root
	if len(args) == 1 {
		root = args[0]
	}

	created, err := workspace.Scaffold(root)
	if err != nil {
		return err
	}
	for _, path := range created {
		a.printer.Created(path)
	}
	if len(created) == 0 {
		a.printer.Line("Workspace already present: " + root)
	}
	return nil
}
