package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vertti/devauth/pkg/config"
)

type checkOptions struct {
	only string
	json bool
}

func newCheckCmd(global *globalOptions) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [-- command [args...]]",
		Short: "Check Azure CLI, GitHub CLI and git authentication",
		Long: `Run every enabled authentication check in order and print a summary.

When all checks pass and a command follows "--", devauth replaces itself
with that command. This lets a container entrypoint refuse to start until
the environment is signed in.

Examples:
  devauth check                          # All checks
  devauth check --only github,git        # Subset, in the given order
  devauth check --json                   # Machine-readable report
  devauth check -- make dev              # Run 'make dev' only if authenticated`,
		Args: func(cmd *cobra.Command, args []string) error {
			if dash := cmd.ArgsLenAtDash(); dash > 0 || (dash < 0 && len(args) > 0) {
				return fmt.Errorf("unexpected arguments %q: put the command to run after --", args)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckCmd(cmd, global, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.only, "only", "",
		"comma-separated checks to run: azure, azure-token, github, git")
	cmd.Flags().BoolVar(&opts.json, "json", false,
		"print the report as JSON")
	return cmd
}

func runCheckCmd(cmd *cobra.Command, global *globalOptions, opts *checkOptions, args []string) error {
	a, err := newApp(cmd, global)
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	names := a.cfg.EnabledChecks()
	if opts.only != "" {
		cfg := a.cfg
		cfg.Checks = config.SplitList(opts.only)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --only: %w", err)
		}
		names = cfg.EnabledChecks()
	}

	if !opts.json {
		a.printer.Header()
	}
	rep, err := a.run(cmd, names, opts.json)
	if err != nil {
		return err
	}
	if opts.json {
		if err := a.printer.JSON(rep); err != nil {
			return err
		}
	} else {
		a.printer.Summary(rep.Passed())
	}

	if !rep.Passed() {
		return ErrCheckFailed
	}

	if dash := cmd.ArgsLenAtDash(); dash >= 0 && len(args) > dash {
		argv := args[dash:]
		a.log.Debug("handing off", zap.Strings("argv", argv))
		_ = a.log.Sync()
		return newExecutor().Exec(argv)
	}
	return nil
}
