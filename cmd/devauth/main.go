package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	devexec "github.com/vertti/devauth/pkg/exec"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, ErrCheckFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error to the process status. A wrapped command
// that ran as a child keeps its own status.
func exitCode(err error) int {
	var exitErr *devexec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	timeout    time.Duration
	verbose    bool
	logFile    string
	noColor    bool
}

// newRootCmd builds a fresh command tree. Each call gets its own flag sets,
// so repeated executions never see parse state from an earlier run.
func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "devauth",
		Short: "Authentication status checks for devcontainers",
		Long: `devauth checks that the tools a devcontainer depends on are signed in:
the Azure CLI, the GitHub CLI and the global git identity.

It never logs in for you. Failed checks print the command to run.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "",
		"config file (default: .devauth.yml found from the working directory, or $DEVAUTH_CONFIG)")
	flags.DurationVar(&opts.timeout, "timeout", 0,
		"per-check timeout, e.g. 5s (default: 10s, git 5s)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false,
		"show result details and debug logs")
	flags.StringVar(&opts.logFile, "log-file", "",
		"also write JSON logs to this rotating file")
	flags.BoolVar(&opts.noColor, "no-color", false,
		"disable colored output")

	root.AddCommand(
		newCheckCmd(opts),
		newAzureCmd(opts),
		newGitHubCmd(opts),
		newGitCmd(opts),
		newSetupCmd(opts),
		newWorkspaceCmd(opts),
		newVersionCmd(),
	)
	return root
}
