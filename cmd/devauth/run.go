package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/vertti/devauth/pkg/azcheck"
	"github.com/vertti/devauth/pkg/check"
	"github.com/vertti/devauth/pkg/config"
	devexec "github.com/vertti/devauth/pkg/exec"
	"github.com/vertti/devauth/pkg/ghcheck"
	"github.com/vertti/devauth/pkg/gitcheck"
	"github.com/vertti/devauth/pkg/logging"
	"github.com/vertti/devauth/pkg/output"
	"github.com/vertti/devauth/pkg/probe"
	"github.com/vertti/devauth/pkg/report"
)

// ErrCheckFailed is returned when a check or setup task fails. main exits 1
// without printing anything further.
var ErrCheckFailed = errors.New("check failed")

// Factories replaced in tests.
var (
	newRunner = func(log *zap.Logger) probe.Runner {
		return probe.WithLogging(&probe.RealRunner{}, log)
	}
	newExecutor   = func() devexec.Executor { return &devexec.RealExecutor{} }
	newCredential = azcheck.NewCLICredential
)

// app is the per-invocation state shared by every subcommand.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	runner  probe.Runner
	runID   string
	printer *output.Printer
}

// newApp loads config, applies global flags and builds the logger. Flags
// override the environment, which overrides the file.
func newApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, loc, err := config.Load(wd, opts.configPath)
	if err != nil {
		return nil, err
	}

	opts.apply(&cfg, cmd.Flags())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.noColor {
		output.SetColor(false)
	}

	base, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	log := base.With(zap.String("run_id", runID))
	if loc.Path != "" {
		log.Debug("config loaded", zap.String("path", loc.Path), zap.String("source", string(loc.Source)))
	} else {
		log.Debug("no config file", zap.String("searched_to", loc.StopDir), zap.String("stopped_at", string(loc.Stop)))
	}

	return &app{
		cfg:     cfg,
		log:     log,
		runner:  newRunner(log),
		runID:   runID,
		printer: output.New(cmd.OutOrStdout(), opts.verbose),
	}, nil
}

// apply overlays explicitly set flags on cfg. Unset flags leave file and
// environment values alone.
func (o *globalOptions) apply(cfg *config.Config, flags *pflag.FlagSet) {
	if flags.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if flags.Changed("log-file") {
		cfg.Log.File = o.logFile
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
}

// entries builds report entries for the given check names, in order.
func (a *app) entries(names []string) ([]report.Entry, error) {
	entries := make([]report.Entry, 0, len(names))
	for _, name := range names {
		switch name {
		case config.CheckAzure:
			entries = append(entries, report.Entry{
				Name:  azcheck.Name,
				Check: &azcheck.Check{Timeout: a.cfg.Timeout, Runner: a.runner},
			})
		case config.CheckAzureToken:
			cred, err := newCredential()
			if err != nil {
				return nil, fmt.Errorf("failed to create Azure credential: %w", err)
			}
			entries = append(entries, report.Entry{
				Name: azcheck.TokenName,
				Check: &azcheck.TokenCheck{
					Credential: cred,
					Scopes:     a.cfg.Azure.Scopes,
					Timeout:    a.cfg.Timeout,
					Runner:     a.runner,
				},
			})
		case config.CheckGitHub:
			entries = append(entries, report.Entry{
				Name: ghcheck.Name,
				Check: &ghcheck.Check{
					Hostname: a.cfg.GitHub.Hostname,
					Timeout:  a.cfg.Timeout,
					Runner:   a.runner,
					Log:      a.log,
				},
			})
		case config.CheckGit:
			entries = append(entries, report.Entry{
				Name:  gitcheck.Name,
				Check: &gitcheck.Check{Timeout: a.cfg.Timeout, Runner: a.runner},
			})
		default:
			return nil, fmt.Errorf("unknown check %q", name)
		}
	}
	return entries, nil
}

// run executes the named checks, streaming one line per result unless quiet.
func (a *app) run(cmd *cobra.Command, names []string, quiet bool) (report.Report, error) {
	entries, err := a.entries(names)
	if err != nil {
		return report.Report{}, err
	}
	rep := report.RunWithID(cmd.Context(), a.runID, entries, func(r check.Result) {
		a.log.Debug("check finished",
			zap.String("check", r.Name),
			zap.Bool("ok", r.OK()),
			zap.String("kind", string(r.Kind)))
		if !quiet {
			a.printer.Result(r)
		}
	})
	a.log.Info("checks finished",
		zap.Bool("passed", rep.Passed()),
		zap.Int("failed", len(rep.Failed())))
	return rep, nil
}

// runSingle runs one check and prints its line. The shape matches the
// per-tool subcommands: no header, no summary.
func runSingle(cmd *cobra.Command, opts *globalOptions, name string) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	rep, err := a.run(cmd, []string{name}, false)
	if err != nil {
		return err
	}
	if !rep.Passed() {
		return ErrCheckFailed
	}
	return nil
}
