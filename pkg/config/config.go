// Package config loads devauth settings from .devauth.yml and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Check names accepted in the checks list.
const (
	CheckAzure      = "azure"
	CheckAzureToken = "azure-token"
	CheckGitHub     = "github"
	CheckGit        = "git"
)

// DefaultChecks is the registration order used when none is configured.
var DefaultChecks = []string{CheckAzure, CheckGitHub, CheckGit}

var knownChecks = map[string]bool{
	CheckAzure:      true,
	CheckAzureToken: true,
	CheckGitHub:     true,
	CheckGit:        true,
}

// maxFileSize caps the config file read (1 MB).
const maxFileSize = 1 << 20

// Config holds all settings. Zero durations mean "use the per-check default".
type Config struct {
	Timeout   time.Duration   `yaml:"timeout"`
	Checks    []string        `yaml:"checks"`
	GitHub    GitHubConfig    `yaml:"github"`
	Azure     AzureConfig     `yaml:"azure"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Log       LogConfig       `yaml:"log"`
}

type GitHubConfig struct {
	Hostname string `yaml:"hostname"`
}

type AzureConfig struct {
	VerifyToken bool     `yaml:"verify_token"` // also run the SDK token check
	Scopes      []string `yaml:"scopes"`
}

type WorkspaceConfig struct {
	Root string `yaml:"root"`
}

type LogConfig struct {
	Level string `yaml:"level"` // zap level name (default: warn)
	File  string `yaml:"file"`  // rotating JSON log file, empty = disabled
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Checks:    append([]string(nil), DefaultChecks...),
		Workspace: WorkspaceConfig{Root: "workspace"},
		Log:       LogConfig{Level: "warn"},
	}
}

// Load reads the config chosen by Locate, applies environment overrides and
// validates the result. A missing file is not an error unless it was named
// explicitly by flagPath or DEVAUTH_CONFIG.
func Load(startDir, flagPath string) (Config, Location, error) {
	return load(startDir, flagPath, os.LookupEnv)
}

func load(startDir, flagPath string, lookup func(string) (string, bool)) (Config, Location, error) {
	cfg := Default()

	loc, err := Locate(startDir, flagPath, lookup)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return cfg, loc, err
	default:
		if err := cfg.readFile(loc.Path); err != nil {
			return cfg, loc, err
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, loc, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, loc, err
	}
	return cfg, loc, nil
}

func (c *Config) readFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	if info.Size() > maxFileSize {
		return fmt.Errorf("config file %q is too large (%d bytes, max %d)", path, info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(path) //nolint:gosec // intentional: reading the user's config file
	if err != nil {
		return fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config error in %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays DEVAUTH_* variables on top of file values.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("DEVAUTH_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DEVAUTH_TIMEOUT %q: %w", v, err)
		}
		c.Timeout = d
	}
	if v, ok := lookup("DEVAUTH_CHECKS"); ok && v != "" {
		c.Checks = SplitList(v)
	}
	if v, ok := lookup("DEVAUTH_GITHUB_HOSTNAME"); ok && v != "" {
		c.GitHub.Hostname = v
	}
	if v, ok := lookup("DEVAUTH_WORKSPACE"); ok && v != "" {
		c.Workspace.Root = v
	}
	if v, ok := lookup("DEVAUTH_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("DEVAUTH_LOG_FILE"); ok && v != "" {
		c.Log.File = v
	}
	return nil
}

// Validate rejects settings the checks cannot run with.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("config error: timeout must not be negative, got %s", c.Timeout)
	}
	if len(c.Checks) == 0 {
		return errors.New("config error: no checks enabled")
	}
	seen := make(map[string]bool, len(c.Checks))
	for _, name := range c.Checks {
		if !knownChecks[name] {
			return fmt.Errorf("config error: unknown check %q (valid: azure, azure-token, github, git)", name)
		}
		if seen[name] {
			return fmt.Errorf("config error: check %q listed twice", name)
		}
		seen[name] = true
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config error: invalid log level %q", c.Log.Level)
	}
	return nil
}

// EnabledChecks returns the check names in registration order. The SDK token
// check is inserted right after the CLI check when azure.verify_token is set.
func (c *Config) EnabledChecks() []string {
	checks := make([]string, 0, len(c.Checks)+1)
	hasToken := false
	for _, name := range c.Checks {
		if name == CheckAzureToken {
			hasToken = true
		}
	}
	for _, name := range c.Checks {
		checks = append(checks, name)
		if name == CheckAzure && c.Azure.VerifyToken && !hasToken {
			checks = append(checks, CheckAzureToken)
		}
	}
	return checks
}

// SplitList parses a comma-separated list, dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
