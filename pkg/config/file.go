package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the config file searched for from the working directory upward.
const FileName = ".devauth.yml"

// EnvConfig names the variable holding an explicit config path. The
// --config flag takes precedence over it.
const EnvConfig = "DEVAUTH_CONFIG"

// ErrNotFound is returned by Locate when no config file exists.
var ErrNotFound = errors.New(FileName + " not found")

// Source records how a config file was chosen.
type Source string

const (
	SourceFlag   Source = "flag"
	SourceEnv    Source = "env"
	SourceSearch Source = "search"
)

// StopReason explains where an upward search ended without a match.
type StopReason string

const (
	StopHome    StopReason = "home directory"
	StopGitRoot StopReason = "git repository root"
	StopFSRoot  StopReason = "filesystem root"
)

// Location is the outcome of Locate. On ErrNotFound only StopDir and
// Stop are set.
type Location struct {
	Path    string
	Source  Source
	StopDir string
	Stop    StopReason
}

// Locate picks the config file. An explicit flagPath wins, then the
// EnvConfig variable from lookup; both must exist. Otherwise the search
// climbs from startDir and gives up at the first boundary: the user's home,
// a directory holding .git, or the filesystem root. The boundary directory
// itself is still checked.
func Locate(startDir, flagPath string, lookup func(string) (string, bool)) (Location, error) {
	if flagPath != "" {
		return explicit(flagPath, SourceFlag)
	}
	if v, ok := lookup(EnvConfig); ok && v != "" {
		return explicit(v, SourceEnv)
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return Location{}, fmt.Errorf("failed to get absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		candidate := filepath.Join(dir, FileName)
		if isFile(candidate) {
			return Location{Path: candidate, Source: SourceSearch}, nil
		}
		if reason, stop := boundary(dir, home); stop {
			return Location{StopDir: dir, Stop: reason}, ErrNotFound
		}
		dir = filepath.Dir(dir)
	}
}

func explicit(path string, src Source) (Location, error) {
	if _, err := os.Stat(path); err != nil {
		return Location{Source: src}, fmt.Errorf("config file from %s not found: %w", src, err)
	}
	return Location{Path: path, Source: src}, nil
}

func boundary(dir, home string) (StopReason, bool) {
	switch {
	case home != "" && dir == home:
		return StopHome, true
	case exists(filepath.Join(dir, ".git")):
		return StopGitRoot, true
	case filepath.Dir(dir) == dir:
		return StopFSRoot, true
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
