// Package workspace creates the sample workspace layout.
package workspace

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultRoot is used when no root is configured.
const DefaultRoot = "workspace"

// Dirs are created under the workspace root, in this order.
var Dirs = []string{"notebooks", "data", "models", "scripts"}

//go:embed README.md.tmpl
var readme []byte

// Scaffold creates the workspace directories and README under root.
// Existing entries are left untouched; only newly created paths are returned,
// so a second call returns an empty slice.
func Scaffold(root string) ([]string, error) {
	if root == "" {
		root = DefaultRoot
	}

	var created []string
	for _, dir := range Dirs {
		path := filepath.Join(root, dir)
		info, err := os.Stat(path)
		switch {
		case err == nil && info.IsDir():
			continue
		case err == nil:
			return created, fmt.Errorf("%s exists and is not a directory", path)
		case !errors.Is(err, fs.ErrNotExist):
			return created, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return created, fmt.Errorf("failed to create %s: %w", path, err)
		}
		created = append(created, path)
	}

	readmePath := filepath.Join(root, "README.md")
	f, err := os.OpenFile(readmePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) //nolint:gosec // path is under the workspace root
	if errors.Is(err, fs.ErrExist) {
		return created, nil
	}
	if err != nil {
		return created, fmt.Errorf("failed to create %s: %w", readmePath, err)
	}
	if _, err := f.Write(readme); err != nil {
		_ = f.Close()
		return created, fmt.Errorf("failed to write %s: %w", readmePath, err)
	}
	if err := f.Close(); err != nil {
		return created, fmt.Errorf("failed to write %s: %w", readmePath, err)
	}
	return append(created, readmePath), nil
}
