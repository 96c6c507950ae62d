package mcp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// pathGuard confines tool paths to the configured directory. Relative
// paths are resolved against it.
type pathGuard struct {
	root     string
	realRoot string
}

func newPathGuard(root string) (*pathGuard, error) {
	if root == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configured directory: %w", err)
	}
	abs = filepath.Clean(abs)
	real := abs
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		real = resolved
	}
	return &pathGuard{root: abs, realRoot: real}, nil
}

// resolve returns the absolute form of path, rejecting anything that
// escapes the configured directory.
func (g *pathGuard) resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(g.root, path)
	}
	clean := filepath.Clean(path)

	// resolve symlinks for paths that already exist
	real := clean
	if resolved, err := filepath.EvalSymlinks(clean); err == nil {
		real = resolved
	} else if resolvedDir, err := filepath.EvalSymlinks(filepath.Dir(clean)); err == nil {
		real = filepath.Join(resolvedDir, filepath.Base(clean))
	}

	if !g.contains(clean) || !g.contains(real) {
		return "", fmt.Errorf("path is outside configured directory: %s", path)
	}
	return clean, nil
}

func (g *pathGuard) contains(path string) bool {
	return within(g.root, path) || within(g.realRoot, path)
}

func within(root, path string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(os.PathSeparator))
}
