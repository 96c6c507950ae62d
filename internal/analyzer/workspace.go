package analyzer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// workspace holds the per-run temporary copies of the inputs. It is never
// shared between runs.
type workspace struct {
	dir         string
	spreadsheet string
	document    string
}

func newWorkspace(root string, opts Options) (*workspace, error) {
	if root == "" {
		root = os.TempDir()
	}

	id := uuid.NewString()
	dir := filepath.Join(root, "component-analyzer-"+id)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	ws := &workspace{
		dir:         dir,
		spreadsheet: filepath.Join(dir, id+".xlsx"),
		document:    filepath.Join(dir, id+".pdf"),
	}
	if err := copyFile(opts.SpreadsheetPath, ws.spreadsheet); err != nil {
		ws.cleanup()
		return nil, err
	}
	if err := copyFile(opts.DocumentPath, ws.document); err != nil {
		ws.cleanup()
		return nil, err
	}
	return ws, nil
}

func (w *workspace) path(name string) string {
	return filepath.Join(w.dir, name)
}

func (w *workspace) cleanup() {
	_ = os.RemoveAll(w.dir)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
