package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirTarget stashes into a local directory, created on first write.
type DirTarget struct {
	Dir string
}

func (d *DirTarget) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(filepath.Join(d.Dir, name))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, err
	}
}

// Write goes through a temp file in the same directory and a rename, so readers
// never see a partial file.
func (d *DirTarget) Write(_ context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return "", fmt.Errorf("create stash dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.Dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	final := filepath.Join(d.Dir, name)
	if err := os.Rename(tmpName, final); err != nil {
		return "", fmt.Errorf("rename into place: %w", err)
	}
	return final, nil
}
