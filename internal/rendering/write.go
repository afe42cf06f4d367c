package rendering

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteAtomic writes data to a temporary file in the target directory and renames it
// into place, so readers never observe a partially written file.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &RenderError{Message: fmt.Sprintf("failed to create output directory %s", dir), Cause: err}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &RenderError{Message: "failed to create temporary file", Cause: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &RenderError{Message: fmt.Sprintf("failed to write %s", tmpName), Cause: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return &RenderError{Message: fmt.Sprintf("failed to sync %s", tmpName), Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return &RenderError{Message: fmt.Sprintf("failed to close %s", tmpName), Cause: err}
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return &RenderError{Message: fmt.Sprintf("failed to set permissions on %s", tmpName), Cause: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &RenderError{Message: fmt.Sprintf("failed to move output into place at %s", path), Cause: err}
	}
	committed = true
	return nil
}
