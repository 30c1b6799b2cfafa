package userdata

import (
	"fmt"
	"io"
	"os"

	"github.com/svrx-labs/svrx/internal/platform"
)

// EnsureLayout creates the home, versions, and plugins directories if they do
// not exist. Progress lines are written to w; pass io.Discard to stay quiet.
// A path that exists but is not a directory, one that cannot be created, or
// a versions root that is not writable is an error.
func EnsureLayout(w io.Writer, l Layout) error {
	for _, dir := range []string{l.Home, l.Versions, l.Plugins} {
		if dir == "" {
			continue
		}
		if err := ensureDir(w, dir, DirPermNormal); err != nil {
			return err
		}
	}
	if l.Versions != "" {
		return platform.CheckWritable(l.Versions)
	}
	return nil
}

// ensureDir creates a directory if it doesn't exist.
func ensureDir(w io.Writer, path string, perm os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", path)
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	// MkdirAll may not apply exact perms if parent dirs needed creation.
	if err := platform.Chmod(path, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}
