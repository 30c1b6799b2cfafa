package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store scans and mutates the version root. All operations are synchronous;
// there is no locking because a single invocation never touches the store
// concurrently.
type Store struct {
	root  string
	entry string
}

// New creates a store rooted at root. entry is the slash-separated path of
// the entry module inside each version directory (e.g., "lib/svrx.js").
func New(root, entry string) *Store {
	return &Store{root: root, entry: entry}
}

// Root returns the version root directory.
func (s *Store) Root() string {
	return s.root
}

// Dir returns the directory for version v.
func (s *Store) Dir(v string) string {
	return filepath.Join(s.root, v)
}

// EntryPath returns the entry module path for version v.
func (s *Store) EntryPath(v string) string {
	return filepath.Join(s.root, v, filepath.FromSlash(s.entry))
}

// ListVersions returns the installed versions, highest first. A missing root
// yields an empty result. Non-directories and directories whose name is not a
// valid semantic version are skipped.
func (s *Store) ListVersions() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading version root %s: %w", s.root, err)
	}

	var versions []string
	for _, entry := range entries {
		if !entry.IsDir() || !IsValid(entry.Name()) {
			continue
		}
		versions = append(versions, entry.Name())
	}
	SortDescending(versions)
	return versions, nil
}

// Exists reports whether version v is installed: its directory exists and
// contains the entry module. A directory without the entry module is a
// partial install and does not count.
func (s *Store) Exists(v string) bool {
	if !IsValid(v) {
		return false
	}
	info, err := os.Stat(s.EntryPath(v))
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Remove deletes the directory of version v. It returns false when there is
// nothing to remove and wraps ErrInvalidVersion when v is not a valid version.
func (s *Store) Remove(v string) (bool, error) {
	if !IsValid(v) {
		return false, fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	return removeDir(s.Dir(v))
}

// RemoveAll deletes every installed version directory and returns how many
// were removed. Directories that are not versions are left alone.
func (s *Store) RemoveAll() (int, error) {
	versions, err := s.ListVersions()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, v := range versions {
		ok, err := removeDir(s.Dir(v))
		if err != nil {
			return removed, err
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}

// LatestLocal returns the preferred installed version (see Latest). The
// boolean is false when the store is empty.
func (s *Store) LatestLocal() (string, bool, error) {
	versions, err := s.ListVersions()
	if err != nil {
		return "", false, err
	}
	v, ok := Latest(versions)
	return v, ok, nil
}

// removeDir removes a directory tree, reporting false if it did not exist.
func removeDir(dir string) (bool, error) {
	info, err := os.Lstat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("inspecting %s: %w", dir, err)
	}
	if !info.IsDir() {
		return false, nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return false, fmt.Errorf("removing %s: %w", dir, err)
	}
	return true, nil
}
