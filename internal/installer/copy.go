package installer

import (
	"os"
	"path/filepath"
)

// excludedNames are files/directories never copied into the store.
var excludedNames = map[string]bool{
	".git":      true,
	".DS_Store": true,
}

// excludeFunc decides whether a path, relative to the copy root, is skipped.
type excludeFunc func(rel string) bool

// topLevelExclude skips the named package at the top of a node_modules tree,
// since it is copied separately. Siblings in the same scope are kept.
func topLevelExclude(pkg string) excludeFunc {
	pkgRel := filepath.FromSlash(pkg)
	return func(rel string) bool {
		return rel == pkgRel
	}
}

// copyPackage copies src to dst, holding back entryRel until everything else
// has been written.
func copyPackage(src, dst, entryRel string) error {
	err := copyDir(src, dst, func(rel string) bool {
		return rel == entryRel
	})
	if err != nil {
		return err
	}

	entrySrc := filepath.Join(src, entryRel)
	if _, err := os.Stat(entrySrc); err != nil {
		// Missing entry modules are reported by the caller.
		return nil
	}
	entryDst := filepath.Join(dst, entryRel)
	if err := os.MkdirAll(filepath.Dir(entryDst), 0755); err != nil {
		return err
	}
	return copyFileAtomic(entrySrc, entryDst)
}

// copyDir recursively copies src to dst, excluding entries in excludedNames
// and anything skip matches. A missing src is not an error: a package with
// no dependencies has nothing to copy.
func copyDir(src, dst string, skip excludeFunc) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}
	return copyTree(src, dst, "", skip)
}

func copyTree(root, dstRoot, rel string, skip excludeFunc) error {
	src := filepath.Join(root, rel)
	dst := filepath.Join(dstRoot, rel)

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if excludedNames[entry.Name()] {
			continue
		}
		childRel := filepath.Join(rel, entry.Name())
		if skip != nil && skip(childRel) {
			continue
		}

		if entry.IsDir() {
			if err := copyTree(root, dstRoot, childRel, skip); err != nil {
				return err
			}
		} else if entry.Type().IsRegular() {
			if err := copyFile(filepath.Join(root, childRel), filepath.Join(dstRoot, childRel)); err != nil {
				return err
			}
		}
		// Skip symlinks and other special files during copy.
	}

	return nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, srcInfo.Mode())
}

// copyFileAtomic writes dst under a temporary name in the same directory and
// renames it into place, so dst is either absent or complete.
func copyFileAtomic(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), srcInfo.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
