package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/svrx-labs/svrx/internal/registry"
	"github.com/svrx-labs/svrx/internal/store"
	"github.com/svrx-labs/svrx/internal/task"
)

// Worker is the worker-side half of an install.
type Worker struct {
	Client  registry.Client
	Package string
	Entry   string // slash-separated entry module path, e.g. "lib/svrx.js"
}

// Handler adapts the worker to the task protocol.
func (w *Worker) Handler() task.Handler {
	return func(ctx context.Context, req task.Request) (string, error) {
		return w.Execute(ctx, req)
	}
}

// Execute resolves the requested version, fetches it with its dependencies
// into a fresh staging directory, and copies both trees into
// <root>/<version>. The staging directory is removed whatever the outcome.
func (w *Worker) Execute(ctx context.Context, req task.Request) (string, error) {
	if req.VersionsRoot == "" {
		return "", fmt.Errorf("install request has no version root")
	}
	s := store.New(req.VersionsRoot, w.Entry)

	version, err := w.Client.Resolve(ctx, w.Package, req.Version)
	if err != nil {
		return "", fmt.Errorf("resolving %s@%s: %w", w.Package, displaySpec(req.Version), err)
	}
	if s.Exists(version) {
		return version, nil
	}

	staging, err := os.MkdirTemp("", w.Package+"-install-*")
	if err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	fetched, err := w.Client.Fetch(ctx, w.Package, version, staging)
	if err != nil {
		return "", fmt.Errorf("fetching %s@%s: %w", w.Package, version, err)
	}

	modules := filepath.Join(staging, "node_modules")
	pkgRoot := filepath.Join(modules, filepath.FromSlash(w.Package))
	dest := s.Dir(fetched)

	// Clear leftovers of an interrupted install so the copy starts clean.
	if err := os.RemoveAll(dest); err != nil {
		return "", fmt.Errorf("clearing %s: %w", dest, err)
	}

	// Dependencies first, the package itself second, its entry module last:
	// until the final file lands the version does not count as installed.
	if err := copyDir(modules, filepath.Join(dest, "node_modules"), topLevelExclude(w.Package)); err != nil {
		return "", fmt.Errorf("copying dependencies to %s: %w", dest, err)
	}
	if err := copyPackage(pkgRoot, dest, filepath.FromSlash(w.Entry)); err != nil {
		return "", fmt.Errorf("copying %s to %s: %w", w.Package, dest, err)
	}

	if !s.Exists(fetched) {
		_ = os.RemoveAll(dest)
		return "", fmt.Errorf("%s@%s has no entry module %s", w.Package, fetched, w.Entry)
	}
	return fetched, nil
}

func displaySpec(spec string) string {
	if spec == "" {
		return "latest"
	}
	return spec
}
