package installer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/svrx-labs/svrx/internal/task"
)

// ErrInstallFailed wraps every failure of the fetch-and-copy step.
var ErrInstallFailed = errors.New("install failed")

// Store is the part of the version store the installer needs.
type Store interface {
	Root() string
	Exists(version string) bool
}

// Installer installs core versions through an isolated worker.
type Installer struct {
	store   Store
	spawner task.Spawner
	logger  *slog.Logger
}

// New creates an installer that delegates fetches to spawner.
func New(store Store, spawner task.Spawner, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Installer{store: store, spawner: spawner, logger: logger}
}

// Install makes version available locally and returns the installed version.
// An empty version installs the registry's latest stable release. A version
// that is already present returns immediately without spawning a worker.
func (i *Installer) Install(ctx context.Context, version string) (string, error) {
	if version != "" && i.store.Exists(version) {
		i.logger.Debug("version already installed", "version", version)
		return version, nil
	}

	i.logger.Debug("spawning install task", "version", version, "root", i.store.Root())
	installed, err := task.Run(ctx, i.spawner, task.Request{
		Version:      version,
		VersionsRoot: i.store.Root(),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}
	return installed, nil
}
