// Package manager composes the version store, resolver and installer into
// the operations the CLI exposes: load, list, install and remove.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/svrx-labs/svrx/internal/branding"
	"github.com/svrx-labs/svrx/internal/installer"
	"github.com/svrx-labs/svrx/internal/registry"
	"github.com/svrx-labs/svrx/internal/resolver"
	"github.com/svrx-labs/svrx/internal/store"
	"github.com/svrx-labs/svrx/internal/task"
	"github.com/svrx-labs/svrx/internal/userdata"
)

// Remove targets that select groups of packages.
const (
	TargetAll     = "ALL"
	TargetCore    = "CORE"
	TargetPlugins = "PLUGIN"
)

// ErrNoTarget is returned by Remove when the target is empty.
var ErrNoTarget = errors.New("no package to remove")

// bootstrapped records the home roots already laid out by this process.
var bootstrapped sync.Map

// Options configures a Manager.
type Options struct {
	Layout userdata.Layout

	// Registry is used for remote listings. Defaults to an HTTP client for
	// RegistryURL.
	Registry    registry.Client
	RegistryURL string

	// Spawner runs install tasks. Defaults to re-executing the current
	// binary with the hidden install-task command.
	Spawner task.Spawner

	Logger *slog.Logger

	// Progress receives directory bootstrap lines; nil discards them.
	Progress io.Writer
}

// LoadOptions selects the version to load. Version wins over Configured.
type LoadOptions struct {
	Version    string
	Configured string
}

// ResolvedPackage is a core version ready to launch.
type ResolvedPackage struct {
	Version string
	Dir     string
	Entry   string
	Source  resolver.Source
	// Installed is true when Load had to install the version.
	Installed bool
}

// Manager is the facade over the local stores and the registry.
type Manager struct {
	layout    userdata.Layout
	versions  *store.Store
	plugins   *store.PluginStore
	registry  registry.Client
	installer *installer.Installer
	logger    *slog.Logger
}

// TaskCommand is the hidden command the default spawner invokes.
const TaskCommand = "__install-task"

// New creates a Manager, creating the home layout on first use in this
// process. A layout that cannot be created is an error.
func New(opts Options) (*Manager, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if _, done := bootstrapped.Load(opts.Layout.Home); !done {
		progress := opts.Progress
		if progress == nil {
			progress = io.Discard
		}
		if err := userdata.EnsureLayout(progress, opts.Layout); err != nil {
			return nil, fmt.Errorf("preparing %s: %w", opts.Layout.Home, err)
		}
		bootstrapped.Store(opts.Layout.Home, true)
	}

	client := opts.Registry
	if client == nil {
		var ropts []registry.Option
		if opts.RegistryURL != "" {
			ropts = append(ropts, registry.WithRegistryURL(opts.RegistryURL))
		}
		client = registry.New(ropts...)
	}

	spawner := opts.Spawner
	if spawner == nil {
		args := []string{TaskCommand}
		if opts.RegistryURL != "" {
			args = append(args, "--registry", opts.RegistryURL)
		}
		spawner = &task.ExecSpawner{Args: args}
	}

	versions := store.New(opts.Layout.Versions, branding.EntryModule())
	return &Manager{
		layout:    opts.Layout,
		versions:  versions,
		plugins:   store.NewPluginStore(opts.Layout.Plugins),
		registry:  client,
		installer: installer.New(versions, spawner, logger),
		logger:    logger,
	}, nil
}

// Layout returns the directories this manager works in.
func (m *Manager) Layout() userdata.Layout {
	return m.layout
}

// Resolve reports which version Load would run without installing it.
func (m *Manager) Resolve(opts LoadOptions) (resolver.Decision, error) {
	return resolver.Resolve(opts.Version, opts.Configured, m.versions)
}

// Load resolves the version to run, installing it when it is not present.
func (m *Manager) Load(ctx context.Context, opts LoadOptions) (*ResolvedPackage, error) {
	decision, err := m.Resolve(opts)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("resolved version", "version", decision.Version, "source", decision.Source, "install", decision.NeedsInstall)

	version := decision.Version
	if decision.NeedsInstall {
		version, err = m.installer.Install(ctx, decision.Version)
		if err != nil {
			return nil, err
		}
	}
	if !m.versions.Exists(version) {
		return nil, fmt.Errorf("%w: version %s is not complete after install", installer.ErrInstallFailed, version)
	}

	return &ResolvedPackage{
		Version:   version,
		Dir:       m.versions.Dir(version),
		Entry:     m.versions.EntryPath(version),
		Source:    decision.Source,
		Installed: decision.NeedsInstall,
	}, nil
}

// LocalVersions lists installed core versions, highest first.
func (m *Manager) LocalVersions() ([]string, error) {
	return m.versions.ListVersions()
}

// LocalPlugins lists installed plugins by name.
func (m *Manager) LocalPlugins() ([]store.Plugin, error) {
	return m.plugins.List()
}

// RemoteVersions lists the stable core versions published to the registry,
// lowest first.
func (m *Manager) RemoteVersions(ctx context.Context) ([]string, error) {
	all, err := m.registry.Versions(ctx, branding.CorePackage())
	if err != nil {
		return nil, fmt.Errorf("listing remote versions: %w", err)
	}
	stable := make([]string, 0, len(all))
	for _, v := range all {
		if store.IsValid(v) && !store.IsPrerelease(v) {
			stable = append(stable, v)
		}
	}
	sort.SliceStable(stable, func(i, j int) bool {
		return store.Compare(stable[i], stable[j]) < 0
	})
	return stable, nil
}

// RemoteTags returns the core package's dist-tags.
func (m *Manager) RemoteTags(ctx context.Context) (map[string]string, error) {
	tags, err := m.registry.DistTags(ctx, branding.CorePackage())
	if err != nil {
		return nil, fmt.Errorf("listing remote tags: %w", err)
	}
	return tags, nil
}

// Install installs version, or the registry's latest stable release when
// version is empty, and returns the installed version.
func (m *Manager) Install(ctx context.Context, version string) (string, error) {
	return m.installer.Install(ctx, version)
}

// Remove deletes local packages selected by target:
//
//	1.0.0          a core version
//	webpack        every version of a plugin
//	webpack/1.0.0  one version of a plugin
//	ALL or *       every core version and plugin
//	CORE           every core version
//	PLUGIN         every plugin
//
// It reports false when nothing matched.
func (m *Manager) Remove(target string) (bool, error) {
	switch target {
	case "":
		return false, ErrNoTarget
	case TargetAll, "*":
		core, err := m.versions.RemoveAll()
		if err != nil {
			return false, err
		}
		plugins, err := m.plugins.RemoveAll()
		if err != nil {
			return false, err
		}
		return core+plugins > 0, nil
	case TargetCore:
		n, err := m.versions.RemoveAll()
		return n > 0, err
	case TargetPlugins:
		n, err := m.plugins.RemoveAll()
		return n > 0, err
	}

	if name, version, ok := splitPluginVersion(target); ok {
		return m.plugins.RemoveVersion(name, version)
	}
	if looksLikeVersion(target) {
		return m.versions.Remove(target)
	}
	return m.plugins.Remove(target)
}

// splitPluginVersion splits "name/1.0.0".
func splitPluginVersion(target string) (name, version string, ok bool) {
	name, version, ok = strings.Cut(target, "/")
	if !ok || name == "" {
		return "", "", false
	}
	return name, version, true
}

// looksLikeVersion reports whether target is meant as a core version.
// Malformed versions are still routed to the version store so they are
// rejected rather than mistaken for plugin names.
func looksLikeVersion(target string) bool {
	c := target[0]
	return c >= '0' && c <= '9'
}
