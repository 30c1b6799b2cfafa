package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/svrx-labs/svrx/internal/branding"
)

// Directory name constants for the home layout.
const (
	VersionsDir = "versions"
	PluginsDir  = "plugins"
)

// DirPermNormal is the mode of the directories in the home layout.
const DirPermNormal os.FileMode = 0755

// Layout holds the resolved roots used by one process. It is computed once at
// startup and handed to every component that touches the filesystem.
type Layout struct {
	Home     string
	Versions string
	Plugins  string
}

// GetHomeRoot returns the path to the svrx home directory.
// It checks the SVRX_HOME environment variable first,
// then falls back to ~/.svrx.
func GetHomeRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir()), nil
}

// GetVersionsRoot returns the directory holding installed core versions.
// It checks SVRX_VERSIONS first, then falls back to <home>/versions.
func GetVersionsRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("VERSIONS")); v != "" {
		return v, nil
	}
	root, err := GetHomeRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, VersionsDir), nil
}

// GetPluginsRoot returns the directory holding installed plugins.
// It checks SVRX_PLUGINS first, then falls back to <home>/plugins.
func GetPluginsRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("PLUGINS")); v != "" {
		return v, nil
	}
	root, err := GetHomeRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, PluginsDir), nil
}

// ResolveLayout computes the layout for this process. A non-empty home
// override (the --path flag or the rc file's path) replaces the home root and
// takes precedence over the per-directory environment overrides.
func ResolveLayout(homeOverride string) (Layout, error) {
	if homeOverride != "" {
		abs, err := filepath.Abs(homeOverride)
		if err != nil {
			return Layout{}, fmt.Errorf("resolving path %s: %w", homeOverride, err)
		}
		return Layout{
			Home:     abs,
			Versions: filepath.Join(abs, VersionsDir),
			Plugins:  filepath.Join(abs, PluginsDir),
		}, nil
	}

	home, err := GetHomeRoot()
	if err != nil {
		return Layout{}, err
	}
	versions, err := GetVersionsRoot()
	if err != nil {
		return Layout{}, err
	}
	plugins, err := GetPluginsRoot()
	if err != nil {
		return Layout{}, err
	}
	return Layout{Home: home, Versions: versions, Plugins: plugins}, nil
}
