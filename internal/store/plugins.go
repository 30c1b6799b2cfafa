package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Plugin is an installed plugin and the versions present for it.
type Plugin struct {
	Name     string
	Versions []string
}

// PluginStore scans the plugin root, laid out as <root>/<name>/<version>/.
type PluginStore struct {
	root string
}

// NewPluginStore creates a plugin store rooted at root.
func NewPluginStore(root string) *PluginStore {
	return &PluginStore{root: root}
}

// Root returns the plugin root directory.
func (p *PluginStore) Root() string {
	return p.root
}

// List returns installed plugins sorted by name. Plugins with no valid
// version directory are omitted. A missing root yields an empty result.
func (p *PluginStore) List() ([]Plugin, error) {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading plugin root %s: %w", p.root, err)
	}

	var plugins []Plugin
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		versions, err := New(filepath.Join(p.root, entry.Name()), "").ListVersions()
		if err != nil {
			return nil, err
		}
		if len(versions) == 0 {
			continue
		}
		plugins = append(plugins, Plugin{Name: entry.Name(), Versions: versions})
	}

	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Name < plugins[j].Name
	})
	return plugins, nil
}

// Remove deletes every version of the named plugin.
func (p *PluginStore) Remove(name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}
	return removeDir(filepath.Join(p.root, name))
}

// RemoveVersion deletes one version of the named plugin.
func (p *PluginStore) RemoveVersion(name, version string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}
	return New(filepath.Join(p.root, name), "").Remove(version)
}

// RemoveAll deletes every installed plugin and returns how many were removed.
func (p *PluginStore) RemoveAll() (int, error) {
	plugins, err := p.List()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, pl := range plugins {
		ok, err := removeDir(filepath.Join(p.root, pl.Name))
		if err != nil {
			return removed, err
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
