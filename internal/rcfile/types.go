package rcfile

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Known top-level keys. Everything else is an extra.
const (
	KeyVersion  = "svrx"
	KeyPath     = "path"
	KeyRegistry = "registry"
	KeyPlugins  = "plugins"
)

// RC is a parsed project configuration file.
type RC struct {
	Version  string      `yaml:"svrx,omitempty" json:"svrx,omitempty"`
	Path     string      `yaml:"path,omitempty" json:"path,omitempty"`
	Registry string      `yaml:"registry,omitempty" json:"registry,omitempty"`
	Plugins  []PluginRef `yaml:"plugins,omitempty" json:"plugins,omitempty"`

	// Extra holds every key not listed above.
	Extra map[string]any `yaml:"-" json:"-"`

	// File is the path the RC was read from; empty when none was found.
	File string `yaml:"-" json:"-"`
}

// PluginRef names a plugin, optionally pinned to a version or range.
// In the file it is either a bare string or a {name, version} mapping.
type PluginRef struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (p *PluginRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		p.Name = node.Value
		return nil
	case yaml.MappingNode:
		type plain PluginRef
		var v plain
		if err := node.Decode(&v); err != nil {
			return err
		}
		*p = PluginRef(v)
		return nil
	default:
		return fmt.Errorf("line %d: plugin must be a name or a {name, version} mapping", node.Line)
	}
}

// Options returns the server options: the extras plus the plugin list.
// The returned map is a copy.
func (rc *RC) Options() map[string]any {
	opts := make(map[string]any, len(rc.Extra)+1)
	for k, v := range rc.Extra {
		opts[k] = v
	}
	if len(rc.Plugins) > 0 {
		plugins := make([]any, 0, len(rc.Plugins))
		for _, p := range rc.Plugins {
			if p.Version == "" {
				plugins = append(plugins, p.Name)
				continue
			}
			plugins = append(plugins, map[string]any{"name": p.Name, "version": p.Version})
		}
		opts[KeyPlugins] = plugins
	}
	return opts
}
