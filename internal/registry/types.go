package registry

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a package or version does not exist in the
// registry.
var ErrNotFound = errors.New("not found in registry")

// Client is the contract the rest of the CLI relies on.
type Client interface {
	// Versions returns every published version of name, lowest first.
	Versions(ctx context.Context, name string) ([]string, error)

	// DistTags returns the dist-tag to version mapping of name.
	DistTags(ctx context.Context, name string) (map[string]string, error)

	// Resolve turns a spec (exact version, dist-tag, semver range, or empty
	// for the latest stable release) into a concrete version.
	Resolve(ctx context.Context, name, spec string) (string, error)

	// Fetch resolves spec and installs name plus its dependency closure into
	// dir/node_modules. It returns the resolved version.
	Fetch(ctx context.Context, name, spec, dir string) (string, error)
}

// Packument is the registry document describing every version of a package.
type Packument struct {
	Name     string              `json:"name"`
	DistTags map[string]string   `json:"dist-tags"`
	Versions map[string]Manifest `json:"versions"`
}

// Manifest is the per-version metadata the installer needs.
type Manifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
	Dist         Dist              `json:"dist"`
}

// Dist locates and authenticates a version's tarball.
type Dist struct {
	Tarball   string `json:"tarball"`
	Shasum    string `json:"shasum,omitempty"`
	Integrity string `json:"integrity,omitempty"`
}

// Placement is one package positioned in the node_modules tree.
type Placement struct {
	// Path is slash-separated and relative to the install dir,
	// e.g. "node_modules/a/node_modules/b".
	Path     string
	Manifest Manifest
}
