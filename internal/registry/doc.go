// Package registry is a client for npm-compatible package registries. It
// lists published versions and dist-tags, resolves a version spec to a
// concrete version, and fetches a package together with its dependency
// closure into a node_modules tree on disk.
package registry
