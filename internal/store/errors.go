package store

import "errors"

var (
	// ErrInvalidVersion is returned when an explicitly supplied version is not
	// a valid semantic version.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrInvalidName is returned when a plugin name cannot name a directory
	// under the plugin root.
	ErrInvalidName = errors.New("invalid plugin name")
)
