// Package updater tells the user when a newer release of the CLI itself is
// published. The latest version comes from the registry's "latest"
// dist-tag of the CLI package and is cached for a week in the config
// directory, so the startup banner never waits on the network.
package updater
