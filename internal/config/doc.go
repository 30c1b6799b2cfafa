// Package config reads and writes the user settings in ~/.svrx/config.yaml:
// the pinned core version, the registry URL and the silent switch. Values
// may also come from SVRX_* environment variables.
package config
