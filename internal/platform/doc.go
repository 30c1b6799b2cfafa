// Package platform hides operating-system differences: permission bits that
// Windows ignores, and the set of termination signals the CLI relays to its
// own shutdown.
package platform
