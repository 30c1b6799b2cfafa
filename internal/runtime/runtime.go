package runtime

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Runtime starts a resolved package and blocks until it exits.
type Runtime interface {
	Launch(ctx context.Context, target Target) (*Output, error)
}

// Target describes what to launch.
type Target struct {
	Version string
	Entry   string // absolute path of the entry module
	Home    string
	Plugins string

	// Options are handed to the server constructor as JSON.
	Options map[string]any
	// Args are appended to the process argument list.
	Args []string
}

// Output captures the result of a launch.
type Output struct {
	ExitCode int
}

// Supported runtime identifiers.
const (
	RuntimeNode = "node"
)

// DispatchRuntime returns the Runtime for an entry module. Returns an
// error-producing runtime for extensions no runtime understands.
func DispatchRuntime(entry string) Runtime {
	switch strings.ToLower(filepath.Ext(entry)) {
	case ".js", ".cjs", ".mjs":
		return &NodeRuntime{}
	default:
		return &unknownRuntime{entry: entry}
	}
}

// unknownRuntime is returned when the entry module is not recognized.
type unknownRuntime struct {
	entry string
}

func (u *unknownRuntime) Launch(context.Context, Target) (*Output, error) {
	return nil, fmt.Errorf("no runtime for entry module %q: supported runtime is %q", u.entry, RuntimeNode)
}
