package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/svrx-labs/svrx/internal/branding"
)

// bootstrapScript loads the entry module, constructs the server with the
// options from the environment, and starts it.
const bootstrapScript = `const Svrx = require(process.env.SVRX_ENTRY);
const options = JSON.parse(process.env.SVRX_OPTIONS || "{}");
const server = new Svrx({}, options);
if (typeof server.start === "function") server.start();`

// defaultGracePeriod is how long a cancelled server may take to shut down
// after the interrupt before it is killed.
const defaultGracePeriod = 5 * time.Second

// NodeRuntime launches Node.js entry modules.
type NodeRuntime struct {
	// NodePath overrides the node binary; defaults to SVRX_NODE, then PATH.
	NodePath string

	// GracePeriod overrides defaultGracePeriod.
	GracePeriod time.Duration

	// Stdin, Stdout and Stderr can be set for testing; default to the
	// process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Launch runs `node -e <bootstrap> <args...>` with the server's streams
// attached. A non-zero exit is reported through Output, not as an error.
//
// Cancelling ctx interrupts the server and waits up to the grace period
// before killing it; either way the launch then counts as a clean exit.
// A server killed by a signal reports 128 plus the signal number.
func (n *NodeRuntime) Launch(ctx context.Context, target Target) (*Output, error) {
	nodeBin, err := n.nodeBinary()
	if err != nil {
		return nil, fmt.Errorf("node runtime requires Node.js: %w", err)
	}

	if _, err := os.Stat(target.Entry); err != nil {
		return nil, fmt.Errorf("entry module not found at %s: %w", target.Entry, err)
	}

	env, err := buildNodeEnv(target)
	if err != nil {
		return nil, fmt.Errorf("building runtime environment: %w", err)
	}

	args := append([]string{"-e", bootstrapScript}, target.Args...)
	cmd := exec.CommandContext(ctx, nodeBin, args...)
	cmd.Env = env
	cmd.Stdin = orReader(n.Stdin, os.Stdin)
	cmd.Stdout = orWriter(n.Stdout, os.Stdout)
	cmd.Stderr = orWriter(n.Stderr, os.Stderr)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = n.GracePeriod
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = defaultGracePeriod
	}

	err = cmd.Run()
	if ctx.Err() != nil && cmd.ProcessState != nil {
		return &Output{ExitCode: 0}, nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &Output{ExitCode: exitCode(exitErr)}, nil
		}
		return nil, fmt.Errorf("executing node: %w", err)
	}
	return &Output{ExitCode: 0}, nil
}

// exitCode maps a finished process to a status usable with os.Exit, the way
// a POSIX shell reports signal deaths.
func exitCode(exitErr *exec.ExitError) int {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	if code := exitErr.ExitCode(); code > 0 {
		return code
	}
	return 1
}

func (n *NodeRuntime) nodeBinary() (string, error) {
	if n.NodePath != "" {
		return n.NodePath, nil
	}
	if v := os.Getenv(branding.EnvVar("NODE")); v != "" {
		return v, nil
	}
	return exec.LookPath("node")
}

// buildNodeEnv inherits the current environment and adds the SVRX_*
// variables the bootstrap and the server read.
func buildNodeEnv(target Target) ([]string, error) {
	env := os.Environ()

	opts := target.Options
	if opts == nil {
		opts = map[string]any{}
	}
	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("serializing server options: %w", err)
	}

	env = setEnv(env, branding.EnvVar("ENTRY"), target.Entry)
	env = setEnv(env, branding.EnvVar("VERSION"), target.Version)
	env = setEnv(env, branding.EnvVar("OPTIONS"), string(optsJSON))
	if target.Home != "" {
		env = setEnv(env, branding.EnvVar("HOME"), target.Home)
	}
	if target.Plugins != "" {
		env = setEnv(env, branding.EnvVar("PLUGINS"), target.Plugins)
	}
	return env, nil
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

func orReader(r, fallback io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return fallback
}

func orWriter(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
