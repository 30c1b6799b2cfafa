package task

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Spawner delivers one request to a worker and collects its response.
type Spawner interface {
	Spawn(ctx context.Context, req Request) (Response, error)
}

// ExecSpawner runs the worker as a child process, by default the current
// executable re-invoked with Args. The child's stdout carries the protocol;
// its stderr goes to Stderr, or nowhere when Stderr is nil.
type ExecSpawner struct {
	Path   string
	Args   []string
	Env    []string
	Stderr io.Writer
}

// Spawn starts the child, writes the request, and waits for it to exit.
// Canceling ctx kills the child.
func (e *ExecSpawner) Spawn(ctx context.Context, req Request) (Response, error) {
	path := e.Path
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return Response{}, fmt.Errorf("finding current executable: %w", err)
		}
		path = exe
	}

	var in bytes.Buffer
	if err := writeMessage(&in, req); err != nil {
		return Response{}, err
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, path, e.Args...)
	cmd.Stdin = &in
	cmd.Stdout = &out
	cmd.Stderr = io.Discard
	if e.Stderr != nil {
		cmd.Stderr = e.Stderr
	}
	if e.Env != nil {
		cmd.Env = e.Env
	}

	runErr := cmd.Run()

	resp, err := decodeResponse(out.Bytes())
	if err != nil {
		if runErr != nil {
			return Response{}, fmt.Errorf("%w: %v", ErrNoResponse, runErr)
		}
		return Response{}, err
	}
	return resp, nil
}

// FuncSpawner runs the handler in-process through the same wire encoding.
type FuncSpawner Handler

// Spawn implements Spawner.
func (f FuncSpawner) Spawn(ctx context.Context, req Request) (Response, error) {
	var in, out bytes.Buffer
	if err := writeMessage(&in, req); err != nil {
		return Response{}, err
	}
	if err := Serve(ctx, &in, &out, Handler(f)); err != nil {
		return Response{}, err
	}
	return decodeResponse(out.Bytes())
}
