package task

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Request asks the worker to install a version into a version root. An empty
// Version means the registry's latest stable release.
type Request struct {
	Version      string `json:"version,omitempty"`
	VersionsRoot string `json:"versionsRoot"`
}

// Response carries either the installed version or an error message.
type Response struct {
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Handler performs the work for one request and returns the resolved version.
type Handler func(ctx context.Context, req Request) (string, error)

// ErrNoResponse is returned when a worker terminates without answering.
var ErrNoResponse = errors.New("install task exited without a response")

// Serve reads exactly one request from in, runs h, and writes exactly one
// response to out. Malformed requests and handler panics become error
// responses. The returned error only reports a failure to write.
func Serve(ctx context.Context, in io.Reader, out io.Writer, h Handler) error {
	var req Request
	resp := Response{}

	if err := json.NewDecoder(in).Decode(&req); err != nil {
		resp.Error = fmt.Sprintf("reading install request: %v", err)
	} else {
		version, err := safeCall(ctx, h, req)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Version = version
		}
	}

	return writeMessage(out, resp)
}

// Run hands req to s and turns the response into a version or an error.
func Run(ctx context.Context, s Spawner, req Request) (string, error) {
	resp, err := s.Spawn(ctx, req)
	if err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", errors.New(resp.Error)
	}
	if resp.Version == "" {
		return "", fmt.Errorf("install task returned an empty version")
	}
	return resp.Version, nil
}

func safeCall(ctx context.Context, h Handler, req Request) (version string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("install task panicked: %v", r)
		}
	}()
	return h(ctx, req)
}

func writeMessage(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	return nil
}

// decodeResponse finds the response in a worker's output. The response is
// the last non-empty line; anything a chatty dependency printed before it is
// ignored.
func decodeResponse(output []byte) (Response, error) {
	var last []byte
	sc := bufio.NewScanner(bytes.NewReader(output))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := bytes.TrimSpace(sc.Bytes()); len(line) > 0 {
			last = append(last[:0], line...)
		}
	}
	if len(last) == 0 {
		return Response{}, ErrNoResponse
	}

	var resp Response
	if err := json.Unmarshal(last, &resp); err != nil {
		return Response{}, fmt.Errorf("parsing install task response: %w", err)
	}
	return resp, nil
}
