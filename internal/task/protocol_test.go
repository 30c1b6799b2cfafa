package task

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestServe_Success(t *testing.T) {
	in := strings.NewReader(`{"version":"1.2.3","versionsRoot":"/v"}` + "\n")
	var out bytes.Buffer

	var got Request
	err := Serve(context.Background(), in, &out, func(_ context.Context, req Request) (string, error) {
		got = req
		return req.Version, nil
	})
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}

	if got.Version != "1.2.3" || got.VersionsRoot != "/v" {
		t.Errorf("handler received %+v", got)
	}
	if out.String() != `{"version":"1.2.3"}`+"\n" {
		t.Errorf("response = %q", out.String())
	}
}

func TestServe_HandlerError(t *testing.T) {
	var out bytes.Buffer
	err := Serve(context.Background(), strings.NewReader(`{"versionsRoot":"/v"}`), &out, func(context.Context, Request) (string, error) {
		return "", errors.New("registry unreachable")
	})
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}

	var resp Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != "registry unreachable" || resp.Version != "" {
		t.Errorf("response = %+v", resp)
	}
}

func TestServe_MalformedRequest(t *testing.T) {
	var out bytes.Buffer
	called := false
	err := Serve(context.Background(), strings.NewReader("not json"), &out, func(context.Context, Request) (string, error) {
		called = true
		return "", nil
	})
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if called {
		t.Error("handler should not run for a malformed request")
	}
	if !strings.Contains(out.String(), "reading install request") {
		t.Errorf("response = %q", out.String())
	}
}

func TestServe_Panic(t *testing.T) {
	var out bytes.Buffer
	err := Serve(context.Background(), strings.NewReader(`{}`), &out, func(context.Context, Request) (string, error) {
		panic("kaboom")
	})
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if n := strings.Count(out.String(), "\n"); n != 1 {
		t.Errorf("expected exactly one response line, got %d", n)
	}
	if !strings.Contains(out.String(), "kaboom") {
		t.Errorf("response = %q", out.String())
	}
}

func TestRun_FuncSpawner(t *testing.T) {
	s := FuncSpawner(func(_ context.Context, req Request) (string, error) {
		if req.Version == "" {
			return "2.0.0", nil
		}
		return "", errors.New("no such version " + req.Version)
	})

	v, err := Run(context.Background(), s, Request{VersionsRoot: "/v"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v != "2.0.0" {
		t.Errorf("Run = %q, want 2.0.0", v)
	}

	_, err = Run(context.Background(), s, Request{Version: "9.9.9", VersionsRoot: "/v"})
	if err == nil || err.Error() != "no such version 9.9.9" {
		t.Errorf("Run error = %v", err)
	}
}

func TestRun_EmptyVersion(t *testing.T) {
	s := FuncSpawner(func(context.Context, Request) (string, error) { return "", nil })
	if _, err := Run(context.Background(), s, Request{}); err == nil {
		t.Error("expected error for empty version")
	}
}

func TestDecodeResponse(t *testing.T) {
	resp, err := decodeResponse([]byte("npm WARN something\n{\"version\":\"1.0.0\"}\n\n"))
	if err != nil {
		t.Fatalf("decodeResponse: %v", err)
	}
	if resp.Version != "1.0.0" {
		t.Errorf("Version = %q", resp.Version)
	}

	if _, err := decodeResponse(nil); !errors.Is(err, ErrNoResponse) {
		t.Errorf("empty output error = %v, want ErrNoResponse", err)
	}
}
