package installer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/svrx-labs/svrx/internal/store"
	"github.com/svrx-labs/svrx/internal/task"
)

type panicSpawner struct{ t *testing.T }

func (p panicSpawner) Spawn(context.Context, task.Request) (task.Response, error) {
	p.t.Fatal("worker must not be spawned")
	return task.Response{}, nil
}

func TestInstall_AlreadyPresent(t *testing.T) {
	root := t.TempDir()
	c := &fakeClient{latest: "1.2.3", files: completeTree()}
	if _, err := newWorker(c).Execute(context.Background(), task.Request{Version: "1.2.3", VersionsRoot: root}); err != nil {
		t.Fatal(err)
	}

	inst := New(store.New(root, testEntry), panicSpawner{t}, nil)
	v, err := inst.Install(context.Background(), "1.2.3")
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if v != "1.2.3" {
		t.Errorf("Install = %q, want 1.2.3", v)
	}
}

func TestInstall_ThroughWorker(t *testing.T) {
	root := filepath.Join(t.TempDir(), "versions")
	c := &fakeClient{latest: "2.1.0", files: completeTree()}
	s := store.New(root, testEntry)

	inst := New(s, task.FuncSpawner(newWorker(c).Handler()), nil)
	v, err := inst.Install(context.Background(), "")
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if v != "2.1.0" {
		t.Errorf("Install = %q, want 2.1.0", v)
	}
	if !s.Exists("2.1.0") {
		t.Error("2.1.0 should be installed")
	}
}

func TestInstall_FailureWrapsErrInstallFailed(t *testing.T) {
	c := &fakeClient{latest: "1.0.0", fetchErr: errors.New("registry returned status 503")}
	inst := New(store.New(t.TempDir(), testEntry), task.FuncSpawner(newWorker(c).Handler()), nil)

	_, err := inst.Install(context.Background(), "1.0.0")
	if !errors.Is(err, ErrInstallFailed) {
		t.Fatalf("Install error = %v, want ErrInstallFailed", err)
	}
}
