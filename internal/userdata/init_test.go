package userdata

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureLayout_CreatesStructure(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "home")
	l, err := ResolveLayout(tmp)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := EnsureLayout(&buf, l); err != nil {
		t.Fatalf("EnsureLayout failed: %v", err)
	}

	assertDirExists(t, l.Home)
	assertDirExists(t, l.Versions)
	assertDirExists(t, l.Plugins)

	if !strings.Contains(buf.String(), "[ OK ]") {
		t.Error("expected [ OK ] in output")
	}
}

func TestEnsureLayout_Idempotent(t *testing.T) {
	l, err := ResolveLayout(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	var buf1 bytes.Buffer
	if err := EnsureLayout(&buf1, l); err != nil {
		t.Fatalf("first EnsureLayout failed: %v", err)
	}

	// A second run reports SKIP for every directory.
	var buf2 bytes.Buffer
	if err := EnsureLayout(&buf2, l); err != nil {
		t.Fatalf("second EnsureLayout failed: %v", err)
	}
	if !strings.Contains(buf2.String(), "[SKIP]") {
		t.Error("expected [SKIP] messages in second run")
	}
}

func TestEnsureLayout_FileInTheWay(t *testing.T) {
	tmp := t.TempDir()
	l, err := ResolveLayout(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(l.Versions, []byte("not a dir"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err = EnsureLayout(&buf, l)
	if err == nil {
		t.Fatal("expected error when versions root is a file")
	}
	if !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("unexpected error: %v", err)
	}
}

func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("directory %s does not exist: %v", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("%s is not a directory", path)
	}
}
