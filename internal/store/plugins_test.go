package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func makePluginDirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0755); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPluginStore_List(t *testing.T) {
	root := t.TempDir()
	makePluginDirs(t, root,
		"webpack/1.0.0",
		"webpack/1.2.0",
		"livereload/0.3.1",
		"empty",
		"junk/not-a-version",
		".cache/1.0.0",
	)

	plugins, err := NewPluginStore(root).List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []Plugin{
		{Name: "livereload", Versions: []string{"0.3.1"}},
		{Name: "webpack", Versions: []string{"1.2.0", "1.0.0"}},
	}
	if !reflect.DeepEqual(plugins, want) {
		t.Errorf("List = %+v, want %+v", plugins, want)
	}
}

func TestPluginStore_ListMissingRoot(t *testing.T) {
	plugins, err := NewPluginStore(filepath.Join(t.TempDir(), "none")).List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plugins) != 0 {
		t.Errorf("expected no plugins, got %v", plugins)
	}
}

func TestPluginStore_Remove(t *testing.T) {
	root := t.TempDir()
	makePluginDirs(t, root, "webpack/1.0.0", "webpack/1.2.0")
	ps := NewPluginStore(root)

	ok, err := ps.RemoveVersion("webpack", "1.0.0")
	if err != nil || !ok {
		t.Fatalf("RemoveVersion = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = ps.RemoveVersion("webpack", "1.0.0")
	if err != nil || ok {
		t.Errorf("second RemoveVersion = (%v, %v), want (false, nil)", ok, err)
	}

	ok, err = ps.Remove("webpack")
	if err != nil || !ok {
		t.Fatalf("Remove = (%v, %v), want (true, nil)", ok, err)
	}
	if _, err := os.Stat(filepath.Join(root, "webpack")); !os.IsNotExist(err) {
		t.Error("plugin directory should be gone")
	}

	ok, err = ps.Remove("webpack")
	if err != nil || ok {
		t.Errorf("Remove of absent plugin = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestPluginStore_RemoveInvalidName(t *testing.T) {
	ps := NewPluginStore(t.TempDir())
	for _, name := range []string{"", "..", "a/b"} {
		if _, err := ps.Remove(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Remove(%q) error = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestPluginStore_RemoveAll(t *testing.T) {
	root := t.TempDir()
	makePluginDirs(t, root, "a/1.0.0", "b/2.0.0")

	n, err := NewPluginStore(root).RemoveAll()
	if err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if n != 2 {
		t.Errorf("removed %d, want 2", n)
	}
}
