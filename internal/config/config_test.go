package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestDir_EnvOverride(t *testing.T) {
	t.Setenv("SVRX_HOME", "/tmp/svrx-home")
	if got := Dir(); got != "/tmp/svrx-home" {
		t.Errorf("Dir() = %q, want /tmp/svrx-home", got)
	}
	if got := FilePath(); got != filepath.Join("/tmp/svrx-home", "config.yaml") {
		t.Errorf("FilePath() = %q", got)
	}
}

func TestSetAndGet(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := filepath.Join(t.TempDir(), "home")
	t.Setenv("SVRX_HOME", home)
	Load()

	if err := Set(KeyVersion, "1.2.3"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := Get(KeyVersion); got != "1.2.3" {
		t.Errorf("Get(%q) = %q, want 1.2.3", KeyVersion, got)
	}

	data, err := os.ReadFile(FilePath())
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	if !strings.Contains(string(data), "1.2.3") {
		t.Errorf("config file does not contain the value: %s", data)
	}
}

func TestLoad_DefaultRegistry(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("SVRX_HOME", t.TempDir())
	Load()

	if got := Get(KeyRegistry); got != "https://registry.npmjs.org" {
		t.Errorf("default registry = %q", got)
	}
}

func TestSet_SilentIsBool(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("SVRX_HOME", t.TempDir())
	Load()

	if GetBool(KeySilent) {
		t.Fatal("silent should default to false")
	}
	if err := Set(KeySilent, "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, err := os.ReadFile(FilePath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "silent: true") {
		t.Errorf("expected YAML boolean, got:\n%s", data)
	}
	if err := Set(KeySilent, "maybe"); err == nil {
		t.Error("expected error for non-boolean silent")
	}
}

func TestSet_OverwritesExistingFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("SVRX_HOME", t.TempDir())
	Load()

	if err := Set(KeyVersion, "1.0.0"); err != nil {
		t.Fatal(err)
	}
	if err := Set(KeyVersion, "1.1.0"); err != nil {
		t.Fatal(err)
	}

	viper.Reset()
	Load()
	if got := Get(KeyVersion); got != "1.1.0" {
		t.Errorf("Get after reload = %q, want 1.1.0", got)
	}
}
