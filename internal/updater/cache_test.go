package updater

import (
	"os"
	"testing"
	"time"
)

func TestLoadCache_Missing(t *testing.T) {
	cache, err := LoadCache(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache != nil {
		t.Error("expected nil cache for missing file")
	}
}

func TestSaveCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	checked := time.Now().Add(-time.Hour).Truncate(time.Second)

	if err := SaveCache(dir, &VersionCache{
		LatestVersion:   "1.2.0",
		CurrentVersion:  "1.1.0",
		CheckedAt:       checked,
		UpdateAvailable: true,
	}); err != nil {
		t.Fatalf("SaveCache failed: %v", err)
	}

	loaded, err := LoadCache(dir)
	if err != nil {
		t.Fatalf("LoadCache failed: %v", err)
	}
	if loaded.LatestVersion != "1.2.0" || !loaded.UpdateAvailable || !loaded.CheckedAt.Equal(checked) {
		t.Errorf("unexpected cache: %+v", loaded)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the cache file, found %d entries", len(entries))
	}
}

func TestSaveCache_CreatesDir(t *testing.T) {
	dir := t.TempDir() + "/nested/config"
	if err := SaveCache(dir, &VersionCache{LatestVersion: "1.0.0"}); err != nil {
		t.Fatalf("SaveCache failed: %v", err)
	}
	if _, err := os.Stat(CachePath(dir)); err != nil {
		t.Errorf("cache file missing: %v", err)
	}
}

func TestLoadCache_Corrupted(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(CachePath(dir), []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCache(dir); err == nil {
		t.Error("expected error for corrupted cache")
	}
}

func TestIsCacheStale(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		cache *VersionCache
		want  bool
	}{
		{"nil cache", nil, true},
		{"fresh", &VersionCache{CurrentVersion: "1.0.0", CheckedAt: now}, false},
		{"six days old", &VersionCache{CurrentVersion: "1.0.0", CheckedAt: now.Add(-6 * 24 * time.Hour)}, false},
		{"eight days old", &VersionCache{CurrentVersion: "1.0.0", CheckedAt: now.Add(-8 * 24 * time.Hour)}, true},
		{"written by another version", &VersionCache{CurrentVersion: "0.9.0", CheckedAt: now}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCacheStale(tt.cache, "1.0.0", DefaultCacheMaxAge); got != tt.want {
				t.Errorf("IsCacheStale = %v, want %v", got, tt.want)
			}
		})
	}
}
