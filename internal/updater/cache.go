package updater

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const (
	cacheFileName = "version-check.json"
	// DefaultCacheMaxAge is how long a version check stays fresh.
	DefaultCacheMaxAge = 7 * 24 * time.Hour
)

// VersionCache is the last update check, stored as JSON in the config
// directory.
type VersionCache struct {
	LatestVersion   string    `json:"latest_version"`
	CurrentVersion  string    `json:"current_version"`
	CheckedAt       time.Time `json:"checked_at"`
	UpdateAvailable bool      `json:"update_available"`
}

// CachePath returns the cache file location inside configDir.
func CachePath(configDir string) string {
	return filepath.Join(configDir, cacheFileName)
}

// LoadCache reads the cache. A missing file yields nil, nil.
func LoadCache(configDir string) (*VersionCache, error) {
	data, err := os.ReadFile(CachePath(configDir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading version cache: %w", err)
	}

	cache := &VersionCache{}
	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("parsing version cache: %w", err)
	}
	return cache, nil
}

// SaveCache replaces the cache file. The new content is written next to it
// and renamed into place so a concurrent reader never sees half a file.
func SaveCache(configDir string, cache *VersionCache) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling version cache: %w", err)
	}

	tmp, err := os.CreateTemp(configDir, cacheFileName+".*")
	if err != nil {
		return fmt.Errorf("writing version cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing version cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing version cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), CachePath(configDir)); err != nil {
		return fmt.Errorf("writing version cache: %w", err)
	}
	return nil
}

// IsCacheStale reports whether the cache is nil, older than maxAge, or was
// written by a different CLI version.
func IsCacheStale(cache *VersionCache, current string, maxAge time.Duration) bool {
	switch {
	case cache == nil:
		return true
	case cache.CurrentVersion != current:
		return true
	default:
		return time.Since(cache.CheckedAt) > maxAge
	}
}
