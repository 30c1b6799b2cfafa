package updater

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/svrx-labs/svrx/internal/branding"
)

// CheckAndPrintBanner prints an update banner from the cached check and,
// when the cache is stale, refreshes it in a background goroutine for the
// next invocation. It never blocks on the network.
func (u *Updater) CheckAndPrintBanner(ctx context.Context, w io.Writer, configDir string) {
	if !IsReleaseVersion(u.currentVersion) {
		return
	}

	cache, err := LoadCache(configDir)
	if err != nil {
		// A corrupted cache is rewritten by the refresh below.
		cache = nil
	}

	if cache != nil && cache.CurrentVersion == u.currentVersion && cache.UpdateAvailable {
		PrintUpdateBanner(w, cache.CurrentVersion, cache.LatestVersion)
	}

	if IsCacheStale(cache, u.currentVersion, DefaultCacheMaxAge) {
		go func() { _, _ = u.Refresh(ctx, configDir) }()
	}
}

// PrintUpdateBanner prints the update notification to w.
func PrintUpdateBanner(w io.Writer, current, latest string) {
	fmt.Fprintf(w, "\nUpdate available: %s -> %s\n", current, latest)
	fmt.Fprintf(w, "    Run `npm install -g %s` to upgrade\n\n", branding.CLIPackage())
}

// Refresh runs Check within the updater's timeout and records the result in
// the cache file read by the banner.
func (u *Updater) Refresh(ctx context.Context, configDir string) (*Release, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	rel, err := u.Check(ctx)
	if err != nil {
		return nil, err
	}
	err = SaveCache(configDir, &VersionCache{
		LatestVersion:   rel.Latest,
		CurrentVersion:  u.currentVersion,
		CheckedAt:       time.Now(),
		UpdateAvailable: rel.UpdateAvailable,
	})
	if err != nil {
		return nil, err
	}
	return rel, nil
}
