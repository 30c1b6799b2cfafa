package updater

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/svrx-labs/svrx/internal/branding"
)

// TagSource looks up dist-tags for a package. registry.Client satisfies it.
type TagSource interface {
	DistTags(ctx context.Context, name string) (map[string]string, error)
}

// Updater checks the registry for CLI releases.
type Updater struct {
	currentVersion string
	source         TagSource
	pkg            string
	tag            string
	timeout        time.Duration
}

// Option configures an Updater.
type Option func(*Updater)

// WithPackage overrides the package whose dist-tag is checked.
func WithPackage(name string) Option {
	return func(u *Updater) {
		u.pkg = name
	}
}

// WithTag overrides the dist-tag considered the latest release.
func WithTag(tag string) Option {
	return func(u *Updater) {
		u.tag = tag
	}
}

// WithTimeout bounds the background refresh.
func WithTimeout(d time.Duration) Option {
	return func(u *Updater) {
		u.timeout = d
	}
}

// New creates an Updater with the given current version, tag source and
// options.
func New(currentVersion string, source TagSource, opts ...Option) *Updater {
	u := &Updater{
		currentVersion: currentVersion,
		source:         source,
		pkg:            branding.CLIPackage(),
		tag:            "latest",
		timeout:        10 * time.Second,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// CurrentVersion returns the version this updater was created with.
func (u *Updater) CurrentVersion() string {
	return u.currentVersion
}

// CheckLatestVersion returns the version the registry tags as latest.
func (u *Updater) CheckLatestVersion(ctx context.Context) (string, error) {
	tags, err := u.source.DistTags(ctx, u.pkg)
	if err != nil {
		return "", fmt.Errorf("fetching dist-tags for %s: %w", u.pkg, err)
	}
	latest, ok := tags[u.tag]
	if !ok || latest == "" {
		return "", fmt.Errorf("package %s has no %q dist-tag", u.pkg, u.tag)
	}
	return latest, nil
}

// Release is the outcome of one check against the registry.
type Release struct {
	Latest          string
	UpdateAvailable bool
}

// Check looks up the tagged release and compares it with the running
// version. A development build always has an update available.
func (u *Updater) Check(ctx context.Context) (*Release, error) {
	latest, err := u.CheckLatestVersion(ctx)
	if err != nil {
		return nil, err
	}
	lv, err := semver.NewVersion(latest)
	if err != nil {
		return nil, fmt.Errorf("%s dist-tag %q of %s is not a version: %w", u.tag, latest, u.pkg, err)
	}

	rel := &Release{Latest: latest, UpdateAvailable: true}
	if cv, err := semver.NewVersion(u.currentVersion); err == nil {
		rel.UpdateAvailable = cv.LessThan(lv)
	}
	return rel, nil
}

// IsReleaseVersion reports whether v parses as a version. Builds without one
// ("dev", "") skip the startup check.
func IsReleaseVersion(v string) bool {
	_, err := semver.NewVersion(v)
	return err == nil
}
