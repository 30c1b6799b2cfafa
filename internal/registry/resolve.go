package registry

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// resolveSpec picks the manifest matching spec:
//   - "" or "*": highest stable version, falling back to the latest dist-tag
//   - an exact version
//   - a dist-tag name
//   - a semver range, yielding its highest match
func resolveSpec(p *Packument, spec string) (Manifest, error) {
	spec = strings.TrimSpace(spec)

	if spec == "" || spec == "*" {
		if m, ok := highest(p, nil, false); ok {
			return m, nil
		}
		if tagged, ok := p.DistTags["latest"]; ok {
			if m, ok := p.Versions[tagged]; ok {
				return m, nil
			}
		}
		return Manifest{}, fmt.Errorf("%s has no stable release: %w", p.Name, ErrNotFound)
	}

	if m, ok := p.Versions[spec]; ok {
		return withVersion(m, spec), nil
	}

	if tagged, ok := p.DistTags[spec]; ok {
		m, ok := p.Versions[tagged]
		if !ok {
			return Manifest{}, fmt.Errorf("%s@%s points at unpublished version %s: %w", p.Name, spec, tagged, ErrNotFound)
		}
		return withVersion(m, tagged), nil
	}

	if _, err := semver.StrictNewVersion(spec); err == nil {
		return Manifest{}, fmt.Errorf("%s@%s: %w", p.Name, spec, ErrNotFound)
	}

	c, err := semver.NewConstraint(spec)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s@%s: not a version, tag, or range: %w", p.Name, spec, err)
	}
	m, ok := highest(p, c, true)
	if !ok {
		return Manifest{}, fmt.Errorf("no version of %s satisfies %s: %w", p.Name, spec, ErrNotFound)
	}
	return m, nil
}

// highest returns the highest version accepted by c (nil accepts all).
// Prereleases are only considered when allowPre is set, and then only if
// the constraint admits them.
func highest(p *Packument, c *semver.Constraints, allowPre bool) (Manifest, bool) {
	var best *semver.Version
	var bestManifest Manifest
	for v, m := range p.Versions {
		sv, err := semver.StrictNewVersion(v)
		if err != nil {
			continue
		}
		if sv.Prerelease() != "" && !allowPre {
			continue
		}
		if c != nil && !c.Check(sv) {
			continue
		}
		if best == nil || sv.GreaterThan(best) {
			best = sv
			bestManifest = withVersion(m, v)
		}
	}
	return bestManifest, best != nil
}

// withVersion fills in the version for abbreviated manifests that omit it.
func withVersion(m Manifest, v string) Manifest {
	if m.Version == "" {
		m.Version = v
	}
	return m
}
