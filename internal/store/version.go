package store

import (
	"sort"

	"github.com/Masterminds/semver/v3"
)

// IsValid reports whether v is a syntactically valid semantic version in its
// canonical MAJOR.MINOR.PATCH form. Prefixes such as "v" and short forms such
// as "1.2" are rejected, since they never name an installed directory.
func IsValid(v string) bool {
	_, err := semver.StrictNewVersion(v)
	return err == nil
}

// IsPrerelease reports whether v carries prerelease identifiers.
// Invalid versions are not prereleases.
func IsPrerelease(v string) bool {
	sv, err := semver.StrictNewVersion(v)
	if err != nil {
		return false
	}
	return sv.Prerelease() != ""
}

// Compare orders two versions by semantic-version precedence.
// Returns -1 if a < b, 0 if equal, 1 if a > b. Invalid versions sort below
// every valid version and compare equal to each other.
func Compare(a, b string) int {
	av, aerr := semver.StrictNewVersion(a)
	bv, berr := semver.StrictNewVersion(b)
	switch {
	case aerr != nil && berr != nil:
		return 0
	case aerr != nil:
		return -1
	case berr != nil:
		return 1
	}
	return av.Compare(bv)
}

// SortDescending sorts versions in place from highest to lowest precedence.
func SortDescending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		return Compare(versions[i], versions[j]) > 0
	})
}

// Latest picks the preferred version from the set. A stable version always
// beats a prerelease, even a numerically higher one; within the same class
// standard precedence applies. The boolean is false for an empty or fully
// invalid set.
func Latest(versions []string) (string, bool) {
	var best string
	found := false
	for _, v := range versions {
		if !IsValid(v) {
			continue
		}
		if !found || preferred(v, best) {
			best = v
			found = true
		}
	}
	return best, found
}

// preferred reports whether a should win over b.
func preferred(a, b string) bool {
	ap, bp := IsPrerelease(a), IsPrerelease(b)
	if ap != bp {
		return !ap
	}
	return Compare(a, b) > 0
}
