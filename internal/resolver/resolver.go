// Package resolver chooses the core version a command runs against.
package resolver

import "fmt"

// Source records where a resolved version came from.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceConfig   Source = "config"
	SourceLocal    Source = "local"
	SourceRemote   Source = "remote"
)

// LocalSource is the part of the version store the resolver needs.
type LocalSource interface {
	Exists(version string) bool
	LatestLocal() (string, bool, error)
}

// Decision is the outcome of resolution. An empty Version with SourceRemote
// means "whatever the registry calls latest".
type Decision struct {
	Version      string
	Source       Source
	NeedsInstall bool
}

// Resolve applies the priority order explicit > configured > latest local.
// When none of them yields a version the decision asks for a remote install
// of the registry's latest stable release. Absence is never an error; only a
// failure to scan the store is.
func Resolve(explicit, configured string, local LocalSource) (Decision, error) {
	if explicit != "" {
		return decide(explicit, SourceExplicit, local), nil
	}
	if configured != "" {
		return decide(configured, SourceConfig, local), nil
	}

	latest, ok, err := local.LatestLocal()
	if err != nil {
		return Decision{}, fmt.Errorf("finding latest local version: %w", err)
	}
	if ok {
		return decide(latest, SourceLocal, local), nil
	}
	return Decision{Source: SourceRemote, NeedsInstall: true}, nil
}

func decide(version string, src Source, local LocalSource) Decision {
	return Decision{
		Version:      version,
		Source:       src,
		NeedsInstall: !local.Exists(version),
	}
}
