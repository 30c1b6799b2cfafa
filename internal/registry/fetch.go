package registry

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"
)

const modulesDir = "node_modules"

// Fetch resolves spec, plans a node_modules tree for name and its dependency
// closure, then downloads and unpacks every package into dir. Tarballs are
// fetched concurrently; the first failure cancels the rest.
func (h *HTTPClient) Fetch(ctx context.Context, name, spec, dir string) (string, error) {
	plan, err := h.Plan(ctx, name, spec)
	if err != nil {
		return "", err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)
	for _, pl := range plan {
		g.Go(func() error {
			data, err := h.download(gctx, pl.Manifest)
			if err != nil {
				return err
			}
			dest := filepath.Join(dir, filepath.FromSlash(pl.Path))
			if err := extract(data, dest); err != nil {
				return fmt.Errorf("unpacking %s@%s: %w", pl.Manifest.Name, pl.Manifest.Version, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return plan[0].Manifest.Version, nil
}

// Plan lays out name@spec and its dependency closure as a node_modules tree.
// The root package comes first. Dependencies are hoisted to the top-level
// node_modules unless a different version already occupies that slot, in
// which case they are nested under the package that needs them. A
// dependency already visible from a package's location with a satisfying
// version is reused.
func (h *HTTPClient) Plan(ctx context.Context, name, spec string) ([]Placement, error) {
	p, err := h.packument(ctx, name)
	if err != nil {
		return nil, err
	}
	root, err := resolveSpec(p, spec)
	if err != nil {
		return nil, err
	}
	if root.Name == "" {
		root.Name = name
	}

	placed := map[string]Manifest{}
	rootPath := path.Join(modulesDir, name)
	placed[rootPath] = root
	order := []Placement{{Path: rootPath, Manifest: root}}
	queue := []Placement{order[0]}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, dep := range sortedKeys(cur.Manifest.Dependencies) {
			rng := cur.Manifest.Dependencies[dep]

			if visibleSatisfies(placed, cur.Path, dep, rng) {
				continue
			}

			dp, err := h.packument(ctx, dep)
			if err != nil {
				return nil, fmt.Errorf("resolving dependency %s of %s: %w", dep, cur.Manifest.Name, err)
			}
			m, err := resolveSpec(dp, rng)
			if err != nil {
				return nil, fmt.Errorf("resolving dependency %s of %s: %w", dep, cur.Manifest.Name, err)
			}
			if m.Name == "" {
				m.Name = dep
			}

			target := path.Join(modulesDir, dep)
			if _, taken := placed[target]; taken {
				target = path.Join(cur.Path, modulesDir, dep)
			}
			placed[target] = m
			pl := Placement{Path: target, Manifest: m}
			order = append(order, pl)
			queue = append(queue, pl)
		}
	}
	return order, nil
}

// visibleSatisfies reports whether dep, as Node would find it from the
// package at from, is already placed with a version matching rng.
func visibleSatisfies(placed map[string]Manifest, from, dep, rng string) bool {
	for _, dir := range lookupDirs(from) {
		m, ok := placed[path.Join(dir, dep)]
		if !ok {
			continue
		}
		// The nearest placement shadows the rest.
		return satisfies(m.Version, rng)
	}
	return false
}

// lookupDirs lists the node_modules directories searched from a package
// location, nearest first. For "node_modules/a/node_modules/b" that is
// "node_modules/a/node_modules/b/node_modules", "node_modules/a/node_modules",
// and "node_modules".
func lookupDirs(from string) []string {
	dirs := []string{path.Join(from, modulesDir)}
	p := from
	for {
		idx := strings.LastIndex(p, "/"+modulesDir+"/")
		if idx < 0 {
			break
		}
		p = p[:idx]
		dirs = append(dirs, path.Join(p, modulesDir))
	}
	return append(dirs, modulesDir)
}

func satisfies(version, rng string) bool {
	rng = strings.TrimSpace(rng)
	if rng == "" || rng == "*" || rng == "latest" {
		return true
	}
	sv, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	c, err := semver.NewConstraint(rng)
	if err != nil {
		return version == rng
	}
	return c.Check(sv)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
