// Package resolve contains the heart of aurplan: expanding seed packages
// into their transitive AUR dependency closure and assigning every
// package in it to exactly one repository, surfacing conflicts instead of
// guessing.
package resolve

import (
	"sort"

	"github.com/arthur-debert/aurplan/pkg/aur"
	"github.com/arthur-debert/aurplan/pkg/logging"
)

var log = logging.GetLogger("resolve")

// Failure records a package whose metadata could not be resolved.
type Failure struct {
	Package string
	Err     error
	// NotFound distinguishes "not in the AUR" (dropped with a warning)
	// from transient trouble (unresolved this run, retry next time)
	NotFound bool
}

// Closure is the set of packages reachable from the seeds, with their
// metadata and pkgbase grouping.
type Closure struct {
	// Packages maps every resolved package in the closure to its metadata
	Packages map[string]*aur.PackageInfo
	// Failures maps package name to why it could not be resolved
	Failures map[string]*Failure

	groups *unionFind
}

// BuildClosure walks the AUR dependency graph from the given seeds until
// exhaustion. Every package is resolved at most once (wrap the provider
// with aur.NewCached to hold that over multiple engine runs). Sibling
// packages sharing a pkgbase ride along even when nothing depends on
// them. Resolution failures never abort the walk; they are recorded and
// the affected edges terminate there.
func BuildClosure(provider aur.Provider, seeds []string) *Closure {
	closure := &Closure{
		Packages: make(map[string]*aur.PackageInfo),
		Failures: make(map[string]*Failure),
		groups:   newUnionFind(),
	}

	frontier := append([]string(nil), seeds...)
	visited := make(map[string]bool)
	baseOwner := make(map[string]string)
	for len(frontier) > 0 {
		name := frontier[0]
		frontier = frontier[1:]
		if visited[name] {
			continue
		}
		visited[name] = true

		info, err := provider.Resolve(name)
		if err != nil {
			if aur.IsNotFound(err) {
				log.Warn().Str("package", name).Msg("Package not found in AUR, dropping from closure")
				closure.Failures[name] = &Failure{Package: name, Err: err, NotFound: true}
			} else {
				log.Warn().Err(err).Str("package", name).Msg("Package resolution failed, leaving unresolved this run")
				closure.Failures[name] = &Failure{Package: name, Err: err}
			}
			continue
		}

		closure.Packages[name] = info
		closure.groups.find(name)
		// Same pkgbase means same group, whether or not the provider
		// reported the two as siblings of each other
		if owner, ok := baseOwner[info.Base]; ok {
			closure.groups.union(name, owner)
		} else {
			baseOwner[info.Base] = name
		}
		for _, sibling := range info.Siblings {
			closure.groups.union(name, sibling)
			frontier = append(frontier, sibling)
		}
		frontier = append(frontier, info.Depends...)
	}

	log.Debug().
		Int("packages", len(closure.Packages)).
		Int("failures", len(closure.Failures)).
		Msg("Closure built")
	return closure
}

// Names returns the resolved closure packages in sorted order.
func (c *Closure) Names() []string {
	names := make([]string, 0, len(c.Packages))
	for name := range c.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Group returns the representative of the pkgbase group a package belongs to.
func (c *Closure) Group(name string) string {
	return c.groups.find(name)
}

// Bases maps pkgbase to the closure packages built from it.
func (c *Closure) Bases() map[string][]string {
	bases := make(map[string][]string)
	for name, info := range c.Packages {
		bases[info.Base] = append(bases[info.Base], name)
	}
	for _, members := range bases {
		sort.Strings(members)
	}
	return bases
}
