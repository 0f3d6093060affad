package resolve

import (
	"sort"

	"github.com/arthur-debert/aurplan/pkg/config"
)

// Conflict is a package claimed by more than one repository with no seed
// to disambiguate. Conflicts are data for the operator, never resolved by
// tie-breaking.
type Conflict struct {
	Package string
	// Repos are the claiming repositories, sorted
	Repos []string
}

// Result is the outcome of repository assignment: the best-effort
// assignment for everything unambiguous, plus whatever needs human or
// retry attention. A Result with conflicts is partial success, not an
// error.
type Result struct {
	// Assignment maps every non-conflicted closure package to its repository
	Assignment map[string]string
	// Conflicts lists contested packages sorted by name
	Conflicts []Conflict
	// NotFound lists packages missing from the AUR, sorted
	NotFound []string
	// Unresolved lists packages whose lookup failed transiently, sorted
	Unresolved []string
}

// HasConflicts reports whether any package needs manual seed placement.
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Assign maps every closure package to a repository by propagating seed
// claims along dependency edges.
//
// Claims live on pkgbase groups, so split siblings always resolve
// together. A group seeded by exactly one repository is pinned there:
// authoritative, and its dependencies inherit only that repository, which
// is how an explicit seed resolves conflicts downstream of it. Unpinned
// groups forward every repository that reached them, so anything past a
// conflicted group inherits the whole contested set and conflicts too.
//
// Repositories claim in config order and all iteration is sorted, so
// identical input always produces an identical Result.
func Assign(closure *Closure, repos []config.Repository) *Result {
	pins := make(map[string][]string)   // group rep -> repos seeding it, config order
	claims := make(map[string]claimSet) // group rep -> repos that reached it

	for _, repo := range repos {
		for _, seed := range repo.Seeds {
			if _, ok := closure.Packages[seed]; !ok {
				// Failed resolution; already recorded in closure.Failures
				continue
			}
			rep := closure.Group(seed)
			if !contains(pins[rep], repo.Name) {
				pins[rep] = append(pins[rep], repo.Name)
			}
			claimsFor(claims, rep).add(repo.Name)
		}
	}

	names := closure.Names()
	for changed := true; changed; {
		changed = false
		for _, name := range names {
			rep := closure.Group(name)
			var outbound []string
			if pinned := pins[rep]; len(pinned) == 1 {
				outbound = pinned
			} else {
				outbound = claimsFor(claims, rep).sorted()
			}
			for _, dep := range closure.Packages[name].Depends {
				if _, ok := closure.Packages[dep]; !ok {
					continue
				}
				depSet := claimsFor(claims, closure.Group(dep))
				for _, repo := range outbound {
					if depSet.add(repo) {
						changed = true
					}
				}
			}
		}
	}

	result := &Result{Assignment: make(map[string]string)}
	for _, name := range names {
		rep := closure.Group(name)
		pinned := pins[rep]
		claimed := claimsFor(claims, rep).sorted()

		switch {
		case len(pinned) == 1:
			result.Assignment[name] = pinned[0]
		case len(pinned) > 1:
			// Siblings seeded into different repositories
			result.Conflicts = append(result.Conflicts, Conflict{Package: name, Repos: mergeSorted(pinned, claimed)})
		case len(claimed) == 1:
			result.Assignment[name] = claimed[0]
		case len(claimed) > 1:
			result.Conflicts = append(result.Conflicts, Conflict{Package: name, Repos: claimed})
		default:
			// Reachable only through failed lookups; nothing claims it
			log.Warn().Str("package", name).Msg("Package has no claiming repository, skipping")
			result.Unresolved = append(result.Unresolved, name)
		}
	}

	for name, failure := range closure.Failures {
		if failure.NotFound {
			result.NotFound = append(result.NotFound, name)
		} else {
			result.Unresolved = append(result.Unresolved, name)
		}
	}

	sort.Slice(result.Conflicts, func(i, j int) bool {
		return result.Conflicts[i].Package < result.Conflicts[j].Package
	})
	sort.Strings(result.NotFound)
	sort.Strings(result.Unresolved)

	log.Debug().
		Int("assigned", len(result.Assignment)).
		Int("conflicts", len(result.Conflicts)).
		Int("notFound", len(result.NotFound)).
		Int("unresolved", len(result.Unresolved)).
		Msg("Assignment computed")
	return result
}

type claimSet map[string]bool

func claimsFor(claims map[string]claimSet, rep string) claimSet {
	set, ok := claims[rep]
	if !ok {
		set = make(claimSet)
		claims[rep] = set
	}
	return set
}

func (s claimSet) add(repo string) bool {
	if s[repo] {
		return false
	}
	s[repo] = true
	return true
}

func (s claimSet) sorted() []string {
	if len(s) == 0 {
		return nil
	}
	repos := make([]string, 0, len(s))
	for repo := range s {
		repos = append(repos, repo)
	}
	sort.Strings(repos)
	return repos
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

func mergeSorted(a, b []string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, s := range append(append([]string(nil), a...), b...) {
		if !seen[s] {
			seen[s] = true
			merged = append(merged, s)
		}
	}
	sort.Strings(merged)
	return merged
}
