package plan

import (
	"sort"

	"github.com/arthur-debert/aurplan/pkg/config"
	"github.com/arthur-debert/aurplan/pkg/errors"
	"github.com/arthur-debert/aurplan/pkg/resolve"
)

// Unit is one package to ensure present in a repository.
type Unit struct {
	Package string
	// Base is the pkgbase the package is built from
	Base    string
	Repo    string
	Options Options
	// Depends lists the unit's AUR dependencies that are part of the
	// plan (any repository), sorted
	Depends []string
}

// RepoPlan is the ordered work for one repository. Units come
// dependency-before-dependent, ties broken lexically.
type RepoPlan struct {
	Repo  string
	Units []Unit
}

// Plan is the complete unit of work handed to the build step.
type Plan struct {
	// Repos in configuration order
	Repos []RepoPlan
	// BuildFlags passed to every aur-build invocation
	BuildFlags []string
}

// Packages returns every planned package name, sorted.
func (p *Plan) Packages() []string {
	var names []string
	for _, repo := range p.Repos {
		for _, unit := range repo.Units {
			names = append(names, unit.Package)
		}
	}
	sort.Strings(names)
	return names
}

// FilterBases returns the sub-plan containing only units built from the
// given pkgbases, preserving repository and unit order. Repositories left
// with no units are dropped.
func (p *Plan) FilterBases(bases map[string]bool) *Plan {
	filtered := &Plan{BuildFlags: p.BuildFlags}
	for _, repoPlan := range p.Repos {
		var units []Unit
		for _, unit := range repoPlan.Units {
			if bases[unit.Base] {
				units = append(units, unit)
			}
		}
		if len(units) > 0 {
			filtered.Repos = append(filtered.Repos, RepoPlan{Repo: repoPlan.Repo, Units: units})
		}
	}
	return filtered
}

// Build assembles the plan from the assignment. Repositories appear in
// config order; repositories with nothing assigned are omitted.
func Build(closure *resolve.Closure, result *resolve.Result, repos []config.Repository, options map[string]Options, buildFlags []string) *Plan {
	byRepo := make(map[string][]string)
	for name, repo := range result.Assignment {
		byRepo[repo] = append(byRepo[repo], name)
	}

	plan := &Plan{BuildFlags: buildFlags}
	for _, repo := range repos {
		members := byRepo[repo.Name]
		if len(members) == 0 {
			continue
		}
		ordered := topoSort(members, closure, result.Assignment, repo.Name)

		repoPlan := RepoPlan{Repo: repo.Name}
		for _, name := range ordered {
			repoPlan.Units = append(repoPlan.Units, Unit{
				Package: name,
				Base:    closure.Packages[name].Base,
				Repo:    repo.Name,
				Options: options[name],
				Depends: plannedDeps(name, closure, result.Assignment),
			})
		}
		plan.Repos = append(plan.Repos, repoPlan)
	}
	return plan
}

// plannedDeps returns the package's AUR deps that made it into the
// assignment, in sorted order.
func plannedDeps(name string, closure *resolve.Closure, assignment map[string]string) []string {
	var deps []string
	for _, dep := range closure.Packages[name].Depends {
		if _, ok := assignment[dep]; ok {
			deps = append(deps, dep)
		}
	}
	sort.Strings(deps)
	return deps
}

// topoSort orders a repository's packages dependency-first via Kahn's
// algorithm. Only edges within the repository order units; cross-repo
// edges are the ninja file's business. The lexically smallest ready
// package always goes next, making the order reproducible.
func topoSort(members []string, closure *resolve.Closure, assignment map[string]string, repo string) []string {
	inRepo := make(map[string]bool, len(members))
	for _, name := range members {
		inRepo[name] = true
	}

	indegree := make(map[string]int, len(members))
	dependents := make(map[string][]string)
	for _, name := range members {
		indegree[name] += 0
		for _, dep := range closure.Packages[name].Depends {
			if inRepo[dep] && assignment[dep] == repo {
				indegree[name]++
				dependents[dep] = append(dependents[dep], name)
			}
		}
	}

	var ready []string
	for name, deg := range indegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	var ordered []string
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		ordered = append(ordered, name)
		for _, dependent := range dependents[name] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = insertSorted(ready, dependent)
			}
		}
	}

	// Cycles within one repo (possible in AUR metadata) leave leftovers;
	// append them sorted so the plan stays total
	if len(ordered) < len(members) {
		var leftover []string
		seen := make(map[string]bool, len(ordered))
		for _, name := range ordered {
			seen[name] = true
		}
		for _, name := range members {
			if !seen[name] {
				leftover = append(leftover, name)
			}
		}
		sort.Strings(leftover)
		log.Warn().Strs("packages", leftover).Msg("Dependency cycle within repository, appending in lexical order")
		ordered = append(ordered, leftover...)
	}
	return ordered
}

func insertSorted(list []string, s string) []string {
	i := sort.SearchStrings(list, s)
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = s
	return list
}

// BaseOptions collapses per-package options onto pkgbases for the build
// step, which works per pkgbase. Split-package members disagreeing on
// options is a configuration contradiction the user has to fix.
func BaseOptions(plan *Plan) (map[string]Options, error) {
	byBase := make(map[string]Options)
	owner := make(map[string]string)
	for _, repo := range plan.Repos {
		for _, unit := range repo.Units {
			if prev, ok := byBase[unit.Base]; ok {
				if prev != unit.Options {
					return nil, errors.Newf(errors.ErrConfigValid,
						"inconsistent overrides for split package %s (members %s and %s disagree)",
						unit.Base, owner[unit.Base], unit.Package)
				}
				continue
			}
			byBase[unit.Base] = unit.Options
			owner[unit.Base] = unit.Package
		}
	}
	return byBase, nil
}
