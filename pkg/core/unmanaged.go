package core

import (
	"sort"

	"github.com/arthur-debert/aurplan/pkg/aur"
	"github.com/arthur-debert/aurplan/pkg/resolve"
)

// Unmanaged lists the packages present in the local repositories that the
// configuration does not account for: neither seeded nor reachable as a
// dependency of anything seeded. Candidates for adoption into sync.yml,
// or for removal.
func Unmanaged(opts PlanOptions) ([]string, error) {
	pr, err := ComputePlan(opts)
	if err != nil {
		return nil, err
	}
	inRepos, err := packagesInRepos(pr)
	if err != nil {
		return nil, err
	}
	return unmanagedDiff(inRepos, pr.Closure), nil
}

// unmanagedDiff diffs the repository contents against the closure. Names
// whose lookup failed this run are not flagged: they may well be
// accounted for, we just could not prove it.
func unmanagedDiff(inRepos map[string]string, closure *resolve.Closure) []string {
	var extra []string
	for name := range inRepos {
		if _, ok := closure.Packages[name]; ok {
			continue
		}
		if _, ok := closure.Failures[name]; ok {
			continue
		}
		extra = append(extra, name)
	}
	sort.Strings(extra)
	return extra
}

// packagesInRepos aggregates name → version over every active repository.
func packagesInRepos(pr *PlanResult) (map[string]string, error) {
	inRepos := make(map[string]string)
	for _, repo := range pr.Active {
		listing, err := aur.ListRepo(pr.FileRepos[repo.Name])
		if err != nil {
			return nil, err
		}
		for name, version := range listing {
			inRepos[name] = version
		}
	}
	return inRepos, nil
}
