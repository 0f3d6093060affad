package core

import (
	"sort"

	"github.com/arthur-debert/aurplan/pkg/config"
	"github.com/arthur-debert/aurplan/pkg/resolve"
)

// repoFinder asks pacman which repositories already carry a package;
// pacman.FindPackageRepo in production, a stub in tests.
type repoFinder func(pkg string) ([][2]string, error)

// placeUnclaimed is the last placement resort for resolved packages no
// repository claimed: when exactly one of the configured repositories
// already carries the package, it stays there. Packages that only entered
// the closure through failed lookups, or that several (or no) configured
// repositories carry, remain unresolved for the operator.
func placeUnclaimed(result *resolve.Result, closure *resolve.Closure, active []config.Repository, find repoFinder) {
	if len(result.Unresolved) == 0 {
		return
	}
	activeNames := make(map[string]bool, len(active))
	for _, repo := range active {
		activeNames[repo.Name] = true
	}

	var still []string
	for _, name := range result.Unresolved {
		if _, ok := closure.Packages[name]; !ok {
			still = append(still, name)
			continue
		}
		hits, err := find(name)
		if err != nil {
			log.Warn().Err(err).Str("package", name).Msg("Could not look up existing repository for package")
			still = append(still, name)
			continue
		}

		candidates := make(map[string]bool)
		for _, hit := range hits {
			if activeNames[hit[0]] {
				candidates[hit[0]] = true
			}
		}
		if len(candidates) != 1 {
			log.Warn().Str("package", name).Int("candidates", len(candidates)).
				Msg("No unambiguous existing repository for unclaimed package, manual configuration required")
			still = append(still, name)
			continue
		}
		for repo := range candidates {
			result.Assignment[name] = repo
			log.Info().Str("package", name).Str("repo", repo).
				Msg("Placed unclaimed package in the repository that already carries it")
		}
	}
	sort.Strings(still)
	result.Unresolved = still
}
