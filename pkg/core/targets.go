package core

import "sort"

// targetInputs are the facts target selection works from. Everything here
// is plain data so the selection rules can be tested without spawning
// aur(1).
type targetInputs struct {
	// Planned is every package the plan wants present, any repository
	Planned []string
	// InRepos maps packages already in the local repositories to their version
	InRepos map[string]string
	// Outdated packages have a newer version in the AUR
	Outdated []string
	// VCSOutdated packages have new upstream commits
	VCSOutdated []string
	// Current packages are already up to date locally
	Current []string
	// ForceRebuild packages build even when current
	ForceRebuild []string
	// Ignore packages are skipped this run
	Ignore []string
}

// selectTargets picks the packages this run should build: planned packages
// missing from the local repositories, plus whatever update checks flagged,
// minus everything already current or explicitly ignored. Force-rebuild
// wins over current, ignore wins over everything.
func selectTargets(in targetInputs) []string {
	planned := toSet(in.Planned)
	vcs := toSet(in.VCSOutdated)
	force := toSet(in.ForceRebuild)
	ignore := toSet(in.Ignore)

	targets := make(map[string]bool)
	for _, name := range in.Planned {
		if _, ok := in.InRepos[name]; !ok {
			targets[name] = true
		}
	}
	for _, name := range in.Outdated {
		if planned[name] {
			targets[name] = true
		}
	}
	for _, name := range in.VCSOutdated {
		if planned[name] {
			targets[name] = true
		}
	}
	for _, name := range in.ForceRebuild {
		if planned[name] {
			targets[name] = true
		} else {
			log.Warn().Str("package", name).Msg("Force-rebuild package is not part of the plan, ignoring")
		}
	}

	for _, name := range in.Current {
		if !vcs[name] && !force[name] {
			delete(targets, name)
		}
	}
	for name := range ignore {
		delete(targets, name)
	}

	var sorted []string
	for name := range targets {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	return sorted
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
