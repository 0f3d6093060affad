// Package core wires the engine packages together into the operations
// the CLI exposes: computing a plan, running a full sync, and the repo
// migration helpers.
package core

import (
	"github.com/arthur-debert/aurplan/pkg/aur"
	"github.com/arthur-debert/aurplan/pkg/config"
	"github.com/arthur-debert/aurplan/pkg/errors"
	"github.com/arthur-debert/aurplan/pkg/logging"
	"github.com/arthur-debert/aurplan/pkg/pacman"
	"github.com/arthur-debert/aurplan/pkg/plan"
	"github.com/arthur-debert/aurplan/pkg/resolve"
)

var log = logging.GetLogger("core")

// PlanOptions selects the configuration sources for a planning run.
type PlanOptions struct {
	// SyncPath overrides the sync.yml location; empty means the XDG default
	SyncPath string
	// PacmanConf overrides the pacman.conf passed to pacconf
	PacmanConf string
	// IgnoreRepos are configured repositories to leave out this run
	IgnoreRepos []string
	// Provider resolves AUR metadata; nil means the aurutils-backed client
	Provider aur.Provider
}

// PlanResult carries everything a planning run produced.
type PlanResult struct {
	Sync     *config.Sync
	Defaults *config.Defaults
	// FileRepos are the file-based repositories found in pacman.conf
	FileRepos map[string]pacman.FileRepo
	// Active are the configured repositories that exist on this machine
	// and were not ignored, in configuration order
	Active  []config.Repository
	Closure *resolve.Closure
	Result  *resolve.Result
	Plan    *plan.Plan
	// Options are the effective per-package build options
	Options map[string]plan.Options
}

// Aurdest returns the PKGBUILD checkout directory for this run.
func (r *PlanResult) Aurdest() string {
	return aur.Aurdest(r.Defaults.Paths.Aurdest)
}

// ComputePlan runs the planning pipeline: load configuration, expand the
// seed closure, assign repositories, merge overrides and order the work.
// Conflicts and lookup failures land in the result rather than aborting.
func ComputePlan(opts PlanOptions) (*PlanResult, error) {
	defaults, err := config.LoadDefaults()
	if err != nil {
		return nil, err
	}
	sync, err := config.LoadSync(config.SyncPath(opts.SyncPath))
	if err != nil {
		return nil, err
	}
	conf, err := pacman.LoadConf(opts.PacmanConf)
	if err != nil {
		return nil, err
	}
	fileRepos := pacman.CustomRepos(conf)

	active := activeRepos(sync.Repositories, fileRepos, opts.IgnoreRepos)
	if len(active) == 0 {
		return nil, errors.New(errors.ErrRepoNotFound,
			"none of the configured repositories exist in pacman.conf on this machine")
	}

	provider := opts.Provider
	if provider == nil {
		provider = aur.NewCached(aur.NewClient())
	}

	var seeds []string
	for _, repo := range active {
		seeds = append(seeds, repo.Seeds...)
	}

	closure := resolve.BuildClosure(provider, seeds)
	result := resolve.Assign(closure, active)
	placeUnclaimed(result, closure, active, pacman.FindPackageRepo)
	options := plan.MergeOptions(plan.Options{Chroot: defaults.Build.Chroot}, result.Assignment, sync.Overrides)

	buildFlags := append(append([]string(nil), defaults.Build.Flags...), sync.BuildFlags...)
	p := plan.Build(closure, result, active, options, buildFlags)

	return &PlanResult{
		Sync:      sync,
		Defaults:  defaults,
		FileRepos: fileRepos,
		Active:    active,
		Closure:   closure,
		Result:    result,
		Plan:      p,
		Options:   options,
	}, nil
}

// activeRepos filters the configured repositories down to the ones that
// can actually be synced right now.
func activeRepos(configured []config.Repository, fileRepos map[string]pacman.FileRepo, ignored []string) []config.Repository {
	skip := make(map[string]bool, len(ignored))
	for _, name := range ignored {
		skip[name] = true
	}

	var active []config.Repository
	for _, repo := range configured {
		if skip[repo.Name] {
			log.Info().Str("repo", repo.Name).Msg("Skipping repository on request")
			continue
		}
		if _, ok := fileRepos[repo.Name]; !ok {
			log.Info().Str("repo", repo.Name).Msg("Skipping repository: not present in pacman.conf on this machine")
			continue
		}
		active = append(active, repo)
	}
	return active
}
