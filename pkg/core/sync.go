package core

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/aurplan/pkg/aur"
	"github.com/arthur-debert/aurplan/pkg/errors"
	"github.com/arthur-debert/aurplan/pkg/plan"
	"github.com/arthur-debert/aurplan/pkg/run"
)

// SyncOptions controls a full sync run.
type SyncOptions struct {
	PlanOptions

	// Update checks local repositories against the AUR for newer versions
	Update bool
	// VCS checks VCS packages for new upstream commits
	VCS bool
	// Ignore packages are skipped this run
	Ignore []string
	// ForceRebuild packages build even when up to date
	ForceRebuild []string

	NoDownload bool
	NoView     bool
	NoBuild    bool
}

// SyncResult reports what a sync run did, or why it stopped short.
type SyncResult struct {
	Plan *PlanResult
	// Targets are the packages this run decided to build, sorted
	Targets []string
	// Bases are the pkgbases the targets expand to, sorted
	Bases []string
	// BuildPlan is the plan pruned down to the target pkgbases
	BuildPlan *plan.Plan
	// NinjaDir holds build.ninja and the stamps; kept on failure, empty
	// after a fully successful build
	NinjaDir string
	// Aborted is set when the user rejected the PKGBUILD review
	Aborted bool
	// BuildFailed is set when ninja exited non-zero
	BuildFailed bool
	// Statuses is the per-pkgbase outcome report after a failed build
	Statuses []BuildStatus
}

// NothingToDo reports whether target selection came up empty.
func (r *SyncResult) NothingToDo() bool {
	return len(r.Targets) == 0
}

// Sync runs the whole pipeline: plan, select targets, fetch PKGBUILDs,
// interactive review, then hand the build plan to ninja. The returned
// result distinguishes "nothing to do", "user aborted" and "build failed"
// from hard errors.
func Sync(opts SyncOptions) (*SyncResult, error) {
	pr, err := ComputePlan(opts.PlanOptions)
	if err != nil {
		return nil, err
	}
	res := &SyncResult{Plan: pr}

	inRepos, err := packagesInRepos(pr)
	if err != nil {
		return nil, err
	}

	in := targetInputs{
		Planned:      pr.Plan.Packages(),
		InRepos:      inRepos,
		ForceRebuild: opts.ForceRebuild,
		Ignore:       opts.Ignore,
	}
	if opts.Update {
		if in.Outdated, err = aur.VercmpOutdated(inRepos); err != nil {
			return nil, err
		}
	}
	if opts.VCS {
		var names []string
		for _, repo := range pr.Active {
			names = append(names, repo.Name)
		}
		if in.VCSOutdated, err = aur.VercmpDevel(names); err != nil {
			return nil, err
		}
	}
	versions := make(map[string]string, len(in.Planned))
	for _, name := range in.Planned {
		versions[name] = pr.Closure.Packages[name].Version
	}
	if in.Current, err = aur.VercmpCurrent(versions, inRepos); err != nil {
		return nil, err
	}

	res.Targets = selectTargets(in)
	if res.NothingToDo() {
		return res, nil
	}

	bases := make(map[string]bool, len(res.Targets))
	for _, name := range res.Targets {
		bases[pr.Closure.Packages[name].Base] = true
	}
	res.BuildPlan = pr.Plan.FilterBases(bases)
	for base := range bases {
		res.Bases = append(res.Bases, base)
	}
	sort.Strings(res.Bases)

	aurdest := pr.Aurdest()
	if !opts.NoDownload {
		if _, err := aur.Fetch(res.Bases, aurdest); err != nil {
			return nil, err
		}
	}
	if !opts.NoView {
		ok, err := aur.View(res.Bases, aurdest)
		if err != nil {
			return nil, err
		}
		if !ok {
			res.Aborted = true
			return res, nil
		}
	}

	forced := make(map[string]bool)
	for _, name := range opts.ForceRebuild {
		if info, ok := pr.Closure.Packages[name]; ok {
			forced[info.Base] = true
		}
	}
	ninja := &plan.Ninja{SrcDir: aurdest, Repos: pr.FileRepos, Forced: forced}
	contents, err := ninja.Generate(res.BuildPlan)
	if err != nil {
		return nil, err
	}

	dir, err := ninjaDir()
	if err != nil {
		return nil, err
	}
	res.NinjaDir = dir
	if err := os.WriteFile(filepath.Join(dir, "build.ninja"), []byte(contents), 0644); err != nil {
		return nil, errors.Wrap(err, errors.ErrPlanWrite, "failed to write build.ninja")
	}
	if opts.NoBuild {
		return res, nil
	}

	code, err := run.Interactive([]string{"ninja", "-k0"},
		run.Opts{Dir: dir, Env: []string{"NINJA_STATUS=[%s/%t] "}})
	if err != nil {
		return nil, err
	}
	if code != 0 {
		res.BuildFailed = true
		statuses, err := BuildReport(dir)
		if err != nil {
			log.Warn().Err(err).Msg("Could not produce build report")
		}
		res.Statuses = statuses
		return res, nil
	}

	// Stamps only mean something within the run that wrote them
	_ = os.RemoveAll(dir)
	res.NinjaDir = ""
	return res, nil
}

// ninjaDir creates the directory ninja runs in. The XDG runtime dir is
// preferred since stamps are per-session scratch.
func ninjaDir() (string, error) {
	base := ""
	if xdg.RuntimeDir != "" {
		base = filepath.Join(xdg.RuntimeDir, "aurplan")
		if err := os.MkdirAll(base, 0700); err != nil {
			return "", errors.Wrapf(err, errors.ErrInternal, "failed to create %s", base)
		}
	}
	dir, err := os.MkdirTemp(base, "ninja-")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to create ninja directory")
	}
	return dir, nil
}
