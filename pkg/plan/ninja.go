package plan

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/aurplan/pkg/errors"
	"github.com/arthur-debert/aurplan/pkg/pacman"
)

// Ninja serializes a plan into a ninja build file driving aur-build, one
// stamp target per pkgbase. ninja then gives us incremental rebuilds,
// correct ordering across repositories and -k0 keep-going for free.
type Ninja struct {
	// SrcDir is the AURDEST checkout directory holding one subdirectory
	// per pkgbase
	SrcDir string
	// Repos maps repository name to its file repo from pacman.conf
	Repos map[string]pacman.FileRepo
	// Forced pkgbases build with --force even when up to date
	Forced map[string]bool
}

// Generate renders the ninja file contents for the plan.
func (n *Ninja) Generate(p *Plan) (string, error) {
	baseOptions, err := BaseOptions(p)
	if err != nil {
		return "", err
	}

	pkgBase := make(map[string]string)
	for _, repoPlan := range p.Repos {
		if _, ok := n.Repos[repoPlan.Repo]; !ok {
			return "", errors.Newf(errors.ErrRepoNotFound,
				"repository %s is configured but not in pacman.conf", repoPlan.Repo)
		}
		for _, unit := range repoPlan.Units {
			pkgBase[unit.Package] = unit.Base
		}
	}

	baseRepo := make(map[string]string)
	baseDeps := make(map[string]map[string]bool)
	for _, repoPlan := range p.Repos {
		for _, unit := range repoPlan.Units {
			baseRepo[unit.Base] = repoPlan.Repo
			deps, ok := baseDeps[unit.Base]
			if !ok {
				deps = make(map[string]bool)
				baseDeps[unit.Base] = deps
			}
			for _, dep := range unit.Depends {
				// Deps filtered out of this plan (already built) have no
				// stamp to order against
				if depBase, ok := pkgBase[dep]; ok && depBase != unit.Base {
					deps[depBase] = true
				}
			}
		}
	}

	var b strings.Builder
	for _, chroot := range []bool{false, true} {
		for _, force := range []bool{false, true} {
			n.writeRule(&b, chroot, force, p.BuildFlags)
		}
	}

	bases := make([]string, 0, len(baseRepo))
	for base := range baseRepo {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	for _, base := range bases {
		repo := n.Repos[baseRepo[base]]
		opts := baseOptions[base]

		var depStamps []string
		for dep := range baseDeps[base] {
			depStamps = append(depStamps, dep+".stamp")
		}
		sort.Strings(depStamps)

		fmt.Fprintf(&b, "build %s.stamp: aurbuild_%t_%t %s | %s\n",
			base, opts.Chroot, n.Forced[base],
			filepath.Join(n.SrcDir, base, "PKGBUILD"),
			strings.Join(depStamps, " "))
		fmt.Fprintf(&b, "    directory = %s\n", filepath.Join(n.SrcDir, base))
		fmt.Fprintf(&b, "    repo = %s\n", repo.Name)
		fmt.Fprintf(&b, "    root = %s\n", repo.Root)
	}
	return b.String(), nil
}

func (n *Ninja) writeRule(b *strings.Builder, chroot, force bool, buildFlags []string) {
	args := []string{"--clean", "--syncdeps", "-d", "${repo}", "--root", "${root}"}
	if chroot {
		args = append(args, "--chroot")
	} else {
		args = append(args, "--rmdeps")
	}
	if force {
		args = append(args, "--force")
	}
	args = append(args, buildFlags...)

	fmt.Fprintf(b, "rule aurbuild_%t_%t\n", chroot, force)
	fmt.Fprintf(b, "    command = env -C ${directory} -- aur build %s && date --rfc-3339=ns > ${out}\n",
		strings.Join(args, " "))
	fmt.Fprintf(b, "    pool = console\n")
}
