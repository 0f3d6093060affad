package core

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/aurplan/pkg/aur"
	"github.com/arthur-debert/aurplan/pkg/config"
	"github.com/arthur-debert/aurplan/pkg/errors"
	"github.com/arthur-debert/aurplan/pkg/pacman"
)

// PacmanConf renders pacman.conf sections for every configured repository,
// rooted under basePath. The output is meant to be pasted into (or
// included from) pacman.conf when setting the repositories up.
func PacmanConf(sync *config.Sync, basePath string) string {
	var b strings.Builder
	for _, repo := range sync.Repositories {
		fmt.Fprintf(&b, "[%s]\n", repo.Name)
		b.WriteString("SigLevel = Optional TrustAll\n")
		fmt.Fprintf(&b, "Server = file://%s\n\n", filepath.Join(basePath, repo.Name))
	}
	return b.String()
}

// MoveCommands emits the shell commands that relocate already-built
// packages from a monolithic source repository into their assigned
// per-repository directories under basePath. Nothing is executed; the
// operator reviews and runs the commands themselves.
func MoveCommands(pr *PlanResult, basePath, sourcePath string) ([]string, error) {
	dbs, err := filepath.Glob(filepath.Join(sourcePath, "*.db.tar.gz"))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "bad source path %s", sourcePath)
	}
	if len(dbs) != 1 {
		return nil, errors.Newf(errors.ErrInvalidInput,
			"expected exactly one *.db.tar.gz under %s, found %d", sourcePath, len(dbs))
	}
	sourceDB := dbs[0]
	sourceName := strings.TrimSuffix(filepath.Base(sourceDB), ".db.tar.gz")

	versions, err := aur.ListRepo(pacman.FileRepo{Name: sourceName, Root: sourcePath})
	if err != nil {
		return nil, err
	}

	byRepo := make(map[string][]string)
	for name, repo := range pr.Result.Assignment {
		byRepo[repo] = append(byRepo[repo], name)
	}

	var commands []string
	for _, repo := range pr.Active {
		targetPath := filepath.Join(basePath, repo.Name)
		if targetPath == filepath.Clean(sourcePath) {
			continue
		}

		members := append([]string(nil), byRepo[repo.Name]...)
		sort.Strings(members)

		var moved, globs []string
		for _, name := range members {
			version, ok := versions[name]
			if !ok {
				continue
			}
			// Glob over arch so we don't have to know x86_64 vs any
			glob := filepath.Join(sourcePath, fmt.Sprintf("%s-%s-*.pkg.tar.zst", name, version))
			matches, err := filepath.Glob(glob)
			if err != nil || len(matches) == 0 {
				continue
			}
			moved = append(moved, name)
			globs = append(globs, glob)
		}
		if len(moved) == 0 {
			continue
		}

		commands = append(commands, "mkdir -p "+targetPath)
		for _, glob := range globs {
			commands = append(commands, fmt.Sprintf("mv %s %s", glob, targetPath))
		}
		commands = append(commands, fmt.Sprintf("repo-add %s %s",
			filepath.Join(targetPath, repo.Name+".db.tar.gz"),
			strings.Join(prefixed(globs, targetPath), " ")))
		commands = append(commands, fmt.Sprintf("repo-remove %s %s",
			sourceDB, strings.Join(moved, " ")))
	}
	return commands, nil
}

// prefixed rewrites source globs to their post-move location.
func prefixed(globs []string, dir string) []string {
	var out []string
	for _, glob := range globs {
		out = append(out, filepath.Join(dir, filepath.Base(glob)))
	}
	return out
}
