package aur

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/aurplan/pkg/errors"
	"github.com/arthur-debert/aurplan/pkg/pacman"
	"github.com/arthur-debert/aurplan/pkg/run"
)

// Aurdest returns the directory PKGBUILD checkouts live in. The AURDEST
// environment variable wins, then the configured path, then the aurutils
// cache default.
func Aurdest(configured string) string {
	if env := os.Getenv("AURDEST"); env != "" {
		return env
	}
	if configured != "" {
		return configured
	}
	return filepath.Join(xdg.CacheHome, "aurutils", "sync")
}

func orderFile() string {
	return filepath.Join(xdg.ConfigHome, "aurutils", "sync", "orderfile")
}

// ListRepo returns package name to version for everything in a local repo.
func ListRepo(repo pacman.FileRepo) (map[string]string, error) {
	out, err := run.Out([]string{"aur", "repo", "--list", "--database=" + repo.Name, "--root=" + repo.Root}, run.Opts{})
	if err != nil {
		return nil, err
	}
	packages := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		if name, version, found := strings.Cut(line, "\t"); found {
			packages[name] = version
		}
	}
	return packages, nil
}

// VercmpOutdated returns the packages whose local version is older than
// the AUR version.
func VercmpOutdated(packages map[string]string) ([]string, error) {
	if len(packages) == 0 {
		return nil, nil
	}
	out, _, err := run.InOut([]string{"aur", "vercmp", "--quiet"}, versionLines(packages), run.Opts{})
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// VercmpCurrent returns the subset of packages already up to date in the
// local repositories.
func VercmpCurrent(packages, inRepos map[string]string) ([]string, error) {
	if len(packages) == 0 {
		return nil, nil
	}
	tmp, err := os.CreateTemp("", "aurplan-vercmp-")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create vercmp temp file")
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.WriteString(versionLines(inRepos)); err != nil {
		_ = tmp.Close()
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to write vercmp temp file")
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to close vercmp temp file")
	}

	out, _, err := run.InOut([]string{"aur", "vercmp", "--path=" + tmp.Name(), "--current"}, versionLines(packages), run.Opts{})
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// VercmpDevel checks VCS packages for upstream changes, one repository at
// a time in parallel since every check hits the network.
func VercmpDevel(repos []string) ([]string, error) {
	type result struct {
		packages []string
		err      error
	}

	results := make([]result, len(repos))
	var wg sync.WaitGroup
	for i, repo := range repos {
		wg.Add(1)
		go func(i int, repo string) {
			defer wg.Done()
			out, err := run.Out([]string{"aur", "vercmp-devel", "-d", repo}, run.Opts{})
			if err != nil {
				results[i].err = errors.Wrapf(err, errors.ErrCommandFailed, "aur vercmp-devel failed for repo %s", repo)
				return
			}
			for _, line := range splitLines(out) {
				pkg, _, _ := strings.Cut(line, " ")
				results[i].packages = append(results[i].packages, pkg)
			}
		}(i, repo)
	}
	wg.Wait()

	var outdated []string
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		outdated = append(outdated, r.packages...)
	}
	sort.Strings(outdated)
	return outdated, nil
}

// FetchResult is one line of aur-fetch --results output.
type FetchResult struct {
	Action   string
	HeadFrom string
	HeadTo   string
	Path     string
}

// Fetch clones or updates PKGBUILD checkouts for the given pkgbases.
func Fetch(queue []string, aurdest string) ([]FetchResult, error) {
	if err := os.MkdirAll(aurdest, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to create %s", aurdest)
	}

	tmp, err := os.CreateTemp("", "aurplan-fetch-")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create fetch results file")
	}
	resultsPath := tmp.Name()
	_ = tmp.Close()
	defer func() {
		_ = os.Remove(resultsPath)
	}()

	sorted := append([]string(nil), queue...)
	sort.Strings(sorted)
	err = run.In(
		[]string{"aur", "fetch", "--sync=auto", "--discard", "--results=" + resultsPath, "-"},
		strings.Join(sorted, "\n")+"\n",
		run.Opts{Dir: aurdest},
	)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCommandFailed, "aur fetch failed for %d target(s)", len(queue))
	}

	data, err := os.ReadFile(resultsPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to read fetch results")
	}
	results := parseFetchResults(string(data))

	// Fresh clones get the aurutils order file for stable diffs
	for _, r := range results {
		if r.Action == "clone" {
			_, _ = run.Out([]string{"git", "-C", r.Path, "config", "diff.orderFile", orderFile()}, run.Opts{})
		}
	}
	return results, nil
}

func parseFetchResults(data string) []FetchResult {
	var results []FetchResult
	for _, line := range splitLines(data) {
		parts := strings.SplitN(line, ":", 4)
		if len(parts) != 4 {
			log.Warn().Str("line", line).Msg("Skipping malformed fetch result")
			continue
		}
		results = append(results, FetchResult{
			Action:   parts[0],
			HeadFrom: parts[1],
			HeadTo:   parts[2],
			Path:     strings.TrimPrefix(parts[3], "file://"),
		})
	}
	return results
}

// View runs the interactive aur-view review step. Returns false when the
// user aborted the review.
func View(packages []string, aurdest string) (bool, error) {
	tmp, err := os.CreateTemp("", "aurplan-view-")
	if err != nil {
		return false, errors.Wrap(err, errors.ErrInternal, "failed to create view queue file")
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	sorted := append([]string(nil), packages...)
	sort.Strings(sorted)
	if _, err := tmp.WriteString(strings.Join(sorted, "\n") + "\n"); err != nil {
		_ = tmp.Close()
		return false, errors.Wrap(err, errors.ErrInternal, "failed to write view queue file")
	}
	if err := tmp.Close(); err != nil {
		return false, errors.Wrap(err, errors.ErrInternal, "failed to close view queue file")
	}

	code, err := run.Interactive([]string{"aur", "view", "--arg-file=" + tmp.Name()}, run.Opts{Dir: aurdest})
	if err != nil {
		return false, err
	}
	return code == 0, nil
}

func versionLines(packages map[string]string) string {
	names := make([]string, 0, len(packages))
	for name := range packages {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString("\t")
		b.WriteString(packages[name])
		b.WriteString("\n")
	}
	return b.String()
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
