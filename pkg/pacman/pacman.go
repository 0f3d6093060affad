// Package pacman reads pacman configuration through pacconf and locates
// the file-based custom repositories aurplan manages.
package pacman

import (
	stderrors "errors"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/aurplan/pkg/errors"
	"github.com/arthur-debert/aurplan/pkg/logging"
	"github.com/arthur-debert/aurplan/pkg/run"
)

var log = logging.GetLogger("pacman")

// Section holds the key/value pairs of one pacman.conf section. Repeated
// keys accumulate; bare keys (no "=") map to an empty value list entry.
type Section map[string][]string

// Conf is a parsed pacman configuration, section name to contents.
type Conf map[string]Section

// FileRepo describes a local file-based repository from pacman.conf.
type FileRepo struct {
	// Name of the repository section
	Name string
	// Root directory the packages live in
	Root string
	// Path to the repository database
	DB string
}

// LoadConf runs pacconf and parses its output. configFile may be empty to
// use the system pacman.conf.
func LoadConf(configFile string) (Conf, error) {
	argv := []string{"pacconf"}
	if configFile != "" {
		argv = append(argv, "--config="+configFile)
	}
	out, err := run.Out(argv, run.Opts{})
	if err != nil {
		return nil, err
	}
	return ParseConf(strings.Split(out, "\n")), nil
}

// ParseConf parses pacconf-style output. pacman.conf is close to ini but
// allows bare keys with no "=", so this cannot go through an ini library.
func ParseConf(lines []string) Conf {
	conf := make(Conf)
	section := ""
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = line[1 : len(line)-1]
			if _, ok := conf[section]; !ok {
				conf[section] = make(Section)
			}
			continue
		}
		sec, ok := conf[section]
		if !ok {
			sec = make(Section)
			conf[section] = sec
		}
		if key, value, found := strings.Cut(line, "="); found {
			key = strings.TrimSpace(key)
			sec[key] = append(sec[key], strings.TrimSpace(value))
		} else {
			sec[line] = append(sec[line], "")
		}
	}
	return conf
}

// CustomRepos extracts the file-based repositories from a pacman config.
// Repos served over http(s) are not ours to manage and are skipped.
func CustomRepos(conf Conf) map[string]FileRepo {
	repos := make(map[string]FileRepo)
	for name, section := range conf {
		if name == "options" {
			continue
		}
		servers := section["Server"]
		if len(servers) == 0 {
			continue
		}
		// Multiple servers on a file repo has no use case; take the first.
		server := servers[0]
		if !strings.HasPrefix(server, "file://") {
			continue
		}
		root := strings.TrimPrefix(server, "file://")
		repos[name] = FileRepo{
			Name: name,
			Root: root,
			DB:   filepath.Join(root, name+".db"),
		}
	}
	log.Debug().Int("count", len(repos)).Msg("Found file-based repositories")
	return repos
}

// FindPackageRepo asks pacman which repositories currently carry the given
// package. Returns (repo, package) pairs; empty when the package is unknown.
func FindPackageRepo(pkg string) ([][2]string, error) {
	out, err := run.Out([]string{"pacman", "-S", "--print", "--print-format", "%r|%n", pkg}, run.Opts{})
	if err != nil {
		var aerr *errors.AurplanError
		if stderrors.As(err, &aerr) {
			if stderr, ok := aerr.Details["stderr"].(string); ok && strings.Contains(stderr, "not found") {
				return nil, nil
			}
		}
		return nil, err
	}

	return parsePrintTargets(out), nil
}

// parsePrintTargets parses `pacman -S --print` output in %r|%n format,
// dropping duplicates.
func parsePrintTargets(out string) [][2]string {
	var results [][2]string
	seen := make(map[string]bool)
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		if repo, name, found := strings.Cut(line, "|"); found {
			results = append(results, [2]string{repo, name})
		}
	}
	return results
}
