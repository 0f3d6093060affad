package core

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/aurplan/pkg/run"
)

// BuildStatus is one pkgbase's outcome after a ninja run.
type BuildStatus struct {
	Base string
	OK   bool
}

var stampRe = regexp.MustCompile(`([\w@.+-]+)\.stamp`)

// BuildReport works out which pkgbases built after a failed ninja run:
// replay the build file in dry-run mode to enumerate the stamp targets,
// then check which stamp files the real run managed to write.
func BuildReport(dir string) ([]BuildStatus, error) {
	// Replay from an empty directory: next to the real stamps ninja would
	// consider the built edges up to date and not list them
	replayDir, err := os.MkdirTemp("", "aurplan-replay-")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = os.RemoveAll(replayDir)
	}()

	out, err := run.Out(
		[]string{"ninja", "-n", "-f", filepath.Join(dir, "build.ninja")},
		run.Opts{Dir: replayDir, Env: []string{"NINJA_STATUS=[%s/%t] "}})
	if err != nil {
		return nil, err
	}

	var statuses []BuildStatus
	seen := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		match := stampRe.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		base := match[1]
		if seen[base] {
			continue
		}
		seen[base] = true
		_, statErr := os.Stat(filepath.Join(dir, base+".stamp"))
		statuses = append(statuses, BuildStatus{Base: base, OK: statErr == nil})
	}
	return statuses, nil
}
