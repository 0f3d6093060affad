package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectTargetsMissing(t *testing.T) {
	targets := selectTargets(targetInputs{
		Planned: []string{"a", "b", "c"},
		InRepos: map[string]string{"b": "1.0-1"},
	})
	assert.Equal(t, []string{"a", "c"}, targets)
}

func TestSelectTargetsOutdated(t *testing.T) {
	targets := selectTargets(targetInputs{
		Planned:  []string{"a", "b"},
		InRepos:  map[string]string{"a": "1.0-1", "b": "1.0-1"},
		Outdated: []string{"b", "stray"},
	})
	// stray is in the repo but not part of the plan, so not ours to rebuild
	assert.Equal(t, []string{"b"}, targets)
}

func TestSelectTargetsCurrentFiltered(t *testing.T) {
	targets := selectTargets(targetInputs{
		Planned:  []string{"a", "b"},
		InRepos:  map[string]string{"b": "1.0-1"},
		Outdated: []string{"b"},
		Current:  []string{"b"},
	})
	assert.Equal(t, []string{"a"}, targets)
}

func TestSelectTargetsVCSSurvivesCurrent(t *testing.T) {
	targets := selectTargets(targetInputs{
		Planned:     []string{"app-git"},
		InRepos:     map[string]string{"app-git": "r100-1"},
		VCSOutdated: []string{"app-git"},
		Current:     []string{"app-git"},
	})
	assert.Equal(t, []string{"app-git"}, targets)
}

func TestSelectTargetsForceRebuild(t *testing.T) {
	targets := selectTargets(targetInputs{
		Planned:      []string{"a"},
		InRepos:      map[string]string{"a": "1.0-1"},
		Current:      []string{"a"},
		ForceRebuild: []string{"a", "unknown"},
	})
	assert.Equal(t, []string{"a"}, targets)
}

func TestSelectTargetsIgnoreWins(t *testing.T) {
	targets := selectTargets(targetInputs{
		Planned:      []string{"a", "b"},
		ForceRebuild: []string{"a"},
		Ignore:       []string{"a"},
	})
	assert.Equal(t, []string{"b"}, targets)
}

func TestSelectTargetsEmpty(t *testing.T) {
	targets := selectTargets(targetInputs{
		Planned: []string{"a"},
		InRepos: map[string]string{"a": "1.0-1"},
		Current: []string{"a"},
	})
	assert.Empty(t, targets)
}
