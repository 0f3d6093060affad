package style

import (
	"testing"

	"github.com/arthur-debert/aurplan/pkg/plan"
	"github.com/arthur-debert/aurplan/pkg/resolve"
	"github.com/stretchr/testify/assert"
)

func samplePlan() *plan.Plan {
	return &plan.Plan{
		Repos: []plan.RepoPlan{{
			Repo: "desktop",
			Units: []plan.Unit{
				{Package: "libbar", Base: "libbar", Repo: "desktop", Options: plan.Options{Chroot: true}},
				{Package: "app", Base: "app", Repo: "desktop", Options: plan.Options{Chroot: false}, Depends: []string{"libbar"}},
			},
		}},
	}
}

func TestTextRenderPlan(t *testing.T) {
	out := (&TextRenderer{}).RenderPlan(samplePlan())

	assert.Contains(t, out, "desktop (2 packages)")
	assert.Contains(t, out, "  libbar")
	assert.Contains(t, out, "  app [no chroot] needs libbar")
}

func TestTextRenderPlanEmpty(t *testing.T) {
	out := (&TextRenderer{}).RenderPlan(&plan.Plan{})
	assert.Equal(t, "Nothing to build", out)
}

func TestTextRenderConflicts(t *testing.T) {
	conflicts := []resolve.Conflict{
		{Package: "pkgc", Repos: []string{"r1", "r2"}},
	}
	out := (&TextRenderer{}).RenderConflicts(conflicts)

	assert.Contains(t, out, "1 package(s) claimed by multiple repositories")
	assert.Contains(t, out, "pkgc wanted by r1, r2")
	assert.Contains(t, out, "explicit seed")
}

func TestTextRenderConflictsEmpty(t *testing.T) {
	out := (&TextRenderer{}).RenderConflicts(nil)
	assert.Equal(t, "No conflicts", out)
}

func TestTextRenderFailures(t *testing.T) {
	result := &resolve.Result{
		NotFound:   []string{"ghost"},
		Unresolved: []string{"flaky"},
	}
	out := (&TextRenderer{}).RenderFailures(result)
	assert.Contains(t, out, "Not in AUR (skipped): ghost")
	assert.Contains(t, out, "Unresolved this run: flaky")

	assert.Empty(t, (&TextRenderer{}).RenderFailures(&resolve.Result{}))
}

func TestTerminalRenderConflictsListsEveryClaimant(t *testing.T) {
	conflicts := []resolve.Conflict{
		{Package: "pkgc", Repos: []string{"r1", "r2", "r3"}},
	}
	out := (&TerminalRenderer{}).RenderConflicts(conflicts)
	assert.Contains(t, out, "r1, r2, r3")
	assert.Contains(t, out, "pkgc")
}

func TestNewRenderer(t *testing.T) {
	assert.IsType(t, &TerminalRenderer{}, NewRenderer(FormatTerminal))
	assert.IsType(t, &TextRenderer{}, NewRenderer(FormatText))
	assert.IsType(t, &TextRenderer{}, NewRenderer(FormatAuto))
}
