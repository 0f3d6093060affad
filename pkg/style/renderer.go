// Package style renders aurplan results for the terminal: plan summaries
// for the operator to review and conflict reports that must reach them
// verbatim.
package style

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/aurplan/pkg/plan"
	"github.com/arthur-debert/aurplan/pkg/resolve"
)

// Renderer renders engine results for human consumption
type Renderer interface {
	RenderPlan(p *plan.Plan) string
	RenderConflicts(conflicts []resolve.Conflict) string
	RenderFailures(result *resolve.Result) string
}

// NewRenderer picks a renderer for the given format.
func NewRenderer(format Format) Renderer {
	if format == FormatTerminal {
		return &TerminalRenderer{}
	}
	return &TextRenderer{}
}

// TerminalRenderer renders with pterm styling
type TerminalRenderer struct{}

// RenderPlan renders the per-repository build plan
func (r *TerminalRenderer) RenderPlan(p *plan.Plan) string {
	if len(p.Repos) == 0 {
		return pterm.Gray("Nothing to build")
	}

	var result strings.Builder
	for _, repoPlan := range p.Repos {
		result.WriteString(pterm.DefaultSection.Sprintf("%s (%d packages)", repoPlan.Repo, len(repoPlan.Units)))
		for _, unit := range repoPlan.Units {
			line := fmt.Sprintf("%s %s", pterm.Info.Prefix.Text, pterm.Bold.Sprint(unit.Package))
			if !unit.Options.Chroot {
				line += " " + pterm.Yellow("[no chroot]")
			}
			if len(unit.Depends) > 0 {
				line += " " + pterm.Gray("needs "+strings.Join(unit.Depends, ", "))
			}
			result.WriteString(line + "\n")
		}
		result.WriteString("\n")
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderConflicts renders the conflict report. The claimant sets are
// shown exactly as computed, never trimmed.
func (r *TerminalRenderer) RenderConflicts(conflicts []resolve.Conflict) string {
	if len(conflicts) == 0 {
		return pterm.Green("No conflicts")
	}

	var result strings.Builder
	result.WriteString(pterm.Red(fmt.Sprintf("%d package(s) claimed by multiple repositories:\n", len(conflicts))))
	for _, conflict := range conflicts {
		result.WriteString(fmt.Sprintf("  %s %s %s\n",
			pterm.Bold.Sprint(conflict.Package),
			pterm.Gray("wanted by"),
			strings.Join(conflict.Repos, ", ")))
	}
	result.WriteString(pterm.Gray("Add each package as an explicit seed of one repository in sync.yml to resolve."))
	return result.String()
}

// RenderFailures renders lookup failures worth the operator's attention
func (r *TerminalRenderer) RenderFailures(result *resolve.Result) string {
	var b strings.Builder
	if len(result.NotFound) > 0 {
		b.WriteString(pterm.Yellow("Not in AUR (skipped): ") + strings.Join(result.NotFound, ", ") + "\n")
	}
	if len(result.Unresolved) > 0 {
		b.WriteString(pterm.Red("Unresolved this run: ") + strings.Join(result.Unresolved, ", ") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// TextRenderer renders plain text for pipes and NO_COLOR terminals
type TextRenderer struct{}

// RenderPlan renders the per-repository build plan
func (r *TextRenderer) RenderPlan(p *plan.Plan) string {
	if len(p.Repos) == 0 {
		return "Nothing to build"
	}

	var result strings.Builder
	for _, repoPlan := range p.Repos {
		result.WriteString(fmt.Sprintf("%s (%d packages)\n", repoPlan.Repo, len(repoPlan.Units)))
		for _, unit := range repoPlan.Units {
			line := "  " + unit.Package
			if !unit.Options.Chroot {
				line += " [no chroot]"
			}
			if len(unit.Depends) > 0 {
				line += " needs " + strings.Join(unit.Depends, ", ")
			}
			result.WriteString(line + "\n")
		}
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderConflicts renders the conflict report
func (r *TextRenderer) RenderConflicts(conflicts []resolve.Conflict) string {
	if len(conflicts) == 0 {
		return "No conflicts"
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%d package(s) claimed by multiple repositories:\n", len(conflicts)))
	for _, conflict := range conflicts {
		result.WriteString(fmt.Sprintf("  %s wanted by %s\n", conflict.Package, strings.Join(conflict.Repos, ", ")))
	}
	result.WriteString("Add each package as an explicit seed of one repository in sync.yml to resolve.")
	return result.String()
}

// RenderFailures renders lookup failures
func (r *TextRenderer) RenderFailures(result *resolve.Result) string {
	var b strings.Builder
	if len(result.NotFound) > 0 {
		b.WriteString("Not in AUR (skipped): " + strings.Join(result.NotFound, ", ") + "\n")
	}
	if len(result.Unresolved) > 0 {
		b.WriteString("Unresolved this run: " + strings.Join(result.Unresolved, ", ") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
