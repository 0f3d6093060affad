package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/aurplan/pkg/core"
	"github.com/arthur-debert/aurplan/pkg/errors"
	"github.com/arthur-debert/aurplan/pkg/style"
)

func newSyncCmd(flags *rootFlags) *cobra.Command {
	opts := core.SyncOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Bring the local repositories in line with the configuration",
		Long: `Sync runs the full pipeline: compute the plan, work out which packages
actually need building (missing from the local repositories, outdated
with --update, VCS packages with new commits with --vcs), fetch their
PKGBUILDs, open the interactive aur-view review, then build everything in
dependency order through ninja.

A failed review aborts before anything is built. A failed build keeps the
ninja directory around so the run can be inspected and resumed.`,
		Example: `  # Build whatever is missing
  aurplan sync

  # Full update run including VCS packages
  aurplan sync -u -V

  # Rebuild one package, skip the review
  aurplan sync -f some-package --no-view`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SyncPath = flags.syncPath
			opts.PacmanConf = flags.pacmanConf

			result, err := core.Sync(opts)
			if err != nil {
				return err
			}
			return renderSync(result)
		},
	}

	cmd.Flags().BoolVarP(&opts.Update, "update", "u", false, "Rebuild packages with a newer version in the AUR")
	cmd.Flags().BoolVarP(&opts.VCS, "vcs", "V", false, "Rebuild VCS packages with new upstream commits")
	cmd.Flags().StringArrayVarP(&opts.Ignore, "ignore", "i", nil, "Package to skip during this run")
	cmd.Flags().StringArrayVar(&opts.IgnoreRepos, "ignore-repo", nil, "Repository to skip during this run")
	cmd.Flags().StringArrayVarP(&opts.ForceRebuild, "force-rebuild", "f", nil, "Package to build even when up to date")
	cmd.Flags().BoolVar(&opts.NoDownload, "no-download", false, "Do not fetch PKGBUILDs")
	cmd.Flags().BoolVar(&opts.NoView, "no-view", false, "Skip the interactive PKGBUILD review (dangerous)")
	cmd.Flags().BoolVar(&opts.NoBuild, "no-build", false, "Stop after writing the ninja file")
	return cmd
}

func renderSync(result *core.SyncResult) error {
	renderer := style.NewRenderer(style.DetectFormat(os.Stdout))

	if out := renderer.RenderFailures(result.Plan.Result); out != "" {
		fmt.Println(out)
	}
	if result.Plan.Result.HasConflicts() {
		fmt.Println(renderer.RenderConflicts(result.Plan.Result.Conflicts))
	}

	if result.NothingToDo() {
		fmt.Println("Nothing to do!")
		return nil
	}
	if result.Aborted {
		return errors.New(errors.ErrInvalidInput, "aborted: review rejected")
	}

	if result.BuildFailed {
		for _, status := range result.Statuses {
			if status.OK {
				fmt.Printf("%s\t%s\n", status.Base, pterm.Green("OK"))
			} else {
				fmt.Printf("%s\t%s\n", status.Base, pterm.Red("FAIL"))
			}
		}
		return errors.Newf(errors.ErrCommandFailed,
			"build failed, ninja directory kept at %s", result.NinjaDir)
	}

	if result.NinjaDir != "" {
		// --no-build run; tell the user where the plan file ended up
		fmt.Printf("Ninja file written to %s\n", result.NinjaDir)
		return nil
	}

	fmt.Printf("Built %d package(s): %s\n", len(result.Targets), strings.Join(result.Targets, ", "))
	return nil
}
