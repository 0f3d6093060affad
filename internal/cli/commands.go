// Package cli assembles the aurplan command tree. Commands stay thin:
// flag parsing and rendering here, the actual work in pkg/core.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/aurplan/internal/version"
	"github.com/arthur-debert/aurplan/pkg/config"
	"github.com/arthur-debert/aurplan/pkg/core"
	"github.com/arthur-debert/aurplan/pkg/errors"
	"github.com/arthur-debert/aurplan/pkg/logging"
	"github.com/arthur-debert/aurplan/pkg/plan"
	"github.com/arthur-debert/aurplan/pkg/style"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	verbosity  int
	syncPath   string
	pacmanConf string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "aurplan",
		Short: "Declarative multi-repository sync for the AUR",
		Long: `aurplan keeps a set of local pacman repositories in sync with a
declarative configuration: you list the packages each repository should
carry, aurplan expands their AUR dependency closure, assigns every
package to exactly one repository and drives aur-build through ninja.

Packages claimed by more than one repository are reported as conflicts
for you to resolve in the configuration; aurplan never guesses.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v",
		"Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&flags.syncPath, "config", "",
		"Path to sync.yml (default: $XDG_CONFIG_HOME/aurplan/sync.yml)")
	rootCmd.PersistentFlags().StringVar(&flags.pacmanConf, "pacman-config", "",
		"Path to an alternative pacman.conf")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newPlanCmd(flags))
	rootCmd.AddCommand(newSyncCmd(flags))
	rootCmd.AddCommand(newConflictsCmd(flags))
	rootCmd.AddCommand(newUnmanagedCmd(flags))
	rootCmd.AddCommand(newPacmanConfCmd(flags))
	rootCmd.AddCommand(newMvCmd(flags))
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including commit hash and build date`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("aurplan version %s\n", version.Version)
			if version.Commit != "" {
				cmd.Printf("Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				cmd.Printf("Built:  %s\n", version.Date)
			}
		},
	}
}

func newPlanCmd(flags *rootFlags) *cobra.Command {
	var (
		ignoreRepos []string
		ninjaFile   string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute and show the build plan without touching anything",
		Long: `Plan expands the configured seed packages into their AUR dependency
closure, assigns every package to a repository and prints the resulting
per-repository build order, along with conflicts and lookup failures.

Nothing is downloaded or built.`,
		Example: `  # Show the full plan
  aurplan plan

  # Plan without the games repository, write the ninja file for inspection
  aurplan plan --ignore-repo games --ninja /tmp/build.ninja`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := core.ComputePlan(core.PlanOptions{
				SyncPath:    flags.syncPath,
				PacmanConf:  flags.pacmanConf,
				IgnoreRepos: ignoreRepos,
			})
			if err != nil {
				return err
			}

			renderer := style.NewRenderer(style.DetectFormat(os.Stdout))
			fmt.Println(renderer.RenderPlan(result.Plan))
			if out := renderer.RenderFailures(result.Result); out != "" {
				fmt.Println(out)
			}
			if result.Result.HasConflicts() {
				fmt.Println(renderer.RenderConflicts(result.Result.Conflicts))
			}

			if ninjaFile != "" {
				if err := writeNinja(result, ninjaFile); err != nil {
					return err
				}
				fmt.Printf("Wrote %s\n", ninjaFile)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&ignoreRepos, "ignore-repo", nil, "Repository to skip during this run")
	cmd.Flags().StringVar(&ninjaFile, "ninja", "", "Write the ninja build file to this path")
	return cmd
}

func writeNinja(result *core.PlanResult, path string) error {
	ninja := &plan.Ninja{SrcDir: result.Aurdest(), Repos: result.FileRepos}
	contents, err := ninja.Generate(result.Plan)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrPlanWrite, "failed to write %s", path)
	}
	return nil
}

func newConflictsCmd(flags *rootFlags) *cobra.Command {
	var ignoreRepos []string

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Report packages claimed by more than one repository",
		Long: `Conflicts computes the repository assignment and prints only the
conflict report. Exits with status 1 when any conflict exists, making it
usable as a configuration check.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := core.ComputePlan(core.PlanOptions{
				SyncPath:    flags.syncPath,
				PacmanConf:  flags.pacmanConf,
				IgnoreRepos: ignoreRepos,
			})
			if err != nil {
				return err
			}

			renderer := style.NewRenderer(style.DetectFormat(os.Stdout))
			fmt.Println(renderer.RenderConflicts(result.Result.Conflicts))
			if result.Result.HasConflicts() {
				return errors.Newf(errors.ErrInvalidInput,
					"%d package(s) need an explicit seed", len(result.Result.Conflicts))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&ignoreRepos, "ignore-repo", nil, "Repository to skip during this run")
	return cmd
}

func newUnmanagedCmd(flags *rootFlags) *cobra.Command {
	var ignoreRepos []string

	cmd := &cobra.Command{
		Use:   "unmanaged",
		Short: "List repository packages the configuration does not account for",
		Long: `Unmanaged diffs the local repository contents against the dependency
closure of the configured seeds and lists every package nothing in
sync.yml leads to. Those are candidates for adoption into the config, or
for removal from the repository.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			extra, err := core.Unmanaged(core.PlanOptions{
				SyncPath:    flags.syncPath,
				PacmanConf:  flags.pacmanConf,
				IgnoreRepos: ignoreRepos,
			})
			if err != nil {
				return err
			}
			if len(extra) == 0 {
				fmt.Println("Every repository package is accounted for")
				return nil
			}
			fmt.Println("Missing from config:")
			for _, name := range extra {
				fmt.Printf(" - %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&ignoreRepos, "ignore-repo", nil, "Repository to skip during this run")
	return cmd
}

func newPacmanConfCmd(flags *rootFlags) *cobra.Command {
	var basePath string

	cmd := &cobra.Command{
		Use:   "pacman-conf",
		Short: "Emit pacman.conf sections for the configured repositories",
		Long: `Pacman-conf prints a [repo] section for every repository in sync.yml,
rooted under the given base path. Paste the output into pacman.conf (or an
Include file) when setting the repositories up.`,
		Example: `  aurplan pacman-conf --base-path /srv/pkgs`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sync, err := config.LoadSync(config.SyncPath(flags.syncPath))
			if err != nil {
				return err
			}
			fmt.Print(core.PacmanConf(sync, basePath))
			return nil
		},
	}

	cmd.Flags().StringVarP(&basePath, "base-path", "b", "", "Base directory the repositories live under")
	_ = cmd.MarkFlagRequired("base-path")
	return cmd
}

func newMvCmd(flags *rootFlags) *cobra.Command {
	var basePath, sourcePath string

	cmd := &cobra.Command{
		Use:   "mv",
		Short: "Emit commands moving built packages out of a monolithic repository",
		Long: `Mv computes the repository assignment and prints the mv/repo-add/
repo-remove commands that relocate already-built packages from a single
source repository into their assigned per-repository directories.

Commands are printed, never executed: review them, then pipe to sh.`,
		Example: `  aurplan mv --base-path /srv/pkgs --source-path /srv/pkgs/old | less`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := core.ComputePlan(core.PlanOptions{
				SyncPath:   flags.syncPath,
				PacmanConf: flags.pacmanConf,
			})
			if err != nil {
				return err
			}
			commands, err := core.MoveCommands(result, basePath, sourcePath)
			if err != nil {
				return err
			}
			for _, command := range commands {
				fmt.Println(command)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&basePath, "base-path", "b", "", "Base directory the repositories live under")
	cmd.Flags().StringVarP(&sourcePath, "source-path", "s", "", "Directory of the monolithic source repository")
	_ = cmd.MarkFlagRequired("base-path")
	_ = cmd.MarkFlagRequired("source-path")
	return cmd
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  "Generate the aurplan man page",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "AURPLAN",
				Section: "1",
				Source:  "aurplan " + version.Version,
				Manual:  "aurplan manual",
			}
			return doc.GenMan(cmd.Root(), header, os.Stdout)
		},
	}
}
