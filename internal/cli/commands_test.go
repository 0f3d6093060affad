package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdStructure(t *testing.T) {
	rootCmd := NewRootCmd()

	assert.Equal(t, "aurplan", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)

	expected := []string{"version", "plan", "sync", "conflicts", "unmanaged", "pacman-conf", "mv"}
	for _, name := range expected {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "missing subcommand %s", name)
	}
}

func TestRootCmdPersistentFlags(t *testing.T) {
	rootCmd := NewRootCmd()

	for _, name := range []string{"verbose", "config", "pacman-config"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing flag %s", name)
	}
}

func TestSyncCmdFlags(t *testing.T) {
	cmd := newSyncCmd(&rootFlags{})

	for _, name := range []string{"update", "vcs", "ignore", "ignore-repo", "force-rebuild", "no-download", "no-view", "no-build"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}
}

func TestHelpRuns(t *testing.T) {
	rootCmd := NewRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--help"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "aurplan")
	assert.Contains(t, out.String(), "sync")
}

func TestVersionCmdOmitsUnsetBuildInfo(t *testing.T) {
	rootCmd := NewRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"version"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "aurplan version")
	// Without ldflags, commit and date lines stay out entirely
	assert.NotContains(t, out.String(), "unknown")
	assert.NotContains(t, out.String(), "Commit:")
	assert.NotContains(t, out.String(), "Built:")
}

func TestMvRequiresPaths(t *testing.T) {
	rootCmd := NewRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"mv"})

	assert.Error(t, rootCmd.Execute())
}
