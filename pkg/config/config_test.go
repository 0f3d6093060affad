package config

import (
	"testing"

	"github.com/arthur-debert/aurplan/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
build_flags:
  - --margs=--skippgpcheck

repositories:
  tools:
    - aurutils
    - pkgctl-git
  desktop:
    - quodlibet
  empty-repo:

package_overrides:
  quodlibet:
    chroot: false
  aurutils:
`

func TestParseSync(t *testing.T) {
	sync, err := parseSync([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, []string{"--margs=--skippgpcheck"}, sync.BuildFlags)

	// Document order must survive
	require.Len(t, sync.Repositories, 3)
	assert.Equal(t, "tools", sync.Repositories[0].Name)
	assert.Equal(t, "desktop", sync.Repositories[1].Name)
	assert.Equal(t, "empty-repo", sync.Repositories[2].Name)
	assert.Equal(t, []string{"aurutils", "pkgctl-git"}, sync.Repositories[0].Seeds)
	assert.Empty(t, sync.Repositories[2].Seeds)

	require.Contains(t, sync.Overrides, "quodlibet")
	require.NotNil(t, sync.Overrides["quodlibet"].Chroot)
	assert.False(t, *sync.Overrides["quodlibet"].Chroot)

	// Null override body is an empty override
	require.Contains(t, sync.Overrides, "aurutils")
	assert.Nil(t, sync.Overrides["aurutils"].Chroot)
}

func TestParseSyncHelpers(t *testing.T) {
	sync, err := parseSync([]byte(sampleConfig))
	require.NoError(t, err)

	repo, ok := sync.SeedRepo("quodlibet")
	require.True(t, ok)
	assert.Equal(t, "desktop", repo)

	_, ok = sync.SeedRepo("not-configured")
	assert.False(t, ok)

	assert.Equal(t, []string{"aurutils", "pkgctl-git", "quodlibet"}, sync.Seeds())

	r, ok := sync.Repository("tools")
	require.True(t, ok)
	assert.Equal(t, "tools", r.Name)
}

func TestParseSyncRejectsUnknownTopLevelKey(t *testing.T) {
	_, err := parseSync([]byte(`
repositories:
  tools: [aurutils]
build_falgs: []
`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestParseSyncRejectsUnknownOverrideKey(t *testing.T) {
	_, err := parseSync([]byte(`
repositories:
  tools: [aurutils]
package_overrides:
  aurutils:
    chroots: false
`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestParseSyncErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{
			name:    "no repositories section",
			input:   "build_flags: []",
			message: "no repositories",
		},
		{
			name:    "null repositories section",
			input:   "repositories:",
			message: "no repositories",
		},
		{
			name: "seed in two repositories",
			input: `
repositories:
  tools: [aurutils]
  desktop: [aurutils]
`,
			message: "seed of both",
		},
		{
			name: "empty seed name",
			input: `
repositories:
  tools: ["", aurutils]
`,
			message: "empty package name",
		},
		{
			name: "repositories not a mapping",
			input: `
repositories:
  - tools
`,
			message: "must be a mapping",
		},
		{
			name: "seeds not a list",
			input: `
repositories:
  tools:
    aurutils: yes
`,
			message: "must be a list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSync([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseSyncDuplicateSeedSameRepoDeduped(t *testing.T) {
	sync, err := parseSync([]byte(`
repositories:
  tools: [aurutils, aurutils]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"aurutils"}, sync.Repositories[0].Seeds)
}
