package plan

import (
	"testing"

	"github.com/arthur-debert/aurplan/pkg/config"
	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestMergeOptionsDefaults(t *testing.T) {
	// Scenario D: only the overridden package loses chroot
	assignment := map[string]string{"pkga": "r1", "pkgb": "r1", "pkgc": "r2"}
	overrides := map[string]config.Override{
		"pkga": {Chroot: boolPtr(false)},
	}

	merged := MergeOptions(Options{Chroot: true}, assignment, overrides)

	assert.False(t, merged["pkga"].Chroot)
	assert.True(t, merged["pkgb"].Chroot)
	assert.True(t, merged["pkgc"].Chroot)
}

func TestMergeOptionsEmptyOverride(t *testing.T) {
	assignment := map[string]string{"pkga": "r1"}
	overrides := map[string]config.Override{
		"pkga": {},
	}

	merged := MergeOptions(Options{Chroot: true}, assignment, overrides)
	assert.True(t, merged["pkga"].Chroot)
}

func TestMergeOptionsUnknownPackageIgnored(t *testing.T) {
	assignment := map[string]string{"pkga": "r1"}
	overrides := map[string]config.Override{
		"ghost": {Chroot: boolPtr(false)},
	}

	merged := MergeOptions(Options{Chroot: true}, assignment, overrides)
	assert.NotContains(t, merged, "ghost")
	assert.Len(t, merged, 1)
}
