package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/aurplan/pkg/resolve"
	"github.com/arthur-debert/aurplan/pkg/testutil"
)

func TestUnmanagedDiff(t *testing.T) {
	provider := testutil.NewFakeProvider().
		Add("app", "libfoo").
		Add("libfoo")
	closure := resolve.BuildClosure(provider, []string{"app"})

	inRepos := map[string]string{
		"app":      "1.0-1",
		"libfoo":   "1.0-1", // dependency, accounted for
		"leftover": "0.9-2", // nothing in the config leads here
	}

	assert.Equal(t, []string{"leftover"}, unmanagedDiff(inRepos, closure))
}

func TestUnmanagedDiffCoversSiblings(t *testing.T) {
	provider := testutil.NewFakeProvider().
		AddSplit("jack2", "jack2").
		AddSplit("jack2-dbus", "jack2")
	closure := resolve.BuildClosure(provider, []string{"jack2"})

	inRepos := map[string]string{
		"jack2":      "1.9-1",
		"jack2-dbus": "1.9-1",
	}

	// The sibling is never seeded but rides along via the pkgbase
	assert.Empty(t, unmanagedDiff(inRepos, closure))
}

func TestUnmanagedDiffSkipsFailedLookups(t *testing.T) {
	provider := testutil.NewFakeProvider().Add("app")
	provider.Fail("flaky")
	closure := resolve.BuildClosure(provider, []string{"app", "flaky"})

	inRepos := map[string]string{
		"app":   "1.0-1",
		"flaky": "2.0-1",
	}

	// flaky could not be resolved this run; don't accuse it of being stray
	assert.Empty(t, unmanagedDiff(inRepos, closure))
}

func TestUnmanagedDiffEmptyRepos(t *testing.T) {
	closure := resolve.BuildClosure(testutil.NewFakeProvider().Add("app"), []string{"app"})
	assert.Empty(t, unmanagedDiff(map[string]string{}, closure))
}
