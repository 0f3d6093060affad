package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/aurplan/pkg/config"
	"github.com/arthur-debert/aurplan/pkg/pacman"
)

func TestPacmanConf(t *testing.T) {
	sync := &config.Sync{
		Repositories: []config.Repository{
			{Name: "tools", Seeds: []string{"aurutils"}},
			{Name: "desktop"},
		},
	}

	out := PacmanConf(sync, "/srv/pkgs")
	assert.Equal(t, `[tools]
SigLevel = Optional TrustAll
Server = file:///srv/pkgs/tools

[desktop]
SigLevel = Optional TrustAll
Server = file:///srv/pkgs/desktop

`, out)
}

func TestPrefixed(t *testing.T) {
	got := prefixed([]string{"/old/foo-1.0-1-*.pkg.tar.zst"}, "/new/tools")
	assert.Equal(t, []string{"/new/tools/foo-1.0-1-*.pkg.tar.zst"}, got)
}

func TestActiveRepos(t *testing.T) {
	configured := []config.Repository{
		{Name: "tools"},
		{Name: "desktop"},
		{Name: "games"},
	}
	fileRepos := map[string]pacman.FileRepo{
		"tools": {Name: "tools", Root: "/srv/pkgs/tools"},
		"games": {Name: "games", Root: "/srv/pkgs/games"},
	}

	active := activeRepos(configured, fileRepos, []string{"games"})
	assert.Equal(t, []config.Repository{{Name: "tools"}}, active)
}
