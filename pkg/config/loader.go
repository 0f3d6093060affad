package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/aurplan/pkg/errors"
)

const (
	appDirName   = "aurplan"
	syncFileName = "sync.yml"
)

// SyncPath returns the path of the sync configuration file. An explicit
// (non-empty) override wins over the XDG location.
func SyncPath(override string) string {
	if override != "" {
		return override
	}
	return filepath.Join(xdg.ConfigHome, appDirName, syncFileName)
}

// LoadSync reads, parses and validates the sync configuration file.
func LoadSync(path string) (*Sync, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrConfigLoad,
				"sync config %s not found, create it first (see aurplan help)", path)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read sync config %s", path)
	}

	sync, err := parseSync(data)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("path", path).
		Int("repositories", len(sync.Repositories)).
		Int("seeds", len(sync.Seeds())).
		Int("overrides", len(sync.Overrides)).
		Msg("Sync config loaded")
	return sync, nil
}
