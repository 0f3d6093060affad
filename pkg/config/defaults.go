package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	aurplanerrors "github.com/arthur-debert/aurplan/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultsTOML []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Defaults holds settings applied before sync.yml overrides. They are
// layered: hardcoded values, then the embedded defaults.toml, then an
// optional user defaults file.
type Defaults struct {
	Build struct {
		Chroot bool     `koanf:"chroot"`
		Flags  []string `koanf:"flags"`
	} `koanf:"build"`
	Paths struct {
		Aurdest string `koanf:"aurdest"`
	} `koanf:"paths"`
}

// LoadDefaults builds the defaults value from all layers.
func LoadDefaults() (*Defaults, error) {
	k := koanf.New(".")

	// 1. Hardcoded fallbacks, in case the embedded file ever loses a key
	hardcoded := map[string]interface{}{
		"build.chroot": true,
	}
	if err := k.Load(confmap.Provider(hardcoded, "."), nil); err != nil {
		return nil, aurplanerrors.Wrap(err, aurplanerrors.ErrConfigLoad, "failed to load builtin defaults")
	}

	// 2. Embedded defaults.toml
	if err := k.Load(&rawBytesProvider{bytes: defaultsTOML}, toml.Parser()); err != nil {
		return nil, aurplanerrors.Wrap(err, aurplanerrors.ErrConfigLoad, "failed to load embedded defaults")
	}

	// 3. Optional user defaults file, TOML or YAML
	for _, candidate := range []struct {
		name   string
		parser koanf.Parser
	}{
		{"defaults.toml", toml.Parser()},
		{"defaults.yml", koanfyaml.Parser()},
	} {
		path := filepath.Join(xdg.ConfigHome, appDirName, candidate.name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), candidate.parser); err != nil {
			return nil, aurplanerrors.Wrapf(err, aurplanerrors.ErrConfigLoad, "failed to load user defaults from %s", path)
		}
		log.Debug().Str("path", path).Msg("Loaded user defaults")
		break
	}

	var defaults Defaults
	if err := k.Unmarshal("", &defaults); err != nil {
		return nil, aurplanerrors.Wrap(err, aurplanerrors.ErrConfigParse, "failed to decode defaults")
	}
	return &defaults, nil
}
