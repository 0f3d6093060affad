// Package config loads and validates the declarative sync configuration.
//
// Two layers are involved: built-in defaults (embedded TOML, optionally
// overridden by a user defaults file) and the sync.yml document listing
// build flags, repositories with their seed packages, and per-package
// overrides. sync.yml is decoded strictly: unknown keys anywhere in the
// document are configuration errors, not noise to ignore.
package config

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/aurplan/pkg/errors"
	"github.com/arthur-debert/aurplan/pkg/logging"
)

var log = logging.GetLogger("config")

// Repository is one named repository and its explicitly configured seed
// packages, in document order.
type Repository struct {
	Name  string
	Seeds []string
}

// Override holds the per-package settings a user may override in sync.yml.
// Nil fields mean "use the default".
type Override struct {
	Chroot *bool `yaml:"chroot"`
}

// Sync is the parsed sync.yml document. Repositories preserve document
// order; the assignment engine processes them in exactly this order.
type Sync struct {
	BuildFlags   []string
	Repositories []Repository
	Overrides    map[string]Override
}

// Repository returns the configured repository with the given name.
func (s *Sync) Repository(name string) (*Repository, bool) {
	for i := range s.Repositories {
		if s.Repositories[i].Name == name {
			return &s.Repositories[i], true
		}
	}
	return nil, false
}

// SeedRepo returns the repository that explicitly seeds the given package.
func (s *Sync) SeedRepo(pkg string) (string, bool) {
	for _, repo := range s.Repositories {
		for _, seed := range repo.Seeds {
			if seed == pkg {
				return repo.Name, true
			}
		}
	}
	return "", false
}

// Seeds returns every seed package in repository order.
func (s *Sync) Seeds() []string {
	var seeds []string
	for _, repo := range s.Repositories {
		seeds = append(seeds, repo.Seeds...)
	}
	return seeds
}

// syncSchema mirrors the sync.yml document for strict decoding. The
// repositories mapping is kept as a raw node so document order survives.
type syncSchema struct {
	BuildFlags       []string             `yaml:"build_flags"`
	Repositories     yaml.Node            `yaml:"repositories"`
	PackageOverrides map[string]*Override `yaml:"package_overrides"`
}

func parseSync(data []byte) (*Sync, error) {
	var schema syncSchema
	dec := newStrictDecoder(data)
	if err := dec.Decode(&schema); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse sync config")
	}

	repos, err := decodeRepositories(&schema.Repositories)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]Override, len(schema.PackageOverrides))
	for name, ov := range schema.PackageOverrides {
		if ov == nil {
			// "pkg:" with no body is a valid empty override
			overrides[name] = Override{}
			continue
		}
		overrides[name] = *ov
	}

	sync := &Sync{
		BuildFlags:   schema.BuildFlags,
		Repositories: repos,
		Overrides:    overrides,
	}
	if err := validate(sync); err != nil {
		return nil, err
	}
	return sync, nil
}

// decodeRepositories unpacks the repositories mapping node, preserving the
// order repositories appear in the document.
func decodeRepositories(node *yaml.Node) ([]Repository, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, errors.New(errors.ErrConfigValid, "sync config has no repositories section")
	}
	if node.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrConfigParse, "repositories must be a mapping of repository name to seed packages")
	}

	repos := make([]Repository, 0, len(node.Content)/2)
	for i := 0; i < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		var seeds []string
		if valNode.Tag != "!!null" {
			if err := valNode.Decode(&seeds); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse,
					"repository %q: seeds must be a list of package names", keyNode.Value)
			}
		}
		repos = append(repos, Repository{Name: keyNode.Value, Seeds: seeds})
	}
	return repos, nil
}

func validate(sync *Sync) error {
	if len(sync.Repositories) == 0 {
		return errors.New(errors.ErrConfigValid, "sync config has no repositories section")
	}

	seen := make(map[string]bool)
	seedHome := make(map[string]string)
	for ri := range sync.Repositories {
		repo := &sync.Repositories[ri]
		if repo.Name == "" {
			return errors.New(errors.ErrConfigValid, "repository with empty name")
		}
		if seen[repo.Name] {
			return errors.Newf(errors.ErrConfigValid, "repository %q listed twice", repo.Name)
		}
		seen[repo.Name] = true

		var deduped []string
		inRepo := make(map[string]bool)
		for _, seed := range repo.Seeds {
			if seed == "" {
				return errors.Newf(errors.ErrConfigValid, "repository %q lists an empty package name", repo.Name)
			}
			if inRepo[seed] {
				log.Warn().Str("repo", repo.Name).Str("package", seed).Msg("Seed listed twice in repository, ignoring duplicate")
				continue
			}
			if other, ok := seedHome[seed]; ok {
				return errors.Newf(errors.ErrConfigValid,
					"package %q is a seed of both %q and %q", seed, other, repo.Name)
			}
			inRepo[seed] = true
			seedHome[seed] = repo.Name
			deduped = append(deduped, seed)
		}
		repo.Seeds = deduped
	}
	return nil
}

func newStrictDecoder(data []byte) *yaml.Decoder {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec
}
