// Package testutil provides test doubles for aurplan components.
//
// The central piece is FakeProvider, an in-memory aur.Provider built
// declaratively so engine tests never touch aurutils or the network.
package testutil

import (
	"github.com/arthur-debert/aurplan/pkg/aur"
	"github.com/arthur-debert/aurplan/pkg/errors"
)

// FakeProvider is an in-memory metadata provider.
type FakeProvider struct {
	packages map[string]*aur.PackageInfo
	failing  map[string]error
}

// NewFakeProvider creates an empty fake provider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		packages: make(map[string]*aur.PackageInfo),
		failing:  make(map[string]error),
	}
}

// Add registers a package with its AUR dependencies. The pkgbase defaults
// to the package name.
func (p *FakeProvider) Add(name string, depends ...string) *FakeProvider {
	p.packages[name] = &aur.PackageInfo{
		Name:    name,
		Base:    name,
		Version: "1.0-1",
		Depends: depends,
	}
	return p
}

// AddSplit registers a package built from the given pkgbase. Sibling
// lists of all members are kept consistent.
func (p *FakeProvider) AddSplit(name, base string, depends ...string) *FakeProvider {
	p.packages[name] = &aur.PackageInfo{
		Name:    name,
		Base:    base,
		Version: "1.0-1",
		Depends: depends,
	}
	for other, info := range p.packages {
		if other == name || info.Base != base {
			continue
		}
		info.Siblings = append(info.Siblings, name)
		p.packages[name].Siblings = append(p.packages[name].Siblings, other)
	}
	return p
}

// Fail makes resolution of the given package fail with a transient error.
func (p *FakeProvider) Fail(name string) *FakeProvider {
	p.failing[name] = errors.Newf(errors.ErrLookupFailed, "transient failure resolving %s", name)
	return p
}

// Resolve implements aur.Provider. Unregistered names resolve to NotFound,
// mirroring how dependencies satisfied outside the AUR behave.
func (p *FakeProvider) Resolve(name string) (*aur.PackageInfo, error) {
	if err, ok := p.failing[name]; ok {
		return nil, err
	}
	if info, ok := p.packages[name]; ok {
		return info, nil
	}
	return nil, errors.Newf(errors.ErrLookupNotFound, "package %s not found in AUR", name)
}
