// Package aur provides package metadata lookup and the aurutils command
// wrappers aurplan drives. The resolution engine only sees the Provider
// interface; the aurutils-backed client, the memoizing cache and test
// fakes all satisfy it.
package aur

import (
	"github.com/arthur-debert/aurplan/pkg/errors"
)

// PackageInfo is the metadata the engine needs for one package.
type PackageInfo struct {
	// Name of the package
	Name string
	// Base is the pkgbase; split packages share one
	Base string
	// Version is the current AUR version
	Version string
	// Depends lists AUR dependency package names. Dependencies satisfied
	// outside the AUR never appear here.
	Depends []string
	// Siblings lists other known packages built from the same pkgbase,
	// excluding the package itself.
	Siblings []string
}

// Provider resolves package names to metadata.
//
// Implementations distinguish two failure kinds: ErrNotFound when the
// package does not exist in the AUR (the caller drops it with a warning),
// and anything else for transient trouble (network, tooling) the caller
// records without aborting the rest of the run.
type Provider interface {
	Resolve(name string) (*PackageInfo, error)
}

// ErrNotFound marks a package that does not exist in the AUR.
var ErrNotFound = errors.New(errors.ErrLookupNotFound, "package not found in AUR")

// IsNotFound reports whether err marks a missing AUR package.
func IsNotFound(err error) bool {
	return errors.IsErrorCode(err, errors.ErrLookupNotFound)
}
