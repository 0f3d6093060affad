package aur

import (
	"testing"

	"github.com/arthur-debert/aurplan/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	infos map[string]*PackageInfo
	calls map[string]int
}

func (p *countingProvider) Resolve(name string) (*PackageInfo, error) {
	p.calls[name]++
	if info, ok := p.infos[name]; ok {
		return info, nil
	}
	return nil, errors.Newf(errors.ErrLookupNotFound, "package %s not found in AUR", name)
}

func TestCachedResolvesOnce(t *testing.T) {
	inner := &countingProvider{
		infos: map[string]*PackageInfo{
			"foo": {Name: "foo", Base: "foo"},
		},
		calls: make(map[string]int),
	}
	cached := NewCached(inner)

	for i := 0; i < 5; i++ {
		info, err := cached.Resolve("foo")
		require.NoError(t, err)
		assert.Equal(t, "foo", info.Name)
	}
	assert.Equal(t, 1, inner.calls["foo"])
	assert.Equal(t, 1, cached.Lookups())
}

func TestCachedMemoizesErrors(t *testing.T) {
	inner := &countingProvider{infos: map[string]*PackageInfo{}, calls: make(map[string]int)}
	cached := NewCached(inner)

	for i := 0; i < 3; i++ {
		_, err := cached.Resolve("missing")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	}
	assert.Equal(t, 1, inner.calls["missing"])
}
