package aur

// Cached memoizes another Provider so each package name is resolved at
// most once per run, errors included. This bounds external lookups to the
// closure size regardless of how often the engine revisits a name.
type Cached struct {
	inner   Provider
	results map[string]cachedResult
	misses  int
}

type cachedResult struct {
	info *PackageInfo
	err  error
}

// NewCached wraps a provider with memoization.
func NewCached(inner Provider) *Cached {
	return &Cached{
		inner:   inner,
		results: make(map[string]cachedResult),
	}
}

// Resolve implements Provider.
func (c *Cached) Resolve(name string) (*PackageInfo, error) {
	if r, ok := c.results[name]; ok {
		return r.info, r.err
	}
	c.misses++
	info, err := c.inner.Resolve(name)
	c.results[name] = cachedResult{info: info, err: err}
	return info, err
}

// Lookups returns how many names reached the underlying provider.
func (c *Cached) Lookups() int {
	return c.misses
}
