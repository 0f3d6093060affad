package resolve

// unionFind tracks pkgbase groups as disjoint sets of package names.
// Groups are merged eagerly as members are discovered, so sibling
// propagation never re-scans sibling lists.
type unionFind struct {
	parent map[string]string
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[string]string)}
}

// find returns the representative of x's group, compressing paths as it
// goes. The lexically smallest member always wins the representative role,
// keeping results independent of merge order.
func (u *unionFind) find(x string) string {
	root, ok := u.parent[x]
	if !ok {
		u.parent[x] = x
		return x
	}
	if root == x {
		return x
	}
	top := u.find(root)
	u.parent[x] = top
	return top
}

func (u *unionFind) union(a, b string) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}

// members returns every known name grouped under its representative.
func (u *unionFind) members() map[string][]string {
	groups := make(map[string][]string)
	for name := range u.parent {
		rep := u.find(name)
		groups[rep] = append(groups[rep], name)
	}
	return groups
}
