package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnionFind(t *testing.T) {
	u := newUnionFind()

	assert.Equal(t, "a", u.find("a"))

	u.union("b", "c")
	assert.Equal(t, u.find("b"), u.find("c"))
	assert.NotEqual(t, u.find("a"), u.find("b"))

	u.union("a", "c")
	assert.Equal(t, u.find("a"), u.find("b"))
}

func TestUnionFindDeterministicRepresentative(t *testing.T) {
	// Lexically smallest member is the representative regardless of
	// merge order
	u1 := newUnionFind()
	u1.union("zzz", "aaa")
	u1.union("mmm", "zzz")

	u2 := newUnionFind()
	u2.union("mmm", "aaa")
	u2.union("aaa", "zzz")

	assert.Equal(t, "aaa", u1.find("zzz"))
	assert.Equal(t, "aaa", u2.find("mmm"))
}

func TestUnionFindMembers(t *testing.T) {
	u := newUnionFind()
	u.union("a", "b")
	u.find("lonely")

	groups := u.members()
	assert.ElementsMatch(t, []string{"a", "b"}, groups["a"])
	assert.Equal(t, []string{"lonely"}, groups["lonely"])
}
