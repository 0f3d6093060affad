package aur

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = "" +
	"quodlibet\tquodlibet\tquodlibet\t4.6.0-1\tSelf\n" +
	"quodlibet\tpython-senf\tquodlibet\t4.6.0-1\tDepends\n" +
	"quodlibet\tpython-feedparser\tquodlibet\t4.6.0-1\tDepends\n" +
	"python-senf\tpython-senf\tpython-senf\t1.5.0-1\tSelf\n" +
	"python-feedparser\tpython-feedparser\tpython-feedparser\t6.0.11-1\tSelf\n" +
	"python-feedparser\tpython-sgmllib\tpython-feedparser\t6.0.11-1\tMakeDepends\n" +
	"python-sgmllib\tpython-sgmllib\tpython-sgmllib\t1.0.4-1\tSelf\n"

func TestParseDependsTable(t *testing.T) {
	rows := parseDependsTable(sampleTable)
	require.Len(t, rows, 7)
	assert.Equal(t, "quodlibet", rows[0].Package)
	assert.Equal(t, "Self", rows[0].DependsType)
	assert.Equal(t, "python-senf", rows[1].Depends)
	assert.Equal(t, "MakeDepends", rows[5].DependsType)
}

func TestParseDependsTableSkipsMalformed(t *testing.T) {
	rows := parseDependsTable("broken line\n\nfoo\tbar\tfoo\t1-1\tDepends\n")
	require.Len(t, rows, 1)
	assert.Equal(t, "foo", rows[0].Package)
}

func TestClientAbsorb(t *testing.T) {
	c := NewClient()
	c.absorb(parseDependsTable(sampleTable))

	info := c.info("quodlibet", c.nodes["quodlibet"])
	assert.Equal(t, "quodlibet", info.Base)
	assert.Equal(t, "4.6.0-1", info.Version)
	assert.Equal(t, []string{"python-feedparser", "python-senf"}, info.Depends)
	assert.Empty(t, info.Siblings)

	leaf := c.info("python-sgmllib", c.nodes["python-sgmllib"])
	assert.Empty(t, leaf.Depends)
}

func TestClientSiblings(t *testing.T) {
	c := NewClient()
	c.absorb(parseDependsTable("" +
		"jack2\tjack2\tjack2\t1.9.22-1\tSelf\n" +
		"jack2-dbus\tjack2-dbus\tjack2\t1.9.22-1\tSelf\n"))

	info := c.info("jack2", c.nodes["jack2"])
	assert.Equal(t, []string{"jack2-dbus"}, info.Siblings)

	info = c.info("jack2-dbus", c.nodes["jack2-dbus"])
	assert.Equal(t, []string{"jack2"}, info.Siblings)
}

func TestClientResolveCachedTable(t *testing.T) {
	// A package already absorbed resolves without shelling out
	c := NewClient()
	c.absorb(parseDependsTable(sampleTable))

	info, err := c.Resolve("python-senf")
	require.NoError(t, err)
	assert.Equal(t, "python-senf", info.Name)
	assert.Equal(t, "1.5.0-1", info.Version)
}

func TestUniqueSorted(t *testing.T) {
	assert.Nil(t, uniqueSorted(nil))
	assert.Equal(t, []string{"a", "b", "c"}, uniqueSorted([]string{"c", "a", "b", "a", "c"}))
}
