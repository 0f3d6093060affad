package aur

import (
	"sort"
	"strings"

	"github.com/arthur-debert/aurplan/pkg/errors"
	"github.com/arthur-debert/aurplan/pkg/logging"
	"github.com/arthur-debert/aurplan/pkg/run"
)

var log = logging.GetLogger("aur")

// dependsRow is one line of `aur depends --table` output:
// package, dependency, pkgbase, pkgver, dependency type.
type dependsRow struct {
	Package     string
	Depends     string
	Base        string
	Version     string
	DependsType string
}

// Client resolves package metadata through `aur depends --table`.
//
// One aur-depends call returns the whole dependency subtree of the queried
// package, so the client keeps everything it has seen; resolving a
// dependency afterwards is a map lookup, not another process spawn.
type Client struct {
	nodes map[string]*node
}

type node struct {
	base    string
	version string
	depends []string
}

// NewClient creates an aurutils-backed metadata provider.
func NewClient() *Client {
	return &Client{nodes: make(map[string]*node)}
}

// Resolve implements Provider.
func (c *Client) Resolve(name string) (*PackageInfo, error) {
	if n, ok := c.nodes[name]; ok {
		return c.info(name, n), nil
	}

	out, _, err := run.InOut([]string{"aur", "depends", "--table", "-"}, name+"\n", run.Opts{})
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrCommandFailed) {
			// aur depends exits non-zero for unknown packages; it also does
			// for API trouble, so only a clean "no output" counts as missing
			return nil, errors.Wrapf(err, errors.ErrLookupFailed, "aur depends failed for %s", name)
		}
		return nil, errors.Wrapf(err, errors.ErrLookupFailed, "could not run aur depends for %s", name)
	}

	rows := parseDependsTable(out)
	c.absorb(rows)

	n, ok := c.nodes[name]
	if !ok {
		log.Warn().Str("package", name).Msg("Package not in aur depends output")
		return nil, errors.Newf(errors.ErrLookupNotFound, "package %s not found in AUR", name)
	}
	return c.info(name, n), nil
}

func (c *Client) absorb(rows []dependsRow) {
	for _, row := range rows {
		n, ok := c.nodes[row.Package]
		if !ok {
			n = &node{base: row.Base, version: row.Version}
			c.nodes[row.Package] = n
		}
		if row.DependsType == "Self" || row.Depends == row.Package {
			continue
		}
		n.depends = append(n.depends, row.Depends)
	}
}

func (c *Client) info(name string, n *node) *PackageInfo {
	info := &PackageInfo{
		Name:    name,
		Base:    n.base,
		Version: n.version,
		Depends: uniqueSorted(n.depends),
	}
	for sibling, sn := range c.nodes {
		if sibling != name && sn.base == n.base {
			info.Siblings = append(info.Siblings, sibling)
		}
	}
	sort.Strings(info.Siblings)
	return info
}

func parseDependsTable(out string) []dependsRow {
	var rows []dependsRow
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			log.Warn().Str("line", line).Msg("Skipping malformed aur depends row")
			continue
		}
		rows = append(rows, dependsRow{
			Package:     fields[0],
			Depends:     fields[1],
			Base:        fields[2],
			Version:     fields[3],
			DependsType: fields[4],
		})
	}
	return rows
}

func uniqueSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
