package fs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/litbook/pkg/adapters/fs"
)

func TestLinks(t *testing.T) {
	src := []byte("---\nid: UC001\nkind: use-case\n---\n\n# UC001\n\n" +
		"- [Doc](../../documents/D001.md)\n" +
		"| [UC002](UC002.md) | table |\n|---|---|\n| [UC003](UC003.md) | row |\n\n" +
		"See `[not](a-link.md)` and ![chart](img/chart.png).\n")

	links := fs.Links(src)
	require.NotEmpty(t, links)
	assert.Equal(t, "../../documents/D001.md", links[0])
	assert.Contains(t, links, "../../documents/D001.md")
	assert.Contains(t, links, "UC002.md")
	assert.Contains(t, links, "UC003.md")
	assert.Contains(t, links, "img/chart.png")
	assert.NotContains(t, links, "a-link.md")
}

func TestTree_CheckLinks(t *testing.T) {
	tree := newTree(t, map[string]string{
		"use-cases-by-category/1-x/UC001.md": "[ok](../../documents/D001.md) [gone](../../documents/D404.md) " +
			"[web](https://x.org) [anchor](#top) [folder](../../documents/media-news/) [out](../../../outside.md)",
		"documents/D001.md":              "# D001",
		"documents/media-news/README.md": "# Media",
		"documents/media-news/D002.md":   "[up](../D001.md) [encoded](../My%20File.md)",
		"documents/My File.md":           "spaces",
	})

	broken, checked, err := tree.CheckLinks("**/*.md")
	require.NoError(t, err)
	assert.Equal(t, 5, checked)
	assert.Equal(t, []fs.BrokenLink{{Page: "use-cases-by-category/1-x/UC001.md", Target: "../../documents/D404.md"}}, broken)
	assert.Equal(t, "use-cases-by-category/1-x/UC001.md -> ../../documents/D404.md", broken[0].String())
}
