package fs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/litbook/pkg/adapters/fs"
	"github.com/aretw0/litbook/pkg/core"
)

var roots = fs.Roots{
	core.KindDocument: "documents",
	core.KindUseCase:  "use-cases-by-category",
}

func TestTree_Scan(t *testing.T) {
	tree := newTree(t, map[string]string{
		"documents/D001.md":                         "# D001: legacy page without front matter\n",
		"documents/media-news/report.md":            "---\nid: D002\nkind: document\ntitle: Renamed\n---\n\n# D002\n",
		"documents/README.md":                       "# Bibliography\n",
		"documents/overview.md":                     "---\ntitle: Overview\n---\n",
		"use-cases-by-category/1-x/UC001.md":        "---\nid: UC001\nkind: use-case\n---\n",
		"use-cases-by-category/1-x/1a-y/UC002.md":   "---\nid: UC002\nkind: use-case\n---\n",
		"use-cases-by-category/1-x/README.md":       "# 1. X\n",
		"use-cases-by-category/2-z/D009.md":         "not a use case by name",
		"use-cases-by-category/1-x/broken/UC003.md": "---\n: : bad yaml\n---\n",
	})

	inv, err := tree.Scan(roots)
	require.NoError(t, err)

	p, ok := inv.Locate(core.KindDocument, "D001")
	require.True(t, ok)
	assert.Equal(t, "documents/D001.md", p)
	assert.Equal(t, core.Flat, inv.Placement(core.KindDocument, "D001"))

	p, ok = inv.Locate(core.KindDocument, "D002")
	require.True(t, ok)
	assert.Equal(t, "documents/media-news/report.md", p)
	assert.Equal(t, core.Categorized, inv.Placement(core.KindDocument, "D002"))

	assert.Equal(t, core.Categorized, inv.Placement(core.KindUseCase, "UC001"))
	assert.Equal(t, core.Subcategorized, inv.Placement(core.KindUseCase, "UC002"))
	assert.Equal(t, core.Subcategorized, inv.Placement(core.KindUseCase, "UC003"), "name convention covers bad front matter")
	assert.Equal(t, core.Unplaced, inv.Placement(core.KindUseCase, "UC404"))

	_, ok = inv.Locate(core.KindUseCase, "D009")
	assert.False(t, ok)

	assert.Len(t, inv.Pages(core.KindDocument), 2)
	assert.Len(t, inv.Pages(core.KindUseCase), 3)
	assert.Empty(t, inv.Duplicates())
}

func TestTree_ScanDuplicates(t *testing.T) {
	tree := newTree(t, map[string]string{
		"documents/D001.md":            "flat copy",
		"documents/media-news/D001.md": "moved copy",
	})

	inv, err := tree.Scan(roots)
	require.NoError(t, err)

	p, _ := inv.Locate(core.KindDocument, "D001")
	assert.Equal(t, "documents/D001.md", p, "first path in sorted order wins")

	dups := inv.Duplicates()
	require.Len(t, dups, 1)
	assert.Equal(t, []string{"documents/D001.md", "documents/media-news/D001.md"}, dups[0].Paths)
}

func TestInventory_Record(t *testing.T) {
	tree := newTree(t, nil)
	inv, err := tree.Scan(roots)
	require.NoError(t, err)

	inv.Record(fs.Page{ID: "D001", Kind: core.KindDocument, Path: "documents/x/D001.md"})
	p, ok := inv.Locate(core.KindDocument, "D001")
	require.True(t, ok)
	assert.Equal(t, "documents/x/D001.md", p)
}

func TestTree_ScanCache(t *testing.T) {
	tree := newTree(t, map[string]string{
		"documents/D001.md": "---\nid: D001\nkind: document\n---\n",
		"documents/D002.md": "# D002\n",
	})

	_, err := tree.Scan(roots)
	require.NoError(t, err)
	_, err = tree.Scan(roots)
	require.NoError(t, err)
	st := tree.State().(fs.TreeState)
	assert.Equal(t, 2, st.CachedPages)
	assert.Equal(t, 2, st.CacheHits)

	// A rewritten page is parsed again.
	_, err = tree.WriteFile("documents/D001.md", []byte("---\nid: D007\nkind: document\n---\n"))
	require.NoError(t, err)
	require.NoError(t, tree.Move("documents/D002.md", "documents/media-news/D002.md"))

	inv, err := tree.Scan(roots)
	require.NoError(t, err)
	_, ok := inv.Locate(core.KindDocument, "D007")
	assert.True(t, ok)
	p, _ := inv.Locate(core.KindDocument, "D002")
	assert.Equal(t, "documents/media-news/D002.md", p)

	st = tree.State().(fs.TreeState)
	assert.Equal(t, int64(1), st.Written)
	assert.Equal(t, int64(1), st.Moved)
	assert.Equal(t, "tree", tree.ComponentType())
}
