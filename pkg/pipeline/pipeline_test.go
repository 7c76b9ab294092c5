package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/litbook/pkg/adapters/fs"
	"github.com/aretw0/litbook/pkg/classify"
	"github.com/aretw0/litbook/pkg/core"
	"github.com/aretw0/litbook/pkg/pipeline"
	"github.com/aretw0/litbook/pkg/render"
	"github.com/aretw0/litbook/pkg/storage"
)

const (
	targeting = "1. AI-enabled Targeting & Eligibility Assessment"
	mapping   = "1a. Poverty Mapping & Geographic Targeting"
	scoring   = "1b. Eligibility Scoring & Prediction (Individual/HH)"
)

var fixedNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func testConfig() pipeline.Config {
	return pipeline.Config{
		Layout: pipeline.DefaultLayout(),
		Taxonomy: pipeline.Taxonomy{
			DocumentClasses: []classify.DocumentClass{
				{Key: "peer-reviewed-research", Title: "Peer-Reviewed Research", Types: []string{"Research Paper"}, Evidence: []string{"Peer-reviewed Empirical"}},
				{Key: "media-news", Title: "Media & News Articles", Types: []string{"News Article", "Blog Post"}, Evidence: []string{"Media Report"}},
			},
			OtherDocuments: classify.DocumentClass{Key: "other-documents", Title: "Other Documents"},
			Categories:     []classify.Mapping{{Title: targeting, Folder: "1-targeting"}},
			OtherCategory:  classify.Mapping{Title: "Other", Folder: "other"},
			Subcategories: []classify.Mapping{
				{Title: mapping, Folder: "1a-poverty-mapping"},
				{Title: scoring, Folder: "1b-eligibility-scoring"},
			},
		},
	}
}

func testDataset() *core.Dataset {
	return core.NewDataset(
		[]core.Document{
			{ID: "D001", Title: "Face identification in cash transfers", Year: "2020", Type: "Research Paper",
				EvidenceStrength: "High", URL: "file:///Users/reviewer/Zotero/storage/AB12CD/Face_ID.pdf"},
			{ID: "D002", Title: "Chatbot rollout", Year: "2021", Type: "News Article",
				EvidenceStrength: "Low", URL: "https://example.org/news"},
		},
		[]core.UseCase{
			{ID: "UC001", CategoryTitle: targeting, SubCategoryTitle: mapping, Country: "Pakistan", Outcome: "Positive"},
			{ID: "UC002", CategoryTitle: targeting, SubCategoryTitle: scoring, Country: "Pakistan", Outcome: "Positive"},
			{ID: "UC003", CategoryTitle: targeting, SubCategoryTitle: "1z. Not mapped", Country: "Nigeria", Outcome: "Mixed"},
		},
		[]core.Link{
			{UseCaseID: "UC001", DocumentID: "D001"},
			{UseCaseID: "UC002", DocumentID: "D001"},
			{UseCaseID: "UC003", DocumentID: "D002"},
		},
	)
}

func newService(t *testing.T, cfg pipeline.Config, ds *core.Dataset) (*pipeline.Service, string) {
	t.Helper()
	root := t.TempDir()
	svc, err := pipeline.New(pipeline.Params{
		Tree:   fs.NewTree(root, nil),
		Loader: core.LoaderFunc(func(context.Context) (*core.Dataset, error) { return ds, nil }),
		Config: cfg,
		Now:    func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svc, root
}

func read(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func exists(root, rel string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil
}

// snapshot returns every file of the tree with its content.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		data, err := os.ReadFile(p)
		out[filepath.ToSlash(rel)] = string(data)
		return err
	})
	require.NoError(t, err)
	return out
}

func TestRun_EndToEnd(t *testing.T) {
	svc, root := newService(t, testConfig(), testDataset())
	ctx := context.Background()

	reports, err := svc.Run(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 6)
	for _, r := range reports[:5] {
		assert.Empty(t, r.Warnings, r.Stage)
		assert.Equal(t, r.Attempted, r.Succeeded, r.Stage)
	}

	t.Run("Local document shows its file name only", func(t *testing.T) {
		page := read(t, root, "documents/peer-reviewed-research/D001.md")
		cell, ok := render.AccessCell(page)
		require.True(t, ok)
		assert.Equal(t, "*Local document: Face_ID.pdf*", cell)
		assert.NotContains(t, page, "/Users/reviewer")
	})

	t.Run("Web document is a clickable link", func(t *testing.T) {
		cell, ok := render.AccessCell(read(t, root, "documents/media-news/D002.md"))
		require.True(t, ok)
		assert.Equal(t, "[https://example.org/news](https://example.org/news)", cell)
	})

	t.Run("Category index", func(t *testing.T) {
		index := read(t, root, "use-cases-by-category/1-targeting/README.md")
		assert.Equal(t, 3, strings.Count(index, "| [UC"))
		assert.Contains(t, index, "| [UC001](1a-poverty-mapping/UC001.md) |")
		assert.Contains(t, index, "| [UC003](UC003.md) |")
		assert.Contains(t, index, "### By Outcome:\n- Positive: 2\n- Mixed: 1\n")
	})

	t.Run("Use cases follow their subcategory", func(t *testing.T) {
		uc1 := read(t, root, "use-cases-by-category/1-targeting/1a-poverty-mapping/UC001.md")
		assert.Contains(t, uc1, "](../../../documents/peer-reviewed-research/D001.md)")
		assert.NotContains(t, uc1, "](../../documents/")

		uc3 := read(t, root, "use-cases-by-category/1-targeting/UC003.md")
		assert.Contains(t, uc3, "](../../documents/media-news/D002.md)")

		assert.True(t, exists(root, "use-cases-by-category/1-targeting/1b-eligibility-scoring/README.md"))
		assert.False(t, exists(root, "use-cases-by-category/1-targeting/UC001.md"))
	})

	t.Run("Flat indices point into the class folders", func(t *testing.T) {
		all := read(t, root, "documents/all-documents.md")
		assert.Contains(t, all, "(peer-reviewed-research/D001.md)")
		assert.NotContains(t, all, "(D001.md)")
		assert.Contains(t, read(t, root, "documents/README.md"), "# Documents Library")
		assert.False(t, exists(root, "documents/D001.md"))
	})

	t.Run("Every link resolves", func(t *testing.T) {
		_, err := svc.Summary(ctx)
		require.NoError(t, err)
		r, err := svc.Check(ctx)
		require.NoError(t, err)
		assert.Empty(t, r.Warnings)
		assert.Positive(t, r.Attempted)

		summary := read(t, root, "SUMMARY.md")
		assert.Contains(t, summary, "* [1. AI-enabled Targeting & Eligibility Assessment](use-cases-by-category/1-targeting/README.md)")
		assert.Contains(t, summary, "    * [UC001: Pakistan](use-cases-by-category/1-targeting/1a-poverty-mapping/UC001.md)")
		assert.Contains(t, summary, "(documents/peer-reviewed-research/D001.md)")
	})

	t.Run("State", func(t *testing.T) {
		st, ok := svc.State().(pipeline.ServiceState)
		require.True(t, ok)
		assert.True(t, st.DatasetLoaded)
		assert.Equal(t, 3, st.UseCases)
		assert.Equal(t, "pipeline", svc.ComponentType())
		assert.GreaterOrEqual(t, len(st.Stages), 6)
	})
}

func TestReorganizeDocuments_Twice(t *testing.T) {
	svc, root := newService(t, testConfig(), testDataset())
	ctx := context.Background()

	_, err := svc.Generate(ctx)
	require.NoError(t, err)
	first, err := svc.ReorganizeDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Succeeded)
	assert.Zero(t, first.Skipped)
	before := snapshot(t, root)

	second, err := svc.ReorganizeDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, second.Warnings)
	assert.Equal(t, 2, second.Attempted)
	assert.Equal(t, 2, second.Skipped)
	assert.Equal(t, before, snapshot(t, root), "second run must not add, lose or change files")

	assert.Contains(t, before, "documents/peer-reviewed-research/D001.md")
	assert.Contains(t, before, "documents/media-news/D002.md")
	assert.Contains(t, before["use-cases-by-category/1-targeting/UC001.md"], "](../../documents/peer-reviewed-research/D001.md)")
}

func TestReorganizeDocuments_MissingPage(t *testing.T) {
	svc, root := newService(t, testConfig(), testDataset())
	ctx := context.Background()

	_, err := svc.Generate(ctx)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(root, "documents", "D002.md")))

	r, err := svc.ReorganizeDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Attempted)
	assert.Equal(t, 1, r.Succeeded)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "D002")
	assert.True(t, exists(root, "documents/peer-reviewed-research/D001.md"))
}

func TestReorganizeUseCases_Twice(t *testing.T) {
	svc, root := newService(t, testConfig(), testDataset())
	ctx := context.Background()

	_, err := svc.Generate(ctx)
	require.NoError(t, err)
	_, err = svc.ReorganizeUseCases(ctx)
	require.NoError(t, err)
	before := snapshot(t, root)

	r, err := svc.ReorganizeUseCases(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Skipped)
	assert.Equal(t, before, snapshot(t, root))

	// Documents are still flat: one extra level up.
	assert.Contains(t, before["use-cases-by-category/1-targeting/1b-eligibility-scoring/UC002.md"], "](../../../documents/D001.md)")
}

func TestGenerate(t *testing.T) {
	t.Run("Unknown category goes to the fallback folder", func(t *testing.T) {
		ds := testDataset()
		ds = core.NewDataset(ds.Documents, append(ds.UseCases, core.UseCase{ID: "UC009", CategoryTitle: "9. Something new"}), ds.Links)
		svc, root := newService(t, testConfig(), ds)

		r, err := svc.Generate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 6, r.Attempted)
		assert.Equal(t, 6, r.Succeeded)
		require.Len(t, r.Warnings, 1)
		assert.Contains(t, r.Warnings[0], "UC009")
		assert.True(t, exists(root, "use-cases-by-category/other/UC009.md"))
		assert.True(t, exists(root, "use-cases-by-category/other/README.md"))
	})

	t.Run("Pages without optional fields", func(t *testing.T) {
		ds := core.NewDataset(
			[]core.Document{{ID: "D001"}},
			[]core.UseCase{{ID: "UC001", CategoryTitle: targeting}},
			nil,
		)
		svc, root := newService(t, testConfig(), ds)
		_, err := svc.Generate(context.Background())
		require.NoError(t, err)

		doc := read(t, root, "documents/D001.md")
		assert.Contains(t, doc, "| **Year** | Not specified |")
		assert.Contains(t, doc, "| **Access URL** | "+render.UnavailableNotice+" |")
		assert.NotContains(t, doc, "|  |")
		assert.NotContains(t, read(t, root, "use-cases-by-category/1-targeting/UC001.md"), "Related Documents")
	})

	t.Run("Loader failure is fatal", func(t *testing.T) {
		svc, err := pipeline.New(pipeline.Params{
			Tree: fs.NewTree(t.TempDir(), nil),
			Loader: core.LoaderFunc(func(context.Context) (*core.Dataset, error) {
				return nil, core.ErrMissingColumn
			}),
			Config: testConfig(),
		})
		require.NoError(t, err)
		_, err = svc.Generate(context.Background())
		assert.True(t, errors.Is(err, core.ErrMissingColumn))
	})

	t.Run("Regenerating keeps pages where they are", func(t *testing.T) {
		svc, root := newService(t, testConfig(), testDataset())
		ctx := context.Background()
		_, err := svc.Run(ctx)
		require.NoError(t, err)

		_, err = svc.Generate(ctx)
		require.NoError(t, err)
		assert.False(t, exists(root, "documents/D001.md"))
		assert.False(t, exists(root, "use-cases-by-category/1-targeting/UC001.md"))
		assert.Contains(t, read(t, root, "use-cases-by-category/1-targeting/1a-poverty-mapping/UC001.md"),
			"](../../../documents/peer-reviewed-research/D001.md)")
		assert.Contains(t, read(t, root, "documents/README.md"), "# Documents Library")
	})
}

func TestOrganizeDocuments(t *testing.T) {
	svc, root := newService(t, testConfig(), testDataset())
	ctx := context.Background()

	_, err := svc.Generate(ctx)
	require.NoError(t, err)
	assert.Contains(t, read(t, root, "documents/README.md"), "# Bibliography")

	r, err := svc.OrganizeDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, r.Attempted, "overview, two class indices, three listings and the README")
	assert.Equal(t, 7, r.Succeeded)

	overview := read(t, root, "documents/overview.md")
	assert.Contains(t, overview, "**[Peer-Reviewed Research](peer-reviewed-research.md)**")
	assert.NotContains(t, overview, "other-documents")
	assert.Contains(t, read(t, root, "documents/media-news.md"), "| [D002](D002.md) |")
	assert.Contains(t, read(t, root, "documents/all-documents.md"), "# Bibliography")
	assert.Contains(t, read(t, root, "documents/README.md"), "(overview.md)")
}

func TestAccessURLs(t *testing.T) {
	cfg := testConfig()
	cfg.Storage = storage.Config{
		Bucket:      "devmarketimpact",
		Region:      "eu-north-1",
		Prefix:      "ai-social-protection/documents",
		MappingFile: "workingdocs/s3_url_mapping.json",
		Objects: map[string]string{
			"D001": "D001_Face_identification.pdf",
			"D002": "D002_Chatbot.pdf",
		},
	}
	svc, root := newService(t, cfg, testDataset())
	ctx := context.Background()
	const url = "https://devmarketimpact.s3.eu-north-1.amazonaws.com/ai-social-protection/documents/D001_Face_identification.pdf"

	_, err := svc.Generate(ctx)
	require.NoError(t, err)

	r, err := svc.ApplyAccessURLs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Succeeded)
	assert.Equal(t, 1, r.Skipped, "D002 keeps its web URL")

	cell, _ := render.AccessCell(read(t, root, "documents/D001.md"))
	assert.Equal(t, "[Download PDF]("+url+")", cell)
	cell, _ = render.AccessCell(read(t, root, "documents/D002.md"))
	assert.Equal(t, "[https://example.org/news](https://example.org/news)", cell)

	saved, err := storage.ParseMapping([]byte(read(t, root, "workingdocs/s3_url_mapping.json")))
	require.NoError(t, err)
	assert.Equal(t, url, saved["D001"].URL)
	assert.Contains(t, read(t, root, "documents/s3-document-links.md"), "| D001 | [Download]("+url+") | S3 |")

	t.Run("Normalizing keeps download links", func(t *testing.T) {
		before := snapshot(t, root)
		r, err := svc.FixAccessURLs(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, r.Skipped)
		after := snapshot(t, root)
		assert.Equal(t, before["documents/D001.md"], after["documents/D001.md"])
		assert.Contains(t, after, "documents/document-access.md")
	})

	t.Run("Mapping file entries win", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "workingdocs", "s3_url_mapping.json"),
			[]byte(`{"D001": {"local_path": "_processed/D001.pdf", "s3_key": "x/D001.pdf", "s3_url": "https://b.s3.eu-north-1.amazonaws.com/x/D001.pdf"}}`), 0644))
		_, err := svc.ApplyAccessURLs(ctx)
		require.NoError(t, err)
		cell, _ := render.AccessCell(read(t, root, "documents/D001.md"))
		assert.Equal(t, "[Download PDF](https://b.s3.eu-north-1.amazonaws.com/x/D001.pdf)", cell)
	})

	t.Run("Broken mapping file is fatal", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "workingdocs", "s3_url_mapping.json"), []byte(`["D001"]`), 0644))
		_, err := svc.ApplyAccessURLs(ctx)
		assert.True(t, errors.Is(err, storage.ErrInvalidMapping))
	})
}

func TestFixAccessURLs_LegacyPages(t *testing.T) {
	svc, root := newService(t, testConfig(), testDataset())
	ctx := context.Background()
	_, err := svc.Generate(ctx)
	require.NoError(t, err)

	legacy := "# D001\n\n| Field | Value |\n|---|---|\n| **Access URL** | [file:///C:\\Users\\me\\Face_ID.pdf](file:///C:\\Users\\me\\Face_ID.pdf) |\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "documents", "D001.md"), []byte(legacy), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "documents", "D002.md"), []byte("# D002\n"), 0644))

	r, err := svc.FixAccessURLs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Attempted)
	assert.Equal(t, 1, r.Succeeded)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "D002")

	cell, _ := render.AccessCell(read(t, root, "documents/D001.md"))
	assert.Equal(t, "*Local document: Face_ID.pdf*", cell)
}

func TestRewriteReferences(t *testing.T) {
	svc, root := newService(t, testConfig(), testDataset())
	ctx := context.Background()
	_, err := svc.Generate(ctx)
	require.NoError(t, err)

	r, err := svc.RewriteReferences(ctx, "../../documents/D002.md", "../../documents/archive/D002.md")
	require.NoError(t, err)
	assert.Equal(t, r.Attempted-1, r.Skipped, "only UC003 links to D002")
	assert.Contains(t, read(t, root, "use-cases-by-category/1-targeting/UC003.md"), "(../../documents/archive/D002.md)")

	r, err = svc.RewriteReferences(ctx, "nothing-links-here", "x")
	require.NoError(t, err)
	assert.Equal(t, r.Attempted, r.Skipped)

	_, err = svc.RewriteReferences(ctx, "", "x")
	assert.Error(t, err)

	t.Run("Unreadable page", func(t *testing.T) {
		broken := filepath.Join(root, "use-cases-by-category", "1-targeting", "UC000.md")
		require.NoError(t, os.Symlink(filepath.Join(root, "missing.md"), broken))

		r, err := svc.RewriteReferences(ctx, "../../documents/archive/D002.md", "../../documents/D002.md")
		require.NoError(t, err)
		require.Len(t, r.Warnings, 1)
		assert.Contains(t, r.Warnings[0], "UC000.md")
		assert.Equal(t, r.Attempted-1, r.Succeeded)
		assert.Contains(t, read(t, root, "use-cases-by-category/1-targeting/UC003.md"), "(../../documents/D002.md)")
	})
}

func TestStatus(t *testing.T) {
	svc, root := newService(t, testConfig(), testDataset())
	ctx := context.Background()
	_, err := svc.Generate(ctx)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "documents", "D099.md"), []byte("# stale"), 0644))

	st, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Counts["document/flat"])
	assert.Equal(t, 3, st.Counts["use-case/categorized"])
	require.Len(t, st.Orphans, 1)
	assert.Equal(t, "D099", st.Orphans[0].ID)

	for _, e := range st.Entities {
		if e.ID == "UC001" {
			assert.Equal(t, "use-cases-by-category/1-targeting/UC001.md", e.Path)
			assert.Equal(t, "use-cases-by-category/1-targeting/1a-poverty-mapping/UC001.md", e.Target)
		}
	}
}

func TestNew_Taxonomy(t *testing.T) {
	cfg := testConfig()
	cfg.Taxonomy.Subcategories = append(cfg.Taxonomy.Subcategories,
		classify.Mapping{Title: "1c. Multi-stage Targeting Systems", Folder: "1a-poverty-mapping"})

	_, err := pipeline.New(pipeline.Params{
		Tree:   fs.NewTree(t.TempDir(), nil),
		Loader: core.LoaderFunc(func(context.Context) (*core.Dataset, error) { return testDataset(), nil }),
		Config: cfg,
	})
	require.NoError(t, err, "collisions are only logged by default")

	cfg.Taxonomy.StrictMappings = true
	_, err = pipeline.New(pipeline.Params{
		Tree:   fs.NewTree(t.TempDir(), nil),
		Loader: core.LoaderFunc(func(context.Context) (*core.Dataset, error) { return testDataset(), nil }),
		Config: cfg,
	})
	assert.True(t, errors.Is(err, core.ErrMappingCollision))

	_, err = pipeline.New(pipeline.Params{Config: testConfig()})
	assert.Error(t, err)
}
