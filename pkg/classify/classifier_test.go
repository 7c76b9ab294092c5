package classify_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-slug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/litbook/pkg/classify"
	"github.com/aretw0/litbook/pkg/core"
)

var testClasses = []classify.DocumentClass{
	{
		Key:      "peer-reviewed-research",
		Title:    "Peer-Reviewed Research",
		Types:    []string{"Research Paper", "Academic Report"},
		Evidence: []string{"Peer-reviewed Empirical"},
	},
	{
		Key:      "policy-institutional-reports",
		Title:    "Policy & Institutional Reports",
		Types:    []string{"Policy Report", "Institutional Report", "Workshop Report", "Case Study"},
		Evidence: []string{"Policy Report", "Donor Evaluation"},
	},
	{
		Key:      "government-documents",
		Title:    "Government Documents",
		Types:    []string{"Government Report", "Government Website", "Press Release"},
		Evidence: []string{"Government Report"},
	},
	{
		Key:      "media-news",
		Title:    "Media & News Articles",
		Types:    []string{"News Article", "Blog Post"},
		Evidence: []string{"Media Report"},
	},
}

var otherDocs = classify.Destination{Key: "other-documents", Title: "Other Documents"}

func newDocumentClassifier(t *testing.T) *classify.Classifier {
	t.Helper()
	c, err := classify.Documents(testClasses, otherDocs)
	require.NoError(t, err)
	return c
}

func TestDocuments_FirstMatchWins(t *testing.T) {
	c := newDocumentClassifier(t)

	tests := []struct {
		name     string
		docType  string
		evidence string
		want     string
	}{
		{"Type selects class", "Research Paper", "", "peer-reviewed-research"},
		{"Evidence selects class", "Unknown", "Donor Evaluation", "policy-institutional-reports"},
		{"Earlier rule shadows later evidence", "Research Paper", "Media Report", "peer-reviewed-research"},
		{"Evidence on earlier rule beats type on later rule", "Blog Post", "Government Report", "government-documents"},
		{"Policy evidence shared with policy type", "Press Release", "Policy Report", "policy-institutional-reports"},
		{"Unmapped values fall back", "Podcast", "Anecdote", "other-documents"},
		{"Empty record falls back", "", "", "other-documents"},
		{"Values are trimmed", "  News Article ", "", "media-news"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := core.Document{Type: tt.docType, EvidenceType: tt.evidence}
			got := c.Classify(d.Attributes())
			assert.Equal(t, tt.want, got.Key)
		})
	}
}

func TestDocuments_TotalOverDeclaredSet(t *testing.T) {
	c := newDocumentClassifier(t)

	declared := map[string]bool{}
	for _, d := range c.Destinations() {
		declared[d.Key] = true
	}
	require.True(t, declared["other-documents"], "fallback must be declared")

	types := []string{"", "Research Paper", "Policy Report", "Press Release", "Blog Post", "Podcast", "Case Study"}
	evidence := []string{"", "Peer-reviewed Empirical", "Government Report", "Media Report", "Anecdote"}
	for _, ty := range types {
		for _, ev := range evidence {
			got := c.Classify(classify.Attributes{core.FieldDocumentType: ty, core.FieldEvidenceType: ev})
			assert.NotEmpty(t, got.Key)
			assert.True(t, declared[got.Key], "destination %q not declared", got.Key)
		}
	}
}

func TestClassifier_Explain(t *testing.T) {
	c := newDocumentClassifier(t)

	d, rule := c.Explain(classify.Attributes{core.FieldEvidenceType: "Media Report"})
	assert.Equal(t, "media-news", d.Key)
	assert.Equal(t, "media-news", rule)

	d, rule = c.Explain(classify.Attributes{})
	assert.True(t, c.IsFallback(d))
	assert.Equal(t, "fallback", rule)
}

func TestClassifier_Destinations(t *testing.T) {
	c := newDocumentClassifier(t)
	var keys []string
	for _, d := range c.Destinations() {
		keys = append(keys, d.Key)
	}
	assert.Equal(t, []string{
		"peer-reviewed-research",
		"policy-institutional-reports",
		"government-documents",
		"media-news",
		"other-documents",
	}, keys)
	assert.Equal(t, "Media & News Articles", c.Title("media-news"))
	assert.Equal(t, "unknown-key", c.Title("unknown-key"))
}

func TestNew_Validation(t *testing.T) {
	t.Run("Fallback needs a key", func(t *testing.T) {
		_, err := classify.New(nil, classify.Destination{})
		assert.Error(t, err)
	})

	t.Run("Rules need a destination", func(t *testing.T) {
		_, err := classify.New([]classify.Rule{{Match: classify.Always()}}, otherDocs)
		assert.Error(t, err)
	})

	t.Run("Rules need a predicate", func(t *testing.T) {
		_, err := classify.New([]classify.Rule{{Destination: otherDocs}}, otherDocs)
		assert.Error(t, err)
	})
}

func TestCategories(t *testing.T) {
	table, err := classify.NewTable([]classify.Mapping{
		{Title: "1. AI-enabled Targeting & Eligibility Assessment", Folder: "1-ai-enabled-targeting-eligibility-assessment"},
		{Title: "2. AI-enabled Fraud Detection & Predictive Risk Management", Folder: "2-ai-enabled-fraud-detection-predictive-risk-management"},
	})
	require.NoError(t, err)

	c, err := classify.Categories(table, classify.Destination{Key: "other", Title: "Other"})
	require.NoError(t, err)

	uc := core.UseCase{CategoryTitle: "2. AI-enabled Fraud Detection & Predictive Risk Management"}
	assert.Equal(t, "2-ai-enabled-fraud-detection-predictive-risk-management", c.Classify(uc.Attributes()).Key)

	uc = core.UseCase{CategoryTitle: "9. Unheard of"}
	assert.Equal(t, "other", c.Classify(uc.Attributes()).Key)
}

func TestTable(t *testing.T) {
	t.Run("Lookup trims titles", func(t *testing.T) {
		table, err := classify.NewTable([]classify.Mapping{{Title: "1a. Mapping", Folder: "1a-mapping"}})
		require.NoError(t, err)

		f, ok := table.Lookup(" 1a. Mapping ")
		assert.True(t, ok)
		assert.Equal(t, "1a-mapping", f)

		_, ok = table.Lookup("1b. Scoring")
		assert.False(t, ok)
	})

	t.Run("Missing folder is derived from title", func(t *testing.T) {
		table, err := classify.NewTable([]classify.Mapping{{Title: "Caseworker Decision Support"}})
		require.NoError(t, err)

		f, ok := table.Lookup("Caseworker Decision Support")
		require.True(t, ok)
		assert.NotEmpty(t, f)
		assert.True(t, slug.IsValid(f), "derived folder %q should be a valid slug", f)
	})

	t.Run("Conflicting declarations are rejected", func(t *testing.T) {
		_, err := classify.NewTable([]classify.Mapping{
			{Title: "1a. Mapping", Folder: "a"},
			{Title: "1a. Mapping", Folder: "b"},
		})
		assert.Error(t, err)
	})

	t.Run("Nested folders are rejected", func(t *testing.T) {
		_, err := classify.NewTable([]classify.Mapping{{Title: "x", Folder: "a/b"}})
		assert.Error(t, err)
	})

	t.Run("Collisions are reported", func(t *testing.T) {
		table, err := classify.NewTable([]classify.Mapping{
			{Title: "2a. Document Authentication & Verification", Folder: "2a-financial-integrity-fraud-detection"},
			{Title: "2b. Identity Verification & Biometrics", Folder: "2b-social-risk-prediction-early-intervention"},
			{Title: "2z. Financial Integrity", Folder: "2a-financial-integrity-fraud-detection"},
		})
		require.NoError(t, err)

		cols := table.Collisions()
		require.Len(t, cols, 1)
		assert.Equal(t, "2a-financial-integrity-fraud-detection", cols[0].Folder)
		assert.Len(t, cols[0].Titles, 2)
		assert.True(t, errors.Is(cols[0], core.ErrMappingCollision))

		title, ok := table.Title("2b-social-risk-prediction-early-intervention")
		assert.True(t, ok)
		assert.Equal(t, "2b. Identity Verification & Biometrics", title)
	})

	t.Run("Folders from another taxonomy are reported", func(t *testing.T) {
		table, err := classify.NewTable([]classify.Mapping{
			{Title: "1b. Eligibility Scoring & Prediction (Individual/HH)", Folder: "1b-eligibility-scoring-prediction-individual-hh"},
			{Title: "1c. Multi-stage Targeting Systems", Folder: "1c-biometric-identity-verification"},
			{Title: "6. AI-enabled Job Matching & Career Guidance Systems", Folder: "6-ai-enabled-job-matching-career-guidance"},
			{Title: "Research and Practice", Folder: "research-and-practice"},
			{Title: "Caseworker Decision Support"},
		})
		require.NoError(t, err)

		mismatches := table.Mismatches()
		require.Len(t, mismatches, 1)
		assert.Equal(t, "1c. Multi-stage Targeting Systems", mismatches[0].Title)
		assert.Equal(t, "1c-biometric-identity-verification", mismatches[0].Folder)
		assert.True(t, errors.Is(mismatches[0], core.ErrFolderMismatch))
		assert.Empty(t, table.Collisions())
	})
}
