package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/litbook/pkg/classify"
	"github.com/aretw0/litbook/pkg/storage"
)

// Fixed file names of the book.
const (
	readmeFile         = "README.md"
	summaryFile        = "SUMMARY.md"
	overviewFile       = "overview.md"
	byYearFile         = "by-year.md"
	byEvidenceFile     = "by-evidence.md"
	allDocumentsFile   = "all-documents.md"
	documentAccessFile = "document-access.md"
	storageLinksFile   = "s3-document-links.md"
)

// Layout names the top-level folders of the two entity kinds.
type Layout struct {
	Documents string `yaml:"documents"`
	UseCases  string `yaml:"use_cases"`
}

// DefaultLayout is the folder layout of the published book.
func DefaultLayout() Layout {
	return Layout{Documents: "documents", UseCases: "use-cases-by-category"}
}

// Taxonomy declares the folders pages are sorted into. Order matters: the
// first matching class or category wins.
type Taxonomy struct {
	DocumentClasses []classify.DocumentClass `yaml:"document_classes"`
	OtherDocuments  classify.DocumentClass   `yaml:"other_documents"`
	Categories      []classify.Mapping       `yaml:"categories"`
	OtherCategory   classify.Mapping         `yaml:"other_category"`
	Subcategories   []classify.Mapping       `yaml:"subcategories"`
	// StrictMappings turns folder collisions and folders that do not match
	// their titles into configuration errors.
	StrictMappings bool `yaml:"strict_mappings"`
}

// Config is everything a Service needs besides its collaborators.
type Config struct {
	Layout   Layout         `yaml:"layout"`
	Taxonomy Taxonomy       `yaml:"taxonomy"`
	Storage  storage.Config `yaml:"storage"`
}

// compiled is the taxonomy turned into classifiers.
type compiled struct {
	documents     *classify.Classifier
	summaries     map[string]string
	categories    *classify.Classifier
	subcategories *classify.Table
}

func (t Taxonomy) compile(logger *slog.Logger) (*compiled, error) {
	other, err := classify.FolderName(t.OtherDocuments.Title, t.OtherDocuments.Key)
	if err != nil {
		return nil, fmt.Errorf("other documents: %w", err)
	}
	docs, err := classify.Documents(t.DocumentClasses, classify.Destination{Key: other, Title: t.OtherDocuments.Title})
	if err != nil {
		return nil, err
	}
	summaries := map[string]string{other: t.OtherDocuments.Summary}
	for _, c := range t.DocumentClasses {
		key, _ := classify.FolderName(c.Title, c.Key)
		summaries[key] = c.Summary
	}

	categoryTable, err := classify.NewTable(t.Categories)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	otherCategory, err := classify.FolderName(t.OtherCategory.Title, t.OtherCategory.Folder)
	if err != nil {
		return nil, fmt.Errorf("other category: %w", err)
	}
	categories, err := classify.Categories(categoryTable, classify.Destination{Key: otherCategory, Title: t.OtherCategory.Title})
	if err != nil {
		return nil, err
	}

	subcategories, err := classify.NewTable(t.Subcategories)
	if err != nil {
		return nil, fmt.Errorf("subcategories: %w", err)
	}

	var collisions []classify.Collision
	collisions = append(collisions, categoryTable.Collisions()...)
	collisions = append(collisions, subcategories.Collisions()...)
	for _, c := range collisions {
		if t.StrictMappings {
			return nil, fmt.Errorf("taxonomy: %w", c)
		}
		logger.Warn("folder mapping collision", "folder", c.Folder, "titles", c.Titles)
	}
	var mismatches []classify.Mismatch
	mismatches = append(mismatches, categoryTable.Mismatches()...)
	mismatches = append(mismatches, subcategories.Mismatches()...)
	for _, m := range mismatches {
		if t.StrictMappings {
			return nil, fmt.Errorf("taxonomy: %w", m)
		}
		logger.Warn("folder does not match its title", "title", m.Title, "folder", m.Folder)
	}

	return &compiled{
		documents:     docs,
		summaries:     summaries,
		categories:    categories,
		subcategories: subcategories,
	}, nil
}
