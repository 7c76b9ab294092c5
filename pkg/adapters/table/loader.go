package table

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/litbook/pkg/core"
)

// Files names the three CSV exports inside the data directory.
type Files struct {
	Documents string `yaml:"documents"`
	UseCases  string `yaml:"use_cases"`
	Links     string `yaml:"links"`
}

// DefaultFiles are the export names used by the review spreadsheet.
func DefaultFiles() Files {
	return Files{
		Documents: "documents.csv",
		UseCases:  "use_cases.csv",
		Links:     "usecase_document_links.csv",
	}
}

// Column names of the exports.
const (
	colDocumentID = "Document_ID"
	colUseCaseID  = "Use_Case_ID"
	colCategory   = "Category_Title"
)

// Loader reads the dataset from a directory of CSV files.
type Loader struct {
	dir    string
	files  Files
	logger *slog.Logger
}

var _ core.Loader = (*Loader)(nil)

// NewLoader returns a loader for dir. Empty file names fall back to
// DefaultFiles.
func NewLoader(dir string, files Files, logger *slog.Logger) *Loader {
	def := DefaultFiles()
	if files.Documents == "" {
		files.Documents = def.Documents
	}
	if files.UseCases == "" {
		files.UseCases = def.UseCases
	}
	if files.Links == "" {
		files.Links = def.Links
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dir: dir, files: files, logger: logger}
}

// Load reads the three tables. A missing file, a malformed table or a
// missing required column is an error; rows with an empty or duplicate ID
// are skipped and reported in Dataset.Warnings.
func (l *Loader) Load(ctx context.Context) (*core.Dataset, error) {
	var warnings []string
	// Skipped rows are logged by whoever consumes Dataset.Warnings.
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	docRows, err := l.read(ctx, l.files.Documents, colDocumentID)
	if err != nil {
		return nil, err
	}
	docs := make([]core.Document, 0, len(docRows))
	seenDocs := make(map[string]bool, len(docRows))
	for _, r := range docRows {
		id := r.Get(colDocumentID)
		switch {
		case id == "":
			warn("%s line %d: empty %s", l.files.Documents, r.Line, colDocumentID)
			continue
		case seenDocs[id]:
			warn("%s line %d: duplicate document %s", l.files.Documents, r.Line, id)
			continue
		}
		seenDocs[id] = true
		docs = append(docs, documentFrom(r))
	}

	ucRows, err := l.read(ctx, l.files.UseCases, colUseCaseID, colCategory)
	if err != nil {
		return nil, err
	}
	useCases := make([]core.UseCase, 0, len(ucRows))
	seenUCs := make(map[string]bool, len(ucRows))
	for _, r := range ucRows {
		id := r.Get(colUseCaseID)
		switch {
		case id == "":
			warn("%s line %d: empty %s", l.files.UseCases, r.Line, colUseCaseID)
			continue
		case seenUCs[id]:
			warn("%s line %d: duplicate use case %s", l.files.UseCases, r.Line, id)
			continue
		}
		seenUCs[id] = true
		useCases = append(useCases, useCaseFrom(r))
	}

	linkRows, err := l.read(ctx, l.files.Links, colUseCaseID, colDocumentID)
	if err != nil {
		return nil, err
	}
	links := make([]core.Link, 0, len(linkRows))
	for _, r := range linkRows {
		link := core.Link{UseCaseID: r.Get(colUseCaseID), DocumentID: r.Get(colDocumentID)}
		if link.UseCaseID == "" || link.DocumentID == "" {
			warn("%s line %d: incomplete link", l.files.Links, r.Line)
			continue
		}
		if !seenDocs[link.DocumentID] {
			l.logger.Debug("link to unknown document", "use_case", link.UseCaseID, "document", link.DocumentID)
		}
		links = append(links, link)
	}

	l.logger.Info("dataset loaded",
		"documents", len(docs),
		"use_cases", len(useCases),
		"links", len(links))

	ds := core.NewDataset(docs, useCases, links)
	ds.Warnings = warnings
	return ds, nil
}

func (l *Loader) read(ctx context.Context, name string, required ...string) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(l.dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()

	rows, err := readRows(f, required...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func documentFrom(r Row) core.Document {
	return core.Document{
		ID:               r.Get(colDocumentID),
		Title:            r.Get("Document_Report_Title"),
		Authors:          r.Get("Authors"),
		Year:             Year(r.Get("Year")),
		Type:             r.Get("Document_Type"),
		EvidenceType:     r.Get("Evidence_Type"),
		EvidenceStrength: r.Get("Evidence_Strength"),
		URL:              r.Get("Direct_Link_URL"),
		Abstract:         r.Get("Abstract_Note"),
		Publisher:        r.Get("Publisher"),
		Language:         r.Get("Language"),
		DOI:              r.Get("DOI"),
		ContainerTitle:   r.Get("Container_Title"),
		Place:            r.Get("Place"),
		Volume:           r.Get("Volume"),
		Issue:            r.Get("Issue"),
		Pages:            r.Get("Pages"),
		ISBN:             r.Get("ISBN"),
		ISSN:             r.Get("ISSN"),
		Tags:             r.Get("Tags"),
		AccessDate:       r.Get("Access_Date"),
	}
}

func useCaseFrom(r Row) core.UseCase {
	return core.UseCase{
		ID:                     r.Get(colUseCaseID),
		CategoryTitle:          r.Get(colCategory),
		SubCategoryTitle:       r.Get("Sub_Category_Title"),
		Country:                r.Get("Country_Region"),
		IncomeGroup:            r.Get("Income_Group"),
		SPPillar:               r.Get("SP_Pillar"),
		AITechnology:           r.Get("AI_Technology"),
		Status:                 r.Get("Current_Status"),
		Timeline:               r.Get("Timeline"),
		Scale:                  r.Get("Scale"),
		Description:            r.Get("AI_Use_Case_Description"),
		DataInputs:             r.Get("Data_Inputs"),
		PIIDataUse:             r.Get("PII_Data_Use"),
		ImplementationApproach: r.Get("Implementation_Approach"),
		Partners:               r.Get("Implementing_Agency_Partners"),
		Funding:                r.Get("Funding_Donor"),
		Hosting:                r.Get("Hosting_Data_Sovereignty"),
		IntendedOutcomes:       r.Get("Intended_Outcomes"),
		DocumentedOutcomes:     r.Get("Documented_Outcomes"),
		Outcome:                r.Get("Outcome_Classification"),
		Risks:                  r.Get("Risks_Reported"),
		Safeguards:             r.Get("Safeguards_Reported"),
		IsEvidenceGap:          r.Get("Is_Evidence_Gap"),
		GapType:                r.Get("Gap_Type"),
		DPGPotential:           r.Get("DPG_Potential"),
		InclusionNotes:         r.Get("Gender_Disability_Inclusion_Notes"),
		LocalizationNotes:      r.Get("Localization_Language_Considerations"),
		CrossSectoral:          r.Get("Cross_Sectoral_Adjacent_Relevance"),
		Keywords:               r.Get("Notes_Keywords"),
	}
}
