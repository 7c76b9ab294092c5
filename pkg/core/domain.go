// Package core holds the domain of the literature review: documents, use
// cases, the links between them and the placement of their rendered pages.
package core

// Kind distinguishes the two entity tables.
type Kind string

const (
	KindDocument Kind = "document"
	KindUseCase  Kind = "use-case"
)

// Document is one row of the Documents table.
// It is immutable within a run.
type Document struct {
	ID               string
	Title            string
	Authors          string
	Year             string
	Type             string
	EvidenceType     string
	EvidenceStrength string
	URL              string
	Abstract         string
	Publisher        string
	Language         string
	DOI              string
	ContainerTitle   string
	Place            string
	Volume           string
	Issue            string
	Pages            string
	ISBN             string
	ISSN             string
	Tags             string
	AccessDate       string
}

// Attributes exposes the categorical fields used by classification rules.
func (d Document) Attributes() map[string]string {
	return map[string]string{
		FieldDocumentType: d.Type,
		FieldEvidenceType: d.EvidenceType,
	}
}

// UseCase is one row of the Use Cases table.
type UseCase struct {
	ID                     string
	CategoryTitle          string
	SubCategoryTitle       string
	Country                string
	IncomeGroup            string
	SPPillar               string
	AITechnology           string
	Status                 string
	Timeline               string
	Scale                  string
	Description            string
	DataInputs             string
	PIIDataUse             string
	ImplementationApproach string
	Partners               string
	Funding                string
	Hosting                string
	IntendedOutcomes       string
	DocumentedOutcomes     string
	Outcome                string
	Risks                  string
	Safeguards             string
	IsEvidenceGap          string
	GapType                string
	DPGPotential           string
	InclusionNotes         string
	LocalizationNotes      string
	CrossSectoral          string
	Keywords               string
}

// Attributes exposes the categorical fields used by classification rules.
func (u UseCase) Attributes() map[string]string {
	return map[string]string{
		FieldCategory:    u.CategoryTitle,
		FieldSubCategory: u.SubCategoryTitle,
	}
}

// Link associates a use case with a supporting document.
type Link struct {
	UseCaseID  string
	DocumentID string
}

// Attribute names understood by the classifier.
const (
	FieldDocumentType = "document_type"
	FieldEvidenceType = "evidence_type"
	FieldCategory     = "category"
	FieldSubCategory  = "sub_category"
)
