package core

// Dataset is the in-memory view of the three source tables.
// Rows keep the order in which they were read.
type Dataset struct {
	Documents []Document
	UseCases  []UseCase
	Links     []Link

	// Warnings are per-row problems found while loading. Those rows were
	// skipped.
	Warnings []string

	docByID       map[string]int
	useCaseByID   map[string]int
	docsByUC      map[string][]string
	useCasesByDoc map[string][]string
}

// NewDataset indexes the given rows for lookups.
func NewDataset(docs []Document, useCases []UseCase, links []Link) *Dataset {
	ds := &Dataset{
		Documents:     docs,
		UseCases:      useCases,
		Links:         links,
		docByID:       make(map[string]int, len(docs)),
		useCaseByID:   make(map[string]int, len(useCases)),
		docsByUC:      make(map[string][]string),
		useCasesByDoc: make(map[string][]string),
	}
	for i, d := range docs {
		ds.docByID[d.ID] = i
	}
	for i, u := range useCases {
		ds.useCaseByID[u.ID] = i
	}
	for _, l := range links {
		ds.docsByUC[l.UseCaseID] = append(ds.docsByUC[l.UseCaseID], l.DocumentID)
		ds.useCasesByDoc[l.DocumentID] = append(ds.useCasesByDoc[l.DocumentID], l.UseCaseID)
	}
	return ds
}

// Document returns the document with the given ID.
func (ds *Dataset) Document(id string) (Document, bool) {
	i, ok := ds.docByID[id]
	if !ok {
		return Document{}, false
	}
	return ds.Documents[i], true
}

// UseCase returns the use case with the given ID.
func (ds *Dataset) UseCase(id string) (UseCase, bool) {
	i, ok := ds.useCaseByID[id]
	if !ok {
		return UseCase{}, false
	}
	return ds.UseCases[i], true
}

// LinkedDocuments returns the documents linked to a use case, in link order.
// Links pointing at unknown documents are dropped.
func (ds *Dataset) LinkedDocuments(useCaseID string) []Document {
	var out []Document
	for _, id := range ds.docsByUC[useCaseID] {
		if d, ok := ds.Document(id); ok {
			out = append(out, d)
		}
	}
	return out
}

// LinkedUseCases returns the use cases citing a document, in link order.
func (ds *Dataset) LinkedUseCases(documentID string) []UseCase {
	var out []UseCase
	for _, id := range ds.useCasesByDoc[documentID] {
		if u, ok := ds.UseCase(id); ok {
			out = append(out, u)
		}
	}
	return out
}
