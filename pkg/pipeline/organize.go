package pipeline

import (
	"context"

	"github.com/aretw0/litbook/pkg/core"
	"github.com/aretw0/litbook/pkg/render"
)

// OrganizeDocuments writes the flat navigation pages of the document
// library: the overview, one index per document class, the by-year,
// by-evidence and all-documents listings, and the library README.
// Document pages are not moved.
func (s *Service) OrganizeDocuments(ctx context.Context) (core.Report, error) {
	ds, inv, err := s.begin(ctx)
	if err != nil {
		return core.Report{}, err
	}
	r := core.Report{Stage: StageOrganizeDocuments}
	now := s.now()
	root := s.layout.Documents
	refs := s.documentRefs(inv, ds.Documents, root)

	type index struct {
		name    string
		content string
	}
	pages := []index{{overviewFile, render.Overview(s.classLinks(ds.Documents, false))}}
	groups := s.documentClasses(ds.Documents)
	for _, dest := range s.tax.documents.Destinations() {
		docs := groups[dest.Key]
		if len(docs) == 0 {
			continue
		}
		pages = append(pages, index{dest.Key + ".md", render.ClassIndex(dest.Title, s.documentRefs(inv, docs, root), now)})
	}
	pages = append(pages,
		index{byYearFile, render.ByYear(refs)},
		index{byEvidenceFile, render.ByEvidence(refs)},
		index{allDocumentsFile, render.Bibliography(refs)},
	)

	for _, p := range pages {
		r.Attempted++
		if s.write(&r, s.docPath(p.name), p.content) {
			r.Succeeded++
		}
	}

	r.Attempted++
	if s.writeLibrary(&r, ds, inv) {
		r.Succeeded++
	}
	return s.finish(r), nil
}
