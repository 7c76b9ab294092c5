package pipeline

import (
	"context"
	"path"

	"github.com/aretw0/litbook/pkg/adapters/fs"
	"github.com/aretw0/litbook/pkg/classify"
	"github.com/aretw0/litbook/pkg/core"
	"github.com/aretw0/litbook/pkg/render"
)

// Stage names.
const (
	StageGenerate            = "generate"
	StageOrganizeDocuments   = "organize-documents"
	StageReorganizeDocuments = "reorganize-documents"
	StageReorganizeUseCases  = "reorganize-use-cases"
	StageFixAccessURLs       = "fix-urls"
	StageApplyAccessURLs     = "apply-urls"
	StageRewrite             = "rewrite"
	StageCheck               = "check"
	StageSummary             = "summary"
)

// Generate renders every use case and document page together with the
// category indices and the library index.
//
// New use-case pages go to their category folder and new document pages to
// the flat documents folder. Pages that already exist are rewritten where
// they are, so generating again after a reorganization keeps the layout.
func (s *Service) Generate(ctx context.Context) (core.Report, error) {
	ds, inv, err := s.begin(ctx)
	if err != nil {
		return core.Report{}, err
	}
	r := core.Report{Stage: StageGenerate}
	now := s.now()

	for _, uc := range ds.UseCases {
		if err := ctx.Err(); err != nil {
			return s.finish(r), err
		}
		r.Attempted++
		cat, known := s.category(uc)
		if !known {
			r.Warnf("%s: unknown category %q, placed in %s", uc.ID, uc.CategoryTitle, cat.Key)
		}
		target, ok := inv.Locate(core.KindUseCase, uc.ID)
		if !ok {
			target = s.useCasePath(cat.Key, uc.ID+".md")
		}
		related := s.documentRefs(inv, ds.LinkedDocuments(uc.ID), path.Dir(target))
		content, err := render.UseCasePage(uc, related, now)
		if err != nil {
			r.Warnf("%s: render: %v", uc.ID, err)
			continue
		}
		if !s.write(&r, target, content) {
			continue
		}
		inv.Record(fs.Page{ID: uc.ID, Kind: core.KindUseCase, Path: target})
		r.Succeeded++
	}
	s.writeCategoryIndexes(&r, ds, inv)

	for _, d := range ds.Documents {
		if err := ctx.Err(); err != nil {
			return s.finish(r), err
		}
		r.Attempted++
		target := s.documentLocation(inv, d.ID)
		content, err := render.DocumentPage(d, now)
		if err != nil {
			r.Warnf("%s: render: %v", d.ID, err)
			continue
		}
		if !s.write(&r, target, content) {
			continue
		}
		inv.Record(fs.Page{ID: d.ID, Kind: core.KindDocument, Path: target})
		r.Succeeded++
	}
	s.writeLibrary(&r, ds, inv)

	return s.finish(r), nil
}

// category returns the folder of a use case's category and whether the
// category is a declared one.
func (s *Service) category(uc core.UseCase) (classify.Destination, bool) {
	dest := s.tax.categories.Classify(uc.Attributes())
	return dest, !s.tax.categories.IsFallback(dest)
}

// documentLocation is where the page of a document lives now, or where
// Generate puts it.
func (s *Service) documentLocation(inv *fs.Inventory, id string) string {
	if p, ok := inv.Locate(core.KindDocument, id); ok {
		return p
	}
	return s.docPath(id + ".md")
}

// documentRefs pairs documents with links relative to fromDir.
func (s *Service) documentRefs(inv *fs.Inventory, docs []core.Document, fromDir string) []render.DocumentRef {
	refs := make([]render.DocumentRef, len(docs))
	for i, d := range docs {
		refs[i] = render.DocumentRef{Document: d, Href: fs.Rel(fromDir, s.documentLocation(inv, d.ID))}
	}
	return refs
}

// useCaseRefs pairs the located use cases with links relative to fromDir.
// Use cases without a page are left out.
func useCaseRefs(inv *fs.Inventory, cases []core.UseCase, fromDir string) []render.UseCaseRef {
	var refs []render.UseCaseRef
	for _, uc := range cases {
		p, ok := inv.Locate(core.KindUseCase, uc.ID)
		if !ok {
			continue
		}
		refs = append(refs, render.UseCaseRef{UseCase: uc, Href: fs.Rel(fromDir, p)})
	}
	return refs
}

// writeCategoryIndexes writes the README of every category with use cases.
func (s *Service) writeCategoryIndexes(r *core.Report, ds *core.Dataset, inv *fs.Inventory) {
	byCategory := make(map[string][]core.UseCase)
	for _, uc := range ds.UseCases {
		cat, _ := s.category(uc)
		byCategory[cat.Key] = append(byCategory[cat.Key], uc)
	}
	for _, dest := range s.tax.categories.Destinations() {
		cases := byCategory[dest.Key]
		if len(cases) == 0 {
			continue
		}
		dir := s.useCasePath(dest.Key)
		s.write(r, path.Join(dir, readmeFile), render.CategoryIndex(dest.Title, useCaseRefs(inv, cases, dir)))
	}
}

// documentClasses groups documents by class key.
func (s *Service) documentClasses(docs []core.Document) map[string][]core.Document {
	out := make(map[string][]core.Document)
	for _, d := range docs {
		key := s.tax.documents.Classify(d.Attributes()).Key
		out[key] = append(out[key], d)
	}
	return out
}

// classLinks describes the non-empty document classes in rule order. With
// folders set the links point at the class folders, otherwise at the flat
// class indices.
func (s *Service) classLinks(docs []core.Document, folders bool) []render.ClassLink {
	groups := s.documentClasses(docs)
	var out []render.ClassLink
	for _, dest := range s.tax.documents.Destinations() {
		n := len(groups[dest.Key])
		if n == 0 {
			continue
		}
		href := dest.Key + ".md"
		if folders {
			href = dest.Key + "/"
		}
		out = append(out, render.ClassLink{
			Title:   dest.Title,
			Summary: s.tax.summaries[dest.Key],
			Href:    href,
			Count:   n,
		})
	}
	return out
}

// writeLibrary writes the library README matching the current state of the
// documents folder: a bibliography right after generation, a landing page
// once the flat indices exist, and the folder overview once any document
// was filed into a class folder.
func (s *Service) writeLibrary(r *core.Report, ds *core.Dataset, inv *fs.Inventory) bool {
	var content string
	switch {
	case documentsFiled(inv):
		content = render.FolderLibrary(s.classLinks(ds.Documents, true), ds.Documents, s.now())
	case s.tree.Exists(s.docPath(overviewFile)):
		content = render.FlatLibrary(ds.Documents)
	default:
		content = render.Bibliography(s.documentRefs(inv, ds.Documents, s.layout.Documents))
	}
	return s.write(r, s.docPath(readmeFile), content)
}

func documentsFiled(inv *fs.Inventory) bool {
	for _, p := range inv.Pages(core.KindDocument) {
		if inv.Placement(core.KindDocument, p.ID) >= core.Categorized {
			return true
		}
	}
	return false
}
