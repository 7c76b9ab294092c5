package pipeline

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/aretw0/litbook/pkg/adapters/fs"
	"github.com/aretw0/litbook/pkg/core"
	"github.com/aretw0/litbook/pkg/render"
)

// move is a page that changed folders during a stage.
type move struct {
	from, to string
}

// ReorganizeDocuments files every document page into the folder of its
// class, then rewrites the references to the moved pages and regenerates
// the class folder READMEs and the library README.
//
// Pages already in their class folder are skipped, so running it twice is
// safe. A missing page is a warning.
func (s *Service) ReorganizeDocuments(ctx context.Context) (core.Report, error) {
	ds, inv, err := s.begin(ctx)
	if err != nil {
		return core.Report{}, err
	}
	r := core.Report{Stage: StageReorganizeDocuments}

	var moved []move
	for _, d := range ds.Documents {
		if err := ctx.Err(); err != nil {
			return s.finish(r), err
		}
		r.Attempted++
		dest := s.tax.documents.Classify(d.Attributes())
		target := s.docPath(dest.Key, d.ID+".md")
		current, ok := inv.Locate(core.KindDocument, d.ID)
		if !ok {
			r.Warnf("%s: page not found", d.ID)
			continue
		}
		if current == target {
			r.Succeeded++
			r.Skipped++
			continue
		}
		if err := s.tree.Move(current, target); err != nil {
			r.Warnf("%s: %v", d.ID, err)
			continue
		}
		inv.Record(fs.Page{ID: d.ID, Kind: core.KindDocument, Path: target})
		moved = append(moved, move{from: current, to: target})
		r.Succeeded++
	}

	s.rewriteDocumentLinks(&r, moved)

	groups := s.documentClasses(ds.Documents)
	now := s.now()
	for _, dest := range s.tax.documents.Destinations() {
		docs := groups[dest.Key]
		if len(docs) == 0 {
			continue
		}
		dir := s.docPath(dest.Key)
		s.write(&r, path.Join(dir, readmeFile), render.ClassFolderIndex(dest.Title, s.documentRefs(inv, docs, dir), now))
	}
	s.writeLibrary(&r, ds, inv)

	return s.finish(r), nil
}

// rewriteDocumentLinks points existing pages at the new locations of moved
// document pages: the use-case pages, the flat indices of the documents
// folder and the table of contents.
func (s *Service) rewriteDocumentLinks(r *core.Report, moved []move) {
	if len(moved) == 0 {
		return
	}
	prefix := s.layout.Documents + "/"
	var fromUseCases, inIndexes, inSummary []fs.Replacement
	for _, m := range moved {
		fromUseCases = append(fromUseCases, fs.Replacement{Old: "../../" + m.from, New: "../../" + m.to})
		inIndexes = append(inIndexes, fs.Replacement{
			Old: "(" + strings.TrimPrefix(m.from, prefix) + ")",
			New: "(" + strings.TrimPrefix(m.to, prefix) + ")",
		})
		inSummary = append(inSummary, fs.Replacement{Old: "(" + m.from + ")", New: "(" + m.to + ")"})
	}

	passes := []struct {
		pattern string
		pairs   []fs.Replacement
	}{
		{s.useCasePath("**", "*.md"), fromUseCases},
		{s.docPath("*.md"), inIndexes},
		{summaryFile, inSummary},
	}
	for _, p := range passes {
		res, err := s.tree.Rewrite(p.pattern, p.pairs)
		if err != nil {
			if len(res.Failed) == 0 {
				r.Warnf("rewrite %s: %v", p.pattern, err)
				continue
			}
			for _, rel := range res.Failed {
				r.Warnf("%s: references not updated", rel)
			}
		}
		s.logger.Debug("document references updated", "pattern", p.pattern, "scanned", len(res.Scanned), "changed", len(res.Changed))
	}
}

// ReorganizeUseCases moves every use-case page into the folder of its
// subcategory below its category folder. Use cases whose subcategory has no
// folder stay in the category folder. The document links of a moved page
// are adjusted to its new depth, then the subcategory and category READMEs
// are regenerated.
func (s *Service) ReorganizeUseCases(ctx context.Context) (core.Report, error) {
	ds, inv, err := s.begin(ctx)
	if err != nil {
		return core.Report{}, err
	}
	r := core.Report{Stage: StageReorganizeUseCases}

	for _, uc := range ds.UseCases {
		if err := ctx.Err(); err != nil {
			return s.finish(r), err
		}
		r.Attempted++
		target := s.useCaseTarget(uc)
		current, ok := inv.Locate(core.KindUseCase, uc.ID)
		if !ok {
			r.Warnf("%s: page not found", uc.ID)
			continue
		}
		if current == target {
			r.Succeeded++
			r.Skipped++
			continue
		}
		if err := s.tree.Move(current, target); err != nil {
			r.Warnf("%s: %v", uc.ID, err)
			continue
		}
		inv.Record(fs.Page{ID: uc.ID, Kind: core.KindUseCase, Path: target})

		docs := s.layout.Documents + "/"
		if _, err := s.tree.RewriteFile(target, []fs.Replacement{{
			Old: "](" + strings.Repeat("../", fs.Depth(current)) + docs,
			New: "](" + strings.Repeat("../", fs.Depth(target)) + docs,
		}}); err != nil {
			r.Warnf("%s: moved but links not updated: %v", uc.ID, err)
			continue
		}
		r.Succeeded++
	}

	s.writeSubcategoryIndexes(&r, ds, inv)
	s.writeCategoryIndexes(&r, ds, inv)
	return s.finish(r), nil
}

// useCaseTarget is the final location of a use-case page.
func (s *Service) useCaseTarget(uc core.UseCase) string {
	cat, _ := s.category(uc)
	if sub, ok := s.tax.subcategories.Lookup(uc.SubCategoryTitle); ok {
		return s.useCasePath(cat.Key, sub, uc.ID+".md")
	}
	return s.useCasePath(cat.Key, uc.ID+".md")
}

// writeSubcategoryIndexes writes a README into every folder that holds
// subcategorized use-case pages.
func (s *Service) writeSubcategoryIndexes(r *core.Report, ds *core.Dataset, inv *fs.Inventory) {
	byDir := make(map[string][]core.UseCase)
	for _, uc := range ds.UseCases {
		if inv.Placement(core.KindUseCase, uc.ID) != core.Subcategorized {
			continue
		}
		p, _ := inv.Locate(core.KindUseCase, uc.ID)
		byDir[path.Dir(p)] = append(byDir[path.Dir(p)], uc)
	}
	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	now := s.now()
	for _, dir := range dirs {
		cases := byDir[dir]
		title := strings.TrimSpace(cases[0].SubCategoryTitle)
		if t, ok := s.tax.subcategories.Title(path.Base(dir)); ok {
			title = t
		}
		s.write(r, path.Join(dir, readmeFile), render.SubcategoryIndex(title, useCaseRefs(inv, cases, dir), now))
	}
}
