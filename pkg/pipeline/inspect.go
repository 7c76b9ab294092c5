package pipeline

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/aretw0/litbook/pkg/adapters/fs"
	"github.com/aretw0/litbook/pkg/core"
	"github.com/aretw0/litbook/pkg/render"
)

// RewriteReferences replaces from with to in every markdown file of the
// tree. Finding nothing to replace is not an error.
func (s *Service) RewriteReferences(ctx context.Context, from, to string) (core.Report, error) {
	if err := ctx.Err(); err != nil {
		return core.Report{}, err
	}
	if from == "" {
		return core.Report{}, fmt.Errorf("rewrite: empty search string")
	}
	res, err := s.tree.Rewrite("**/*.md", []fs.Replacement{{Old: from, New: to}})
	if err != nil && len(res.Failed) == 0 {
		return core.Report{}, fmt.Errorf("rewrite: %w", err)
	}
	succeeded := len(res.Scanned) - len(res.Failed)
	r := core.Report{
		Stage:     StageRewrite,
		Attempted: len(res.Scanned),
		Succeeded: succeeded,
		Skipped:   succeeded - len(res.Changed),
	}
	for _, rel := range res.Failed {
		r.Warnf("%s: not rewritten", rel)
	}
	return s.finish(r), nil
}

// EntityStatus is where one entity page is and where the next
// reorganization puts it.
type EntityStatus struct {
	ID        string         `json:"id"`
	Kind      core.Kind      `json:"kind"`
	Placement core.Placement `json:"placement"`
	Path      string         `json:"path,omitempty"`
	Target    string         `json:"target"`
}

// Status is the placement of every entity of the dataset.
type Status struct {
	Entities   []EntityStatus `json:"entities"`
	Counts     map[string]int `json:"counts"`
	Orphans    []fs.Page      `json:"orphans,omitempty"`
	Duplicates []fs.Duplicate `json:"duplicates,omitempty"`
}

// Status reports the placement of every document and use case. Pages found
// in the tree for entities the dataset does not know are listed as orphans.
func (s *Service) Status(ctx context.Context) (Status, error) {
	ds, inv, err := s.begin(ctx)
	if err != nil {
		return Status{}, err
	}
	st := Status{Counts: make(map[string]int), Duplicates: inv.Duplicates()}
	add := func(kind core.Kind, id, target string) {
		e := EntityStatus{ID: id, Kind: kind, Placement: inv.Placement(kind, id), Target: target}
		e.Path, _ = inv.Locate(kind, id)
		st.Entities = append(st.Entities, e)
		st.Counts[string(kind)+"/"+e.Placement.String()]++
	}
	for _, d := range ds.Documents {
		add(core.KindDocument, d.ID, s.docPath(s.tax.documents.Classify(d.Attributes()).Key, d.ID+".md"))
	}
	for _, uc := range ds.UseCases {
		add(core.KindUseCase, uc.ID, s.useCaseTarget(uc))
	}

	for _, p := range inv.Pages(core.KindDocument) {
		if _, ok := ds.Document(p.ID); !ok {
			st.Orphans = append(st.Orphans, p)
		}
	}
	for _, p := range inv.Pages(core.KindUseCase) {
		if _, ok := ds.UseCase(p.ID); !ok {
			st.Orphans = append(st.Orphans, p)
		}
	}
	return st, nil
}

// Check verifies that every relative link in the book resolves to an
// existing page. Broken links and pages found twice are warnings.
func (s *Service) Check(ctx context.Context) (core.Report, error) {
	if err := ctx.Err(); err != nil {
		return core.Report{}, err
	}
	inv, err := s.scan()
	if err != nil {
		return core.Report{}, err
	}
	broken, checked, err := s.tree.CheckLinks("**/*.md")
	if err != nil {
		return core.Report{}, fmt.Errorf("check links: %w", err)
	}
	r := core.Report{Stage: StageCheck, Attempted: checked, Succeeded: checked - len(broken)}
	for _, b := range broken {
		r.Warnf("broken link %s", b)
	}
	for _, d := range inv.Duplicates() {
		r.Warnf("%s %s found at %s", d.Kind, d.ID, strings.Join(d.Paths, ", "))
	}
	return s.finish(r), nil
}

// Summary writes the GitBook table of contents from the pages currently in
// the tree.
func (s *Service) Summary(ctx context.Context) (core.Report, error) {
	ds, inv, err := s.begin(ctx)
	if err != nil {
		return core.Report{}, err
	}
	r := core.Report{Stage: StageSummary, Attempted: 1}

	var intro *render.SummaryEntry
	if s.tree.Exists(readmeFile) {
		intro = &render.SummaryEntry{Title: "Introduction", Path: readmeFile}
	}
	groups := []render.SummaryGroup{
		{Heading: "Use Cases", Entries: s.useCaseEntries(ds, inv)},
		{Heading: "Documents", Entries: s.documentEntries(ds, inv)},
	}
	if s.write(&r, summaryFile, render.Summary(intro, groups)) {
		r.Succeeded++
	}
	return s.finish(r), nil
}

func (s *Service) useCaseEntries(ds *core.Dataset, inv *fs.Inventory) []render.SummaryEntry {
	byCategory := make(map[string][]core.UseCase)
	for _, uc := range ds.UseCases {
		cat, _ := s.category(uc)
		byCategory[cat.Key] = append(byCategory[cat.Key], uc)
	}

	var out []render.SummaryEntry
	for _, dest := range s.tax.categories.Destinations() {
		dir := s.useCasePath(dest.Key)
		var direct []render.SummaryEntry
		subs := make(map[string][]core.UseCase)
		for _, uc := range byCategory[dest.Key] {
			p, ok := inv.Locate(core.KindUseCase, uc.ID)
			if !ok {
				continue
			}
			if path.Dir(p) == dir {
				direct = append(direct, useCaseEntry(uc, p))
				continue
			}
			subs[path.Dir(p)] = append(subs[path.Dir(p)], uc)
		}

		children := direct
		for _, sub := range sortedKeys(subs) {
			var pages []render.SummaryEntry
			for _, uc := range subs[sub] {
				p, _ := inv.Locate(core.KindUseCase, uc.ID)
				pages = append(pages, useCaseEntry(uc, p))
			}
			title := strings.TrimSpace(subs[sub][0].SubCategoryTitle)
			if t, ok := s.tax.subcategories.Title(path.Base(sub)); ok {
				title = t
			}
			children = append(children, s.folderEntry(title, sub, pages)...)
		}
		if len(children) == 0 {
			continue
		}
		out = append(out, s.folderEntry(dest.Title, dir, children)...)
	}
	return out
}

func (s *Service) documentEntries(ds *core.Dataset, inv *fs.Inventory) []render.SummaryEntry {
	var children []render.SummaryEntry
	for _, f := range []struct{ title, name string }{
		{"Overview", overviewFile},
		{"All Documents", allDocumentsFile},
		{"Documents by Year", byYearFile},
		{"Documents by Evidence Strength", byEvidenceFile},
		{"Document Access", documentAccessFile},
		{"S3 Document Links", storageLinksFile},
	} {
		if p := s.docPath(f.name); s.tree.Exists(p) {
			children = append(children, render.SummaryEntry{Title: f.title, Path: p})
		}
	}

	byDir := make(map[string][]render.SummaryEntry)
	for _, d := range ds.Documents {
		p, ok := inv.Locate(core.KindDocument, d.ID)
		if !ok {
			continue
		}
		byDir[path.Dir(p)] = append(byDir[path.Dir(p)], render.SummaryEntry{
			Title: d.ID + ": " + render.Plain(render.Or(d.Title, "Untitled")),
			Path:  p,
		})
	}
	children = append(children, byDir[s.layout.Documents]...)
	for _, dest := range s.tax.documents.Destinations() {
		dir := s.docPath(dest.Key)
		if pages := byDir[dir]; len(pages) > 0 {
			children = append(children, s.folderEntry(dest.Title, dir, pages)...)
		}
	}
	if len(children) == 0 {
		return nil
	}
	return s.folderEntry("Document Library", s.layout.Documents, children)
}

// folderEntry nests children under the README of dir. Without a README the
// children are listed on their own.
func (s *Service) folderEntry(title, dir string, children []render.SummaryEntry) []render.SummaryEntry {
	readme := path.Join(dir, readmeFile)
	if !s.tree.Exists(readme) {
		return children
	}
	return []render.SummaryEntry{{Title: title, Path: readme, Children: children}}
}

func useCaseEntry(uc core.UseCase, p string) render.SummaryEntry {
	return render.SummaryEntry{Title: uc.ID + ": " + render.Or(uc.Country, "Use case"), Path: p}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
