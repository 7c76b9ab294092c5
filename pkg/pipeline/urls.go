package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/aretw0/litbook/pkg/core"
	"github.com/aretw0/litbook/pkg/render"
	"github.com/aretw0/litbook/pkg/storage"
)

// FixAccessURLs normalizes the Access URL row of every document page found
// in the tree and writes the document access guide. Already normalized
// pages are left untouched.
func (s *Service) FixAccessURLs(ctx context.Context) (core.Report, error) {
	_, inv, err := s.begin(ctx)
	if err != nil {
		return core.Report{}, err
	}
	r := core.Report{Stage: StageFixAccessURLs}

	for _, p := range inv.Pages(core.KindDocument) {
		if err := ctx.Err(); err != nil {
			return s.finish(r), err
		}
		r.Attempted++
		data, err := s.tree.ReadFile(p.Path)
		if err != nil {
			r.Warnf("%s: %v", p.ID, err)
			continue
		}
		if _, ok := render.AccessCell(string(data)); !ok {
			r.Warnf("%s: no Access URL row in %s", p.ID, p.Path)
			continue
		}
		fixed, changed := render.NormalizeAccessRow(string(data))
		if !changed {
			r.Succeeded++
			r.Skipped++
			continue
		}
		if s.write(&r, p.Path, fixed) {
			r.Succeeded++
		}
	}

	s.write(&r, s.docPath(documentAccessFile), render.DocumentAccess())
	return s.finish(r), nil
}

// ApplyAccessURLs links documents without a web URL to their stored copy.
// The Access URL row of each mapped page becomes a download link, documents
// with a web URL keep it. The merged mapping is saved back to the mapping
// file and listed on the stored copies reference page.
func (s *Service) ApplyAccessURLs(ctx context.Context) (core.Report, error) {
	ds, inv, err := s.begin(ctx)
	if err != nil {
		return core.Report{}, err
	}
	mapping, err := s.mapping()
	if err != nil {
		return core.Report{}, err
	}
	r := core.Report{Stage: StageApplyAccessURLs}

	for _, d := range ds.Documents {
		if err := ctx.Err(); err != nil {
			return s.finish(r), err
		}
		r.Attempted++
		if render.ClassifyAccessURL(d.URL) == render.AccessWeb {
			r.Succeeded++
			r.Skipped++
			continue
		}
		e, ok := mapping[d.ID]
		if !ok || e.Web() {
			r.Warnf("%s: no stored copy mapped", d.ID)
			continue
		}
		p, ok := inv.Locate(core.KindDocument, d.ID)
		if !ok {
			r.Warnf("%s: page not found", d.ID)
			continue
		}
		data, err := s.tree.ReadFile(p)
		if err != nil {
			r.Warnf("%s: %v", d.ID, err)
			continue
		}
		if _, ok := render.AccessCell(string(data)); !ok {
			r.Warnf("%s: no Access URL row in %s", d.ID, p)
			continue
		}
		page, changed := render.ReplaceAccessURL(string(data), render.DownloadLink(e.URL))
		if changed && !s.write(&r, p, page) {
			continue
		}
		r.Succeeded++
	}

	if file := s.config.Storage.MappingFile; file != "" && len(mapping) > 0 {
		data, err := mapping.MarshalFlat()
		if err != nil {
			r.Warnf("encode mapping: %v", err)
		} else {
			s.write(&r, file, string(data))
		}
	}

	links := make([]render.StorageLink, 0, len(mapping))
	for _, id := range mapping.IDs() {
		links = append(links, render.StorageLink{ID: id, URL: mapping[id].URL, Web: mapping[id].Web()})
	}
	s.write(&r, s.docPath(storageLinksFile), render.StorageLinks(links, s.now()))

	return s.finish(r), nil
}

// mapping merges the configured objects with the mapping file. Entries of
// the file win. A missing file is not an error.
func (s *Service) mapping() (storage.Mapping, error) {
	m := s.config.Storage.Mapping()
	file := s.config.Storage.MappingFile
	if file == "" {
		return m, nil
	}
	data, err := s.tree.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	fromFile, err := storage.ParseMapping(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	m.Merge(fromFile)
	return m, nil
}
