package fs

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/aretw0/litbook/pkg/core"
)

// Roots maps each entity kind to its top-level folder in the tree.
type Roots map[core.Kind]string

// Page is an entity page found in the tree.
type Page struct {
	ID    string    `json:"id"`
	Kind  core.Kind `json:"kind"`
	Path  string    `json:"path"`
	Title string    `json:"title,omitempty"`
}

// Duplicate is an entity found at more than one path. The first path wins.
type Duplicate struct {
	ID    string    `json:"id"`
	Kind  core.Kind `json:"kind"`
	Paths []string  `json:"paths"`
}

// Inventory is a snapshot of where entity pages currently live.
type Inventory struct {
	roots      Roots
	pages      map[core.Kind]map[string]Page
	duplicates []Duplicate
}

type pageMeta struct {
	ID    string    `yaml:"id"`
	Kind  core.Kind `yaml:"kind"`
	Title string    `yaml:"title"`
}

var idPatterns = map[core.Kind]*regexp.Regexp{
	core.KindDocument: regexp.MustCompile(`^D\d+$`),
	core.KindUseCase:  regexp.MustCompile(`^UC\d+$`),
}

// Scan walks every markdown file below the kind roots. Pages are identified
// by their front matter; pages without one are recognized by the D###/UC###
// file name convention of their kind.
func (t *Tree) Scan(roots Roots) (*Inventory, error) {
	inv := &Inventory{roots: roots, pages: make(map[core.Kind]map[string]Page)}
	seen := make(map[core.Kind]map[string]*Duplicate)

	kinds := make([]core.Kind, 0, len(roots))
	for k := range roots {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, kind := range kinds {
		files, err := t.Glob(path.Join(roots[kind], "**", "*.md"))
		if err != nil {
			return nil, err
		}
		for _, rel := range files {
			p, ok, err := t.identify(rel, kind)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if inv.pages[p.Kind] == nil {
				inv.pages[p.Kind] = make(map[string]Page)
				seen[p.Kind] = make(map[string]*Duplicate)
			}
			if first, dup := inv.pages[p.Kind][p.ID]; dup {
				d := seen[p.Kind][p.ID]
				if d == nil {
					d = &Duplicate{ID: p.ID, Kind: p.Kind, Paths: []string{first.Path}}
					seen[p.Kind][p.ID] = d
				}
				d.Paths = append(d.Paths, p.Path)
				continue
			}
			inv.pages[p.Kind][p.ID] = p
		}
	}

	for _, kind := range kinds {
		for _, d := range seen[kind] {
			inv.duplicates = append(inv.duplicates, *d)
			t.logger.Warn("page found more than once", "kind", d.Kind, "id", d.ID, "paths", d.Paths)
		}
	}
	sort.Slice(inv.duplicates, func(i, j int) bool {
		if inv.duplicates[i].Kind != inv.duplicates[j].Kind {
			return inv.duplicates[i].Kind < inv.duplicates[j].Kind
		}
		return inv.duplicates[i].ID < inv.duplicates[j].ID
	})
	return inv, nil
}

// identify tells whether rel is the page of an entity. Results are cached
// until the file changes.
func (t *Tree) identify(rel string, kind core.Kind) (Page, bool, error) {
	info, err := os.Stat(t.Abs(rel))
	if err != nil {
		return Page{}, false, fmt.Errorf("stat %s: %w", rel, err)
	}
	if p, ok, hit := t.cache.Get(rel, info.ModTime(), info.Size()); hit {
		return p, ok, nil
	}
	p, ok, err := t.parse(rel, kind)
	if err != nil {
		return Page{}, false, err
	}
	t.cache.Set(rel, info.ModTime(), info.Size(), p, ok)
	return p, ok, nil
}

func (t *Tree) parse(rel string, kind core.Kind) (Page, bool, error) {
	data, err := t.ReadFile(rel)
	if err != nil {
		return Page{}, false, fmt.Errorf("read %s: %w", rel, err)
	}
	var meta pageMeta
	if _, err := frontmatter.Parse(bytes.NewReader(data), &meta); err != nil {
		t.logger.Debug("unreadable front matter", "path", rel, "error", err)
		meta = pageMeta{}
	}
	if id := strings.TrimSpace(meta.ID); id != "" && meta.Kind != "" {
		return Page{ID: id, Kind: meta.Kind, Path: rel, Title: meta.Title}, true, nil
	}
	name := strings.TrimSuffix(path.Base(rel), ".md")
	if re := idPatterns[kind]; re != nil && re.MatchString(name) {
		return Page{ID: name, Kind: kind, Path: rel}, true, nil
	}
	return Page{}, false, nil
}

// Locate returns the current path of an entity page.
func (inv *Inventory) Locate(kind core.Kind, id string) (string, bool) {
	p, ok := inv.pages[kind][id]
	return p.Path, ok
}

// Placement is the lifecycle stage of an entity page.
func (inv *Inventory) Placement(kind core.Kind, id string) core.Placement {
	p, ok := inv.pages[kind][id]
	if !ok {
		return core.Unplaced
	}
	return core.PlacementOf(strings.TrimPrefix(p.Path, inv.roots[kind]+"/"))
}

// Pages lists the pages of a kind sorted by path.
func (inv *Inventory) Pages(kind core.Kind) []Page {
	out := make([]Page, 0, len(inv.pages[kind]))
	for _, p := range inv.pages[kind] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Duplicates lists entities found at more than one path.
func (inv *Inventory) Duplicates() []Duplicate {
	return inv.duplicates
}

// Record updates the snapshot after a page was written or moved.
func (inv *Inventory) Record(p Page) {
	if inv.pages[p.Kind] == nil {
		inv.pages[p.Kind] = make(map[string]Page)
	}
	inv.pages[p.Kind][p.ID] = p
}
