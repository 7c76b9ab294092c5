package classify

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"

	"github.com/aretw0/litbook/pkg/core"
)

// Mapping pairs a categorical value with its folder.
// An empty Folder is derived from the title.
type Mapping struct {
	Title  string `yaml:"title" json:"title"`
	Folder string `yaml:"folder,omitempty" json:"folder,omitempty"`
}

// Collision is one folder claimed by several distinct titles.
type Collision struct {
	Folder string
	Titles []string
}

func (c Collision) Error() string {
	return fmt.Sprintf("folder %q is shared by %s", c.Folder, strings.Join(quoteAll(c.Titles), ", "))
}

// Unwrap lets errors.Is match core.ErrMappingCollision.
func (c Collision) Unwrap() error {
	return core.ErrMappingCollision
}

// Mismatch is a declared folder whose name uses words absent from the title
// mapped to it, such as a folder kept from an earlier taxonomy.
type Mismatch struct {
	Title  string
	Folder string
}

func (m Mismatch) Error() string {
	return fmt.Sprintf("folder %q does not match title %q", m.Folder, m.Title)
}

// Unwrap lets errors.Is match core.ErrFolderMismatch.
func (m Mismatch) Unwrap() error {
	return core.ErrFolderMismatch
}

// Table is a static title -> folder lookup that keeps declaration order.
type Table struct {
	entries  []Mapping
	byTitle  map[string]string
	declared map[string]bool // Titles whose folder was given, not derived
}

// NewTable validates and indexes the mappings.
func NewTable(entries []Mapping) (*Table, error) {
	t := &Table{
		byTitle:  make(map[string]string, len(entries)),
		declared: make(map[string]bool),
	}
	for i, m := range entries {
		title := strings.TrimSpace(m.Title)
		if title == "" {
			return nil, fmt.Errorf("mapping %d has an empty title", i)
		}
		folder, err := FolderName(title, m.Folder)
		if err != nil {
			return nil, fmt.Errorf("mapping %q: %w", title, err)
		}
		if prev, dup := t.byTitle[title]; dup && prev != folder {
			return nil, fmt.Errorf("mapping %q declared twice with folders %q and %q", title, prev, folder)
		} else if dup {
			continue
		}
		t.byTitle[title] = folder
		t.declared[title] = strings.TrimSpace(m.Folder) != ""
		t.entries = append(t.entries, Mapping{Title: title, Folder: folder})
	}
	return t, nil
}

// Lookup returns the folder mapped to title.
func (t *Table) Lookup(title string) (string, bool) {
	f, ok := t.byTitle[strings.TrimSpace(title)]
	return f, ok
}

// Entries returns the mappings in declaration order with folders resolved.
func (t *Table) Entries() []Mapping {
	out := make([]Mapping, len(t.entries))
	copy(out, t.entries)
	return out
}

// Title returns the first title mapped to folder.
func (t *Table) Title(folder string) (string, bool) {
	for _, m := range t.entries {
		if m.Folder == folder {
			return m.Title, true
		}
	}
	return "", false
}

// Collisions reports folders that more than one distinct title maps to.
func (t *Table) Collisions() []Collision {
	titles := make(map[string][]string)
	var order []string
	for _, m := range t.entries {
		if _, seen := titles[m.Folder]; !seen {
			order = append(order, m.Folder)
		}
		titles[m.Folder] = append(titles[m.Folder], m.Title)
	}
	var out []Collision
	for _, folder := range order {
		if len(titles[folder]) > 1 {
			ts := titles[folder]
			sort.Strings(ts)
			out = append(out, Collision{Folder: folder, Titles: ts})
		}
	}
	return out
}

// Mismatches reports declared folders with a word that does not occur in
// their title. Shortened folders pass; derived folders always pass.
func (t *Table) Mismatches() []Mismatch {
	var out []Mismatch
	for _, m := range t.entries {
		if !t.declared[m.Title] {
			continue
		}
		inTitle := make(map[string]bool)
		for _, w := range words(m.Title) {
			inTitle[w] = true
		}
		for _, w := range words(m.Folder) {
			if !inTitle[w] && w != "and" {
				out = append(out, Mismatch{Title: m.Title, Folder: m.Folder})
				break
			}
		}
	}
	return out
}

// words splits s into lower-case runs of letters and digits.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// FolderName returns folder when set, otherwise a slug of title.
func FolderName(title, folder string) (string, error) {
	if f := strings.Trim(strings.TrimSpace(folder), "/"); f != "" {
		if strings.Contains(f, "/") || f == "." || f == ".." {
			return "", fmt.Errorf("folder %q must be a single path segment", folder)
		}
		return f, nil
	}
	s, err := slug.Normalize(title)
	if err != nil {
		return "", fmt.Errorf("derive folder: %w", err)
	}
	if s == "" {
		return "", fmt.Errorf("title %q yields an empty folder name", title)
	}
	return s, nil
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
