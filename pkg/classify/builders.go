package classify

import (
	"fmt"

	"github.com/aretw0/litbook/pkg/core"
)

// DocumentClass is one document folder and the values that select it.
// A document matches when its type is in Types OR its evidence type is in
// Evidence.
type DocumentClass struct {
	Key      string   `yaml:"key" json:"key"`
	Title    string   `yaml:"title" json:"title"`
	Summary  string   `yaml:"summary,omitempty" json:"summary,omitempty"`
	Types    []string `yaml:"types" json:"types"`
	Evidence []string `yaml:"evidence" json:"evidence"`
}

// Documents builds the document classifier from classes in priority order.
func Documents(classes []DocumentClass, fallback Destination) (*Classifier, error) {
	rules := make([]Rule, 0, len(classes))
	for _, c := range classes {
		key, err := FolderName(c.Title, c.Key)
		if err != nil {
			return nil, fmt.Errorf("document class %q: %w", c.Title, err)
		}
		rules = append(rules, Rule{
			Name:        key,
			Destination: Destination{Key: key, Title: c.Title},
			Match: Or(
				AnyOf(core.FieldDocumentType, c.Types...),
				AnyOf(core.FieldEvidenceType, c.Evidence...),
			),
		})
	}
	return New(rules, fallback)
}

// Categories builds the use-case category classifier: an exact title match
// per table entry, in table order.
func Categories(t *Table, fallback Destination) (*Classifier, error) {
	entries := t.Entries()
	rules := make([]Rule, 0, len(entries))
	for _, m := range entries {
		rules = append(rules, Rule{
			Name:        m.Title,
			Destination: Destination{Key: m.Folder, Title: m.Title},
			Match:       Equals(core.FieldCategory, m.Title),
		})
	}
	return New(rules, fallback)
}
