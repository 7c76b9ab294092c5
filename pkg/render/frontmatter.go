package render

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/litbook/pkg/core"
)

// Meta is the YAML front matter carried by every entity page. It lets the
// tree inventory find a page wherever it has been moved.
type Meta struct {
	ID    string    `yaml:"id"`
	Kind  core.Kind `yaml:"kind"`
	Title string    `yaml:"title,omitempty"`
}

// page prefixes body with the front matter block.
func page(meta Meta, body string) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(meta); err != nil {
		return "", fmt.Errorf("encode front matter for %s: %w", meta.ID, err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("encode front matter for %s: %w", meta.ID, err)
	}
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	return buf.String(), nil
}
