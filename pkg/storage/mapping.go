package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidMapping means a mapping file does not have either accepted shape.
var ErrInvalidMapping = errors.New("invalid mapping file")

// mappingSchema accepts the flat form {"D001": "https://..."} and the
// detailed form {"D001": {"s3_url": ..., "s3_key": ..., "local_path": ...}}.
const mappingSchema = `{
  "type": "object",
  "propertyNames": {"pattern": "^D[0-9]+$"},
  "additionalProperties": {
    "oneOf": [
      {"type": "string", "minLength": 1},
      {
        "type": "object",
        "required": ["s3_url"],
        "properties": {
          "s3_url": {"type": "string", "minLength": 1},
          "s3_key": {"type": "string"},
          "local_path": {"type": "string"}
        }
      }
    ]
  }
}`

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("mapping.json", strings.NewReader(mappingSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile("mapping.json")
})

// ParseMapping decodes a mapping file in either shape.
func ParseMapping(data []byte) (Mapping, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Mapping{}, nil
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMapping, err)
	}
	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile mapping schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMapping, issues(err))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMapping, err)
	}
	m := make(Mapping, len(raw))
	for id, v := range raw {
		var e Entry
		if v[0] == '"' {
			err = json.Unmarshal(v, &e.URL)
		} else {
			err = json.Unmarshal(v, &e)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidMapping, id, err)
		}
		m[id] = e
	}
	return m, nil
}

// MarshalFlat encodes the mapping in the flat form, two-space indented.
func (m Mapping) MarshalFlat() ([]byte, error) {
	flat := make(map[string]string, len(m))
	for id, e := range m {
		flat[id] = e.URL
	}
	data, err := json.MarshalIndent(flat, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func issues(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var parts []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			loc := node.InstanceLocation
			if loc == "" {
				loc = "#"
			}
			parts = append(parts, loc+": "+node.Message)
			return
		}
		for _, c := range node.Causes {
			walk(c)
		}
	}
	walk(ve)
	return strings.Join(parts, "; ")
}
