// Package storage describes where document files are published in remote
// object storage and the ID -> URL mapping derived from it.
//
// Only the addressing is handled here. Uploading the files is done out of
// band.
package storage

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// LocalWeb marks a mapping entry whose URL is the document's own web link.
const LocalWeb = "web"

var (
	bucketName = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)
	regionName = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d$`)
	documentID = regexp.MustCompile(`^D\d+$`)
)

// Config locates the published files.
// Objects maps a document ID to its object name below Prefix.
type Config struct {
	Bucket      string            `yaml:"bucket" json:"bucket"`
	Region      string            `yaml:"region" json:"region"`
	Prefix      string            `yaml:"prefix" json:"prefix"`
	MappingFile string            `yaml:"mapping_file" json:"mapping_file"`
	Objects     map[string]string `yaml:"objects" json:"objects"`
}

// Validate checks the bucket addressing and the object table.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Bucket, validation.Required, validation.Match(bucketName)),
		validation.Field(&c.Region, validation.Required, validation.Match(regionName)),
		validation.Field(&c.Prefix, validation.By(func(value any) error {
			p, _ := value.(string)
			if strings.HasPrefix(p, "/") || strings.Contains(p, "..") {
				return validation.NewError("storage.prefix_invalid", "must be a relative key prefix")
			}
			return nil
		})),
		validation.Field(&c.Objects, validation.By(func(value any) error {
			objects, _ := value.(map[string]string)
			for id, name := range objects {
				if !documentID.MatchString(id) {
					return validation.NewError("storage.object_id_invalid", fmt.Sprintf("%q is not a document ID", id))
				}
				if strings.TrimSpace(name) == "" {
					return validation.NewError("storage.object_name_required", fmt.Sprintf("%s has no object name", id))
				}
			}
			return nil
		})),
	)
}

// BaseURL is the public virtual-hosted endpoint of the bucket.
func (c Config) BaseURL() string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.Bucket, c.Region)
}

// Key returns the full object key of name.
func (c Config) Key(name string) string {
	p := strings.Trim(c.Prefix, "/")
	if p == "" || strings.HasPrefix(name, p+"/") {
		return name
	}
	return path.Join(p, name)
}

// URL returns the public URL of an object key.
func (c Config) URL(key string) string {
	return c.BaseURL() + "/" + strings.TrimPrefix(key, "/")
}

// Mapping turns the object table into a URL mapping.
func (c Config) Mapping() Mapping {
	m := make(Mapping, len(c.Objects))
	for id, name := range c.Objects {
		key := c.Key(name)
		m[id] = Entry{URL: c.URL(key), Key: key}
	}
	return m
}

// Entry is the published location of one document.
type Entry struct {
	URL       string `json:"s3_url"`
	Key       string `json:"s3_key,omitempty"`
	LocalPath string `json:"local_path,omitempty"`
}

// Web reports whether the entry points at the document's own web page
// rather than a stored copy.
func (e Entry) Web() bool {
	return e.LocalPath == LocalWeb
}

// Mapping is document ID -> published location.
type Mapping map[string]Entry

// IDs returns the mapped document IDs in numeric order.
func (m Mapping) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) < len(ids[j])
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Merge copies the entries of o into m. Entries of o win.
func (m Mapping) Merge(o Mapping) {
	for id, e := range o {
		m[id] = e
	}
}
