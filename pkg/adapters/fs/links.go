package fs

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// BrokenLink is a relative link whose target does not exist.
type BrokenLink struct {
	Page   string `json:"page"`
	Target string `json:"target"`
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("%s -> %s", b.Page, b.Target)
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// CheckLinks parses every markdown file matching pattern and reports the
// relative links that point at missing files. External links, anchors and
// folder links with a README are accepted.
func (t *Tree) CheckLinks(pattern string) ([]BrokenLink, int, error) {
	files, err := t.Glob(pattern)
	if err != nil {
		return nil, 0, err
	}
	var broken []BrokenLink
	checked := 0
	for _, rel := range files {
		data, err := t.ReadFile(rel)
		if err != nil {
			return nil, 0, fmt.Errorf("read %s: %w", rel, err)
		}
		for _, dest := range Links(data) {
			target, ok := resolve(path.Dir(rel), dest)
			if !ok {
				continue
			}
			checked++
			if !t.Exists(target) && !t.Exists(path.Join(target, "README.md")) {
				broken = append(broken, BrokenLink{Page: rel, Target: dest})
			}
		}
	}
	return broken, checked, nil
}

// Links returns the link destinations of a markdown page in document order.
// Front matter is skipped.
func Links(src []byte) []string {
	var meta map[string]any
	if body, err := frontmatter.Parse(bytes.NewReader(src), &meta); err == nil {
		src = body
	}
	doc := markdown.Parser().Parse(text.NewReader(src))

	var out []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch l := n.(type) {
		case *ast.Link:
			out = append(out, string(l.Destination))
		case *ast.Image:
			out = append(out, string(l.Destination))
		}
		return ast.WalkContinue, nil
	})
	return out
}

// resolve turns a link found in dir into a tree path. Links leaving the
// tree, anchors and links with a scheme are not resolvable.
func resolve(dir, dest string) (string, bool) {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "/") {
		return "", false
	}
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	target := path.Clean(path.Join(dir, u.Path))
	if target == ".." || strings.HasPrefix(target, "../") {
		return "", false
	}
	return target, true
}
