// Package fs is the filesystem side of the book: writing pages, moving them
// between folders, finding them again and patching the links between them.
package fs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/litbook/pkg/core"
)

const (
	filePerm = 0644
	dirPerm  = 0755
)

// Tree is the output directory of the book. Paths given to its methods are
// slash separated and relative to the root.
type Tree struct {
	root   string
	logger *slog.Logger
	cache  *cache

	written   atomic.Int64
	unchanged atomic.Int64
	moved     atomic.Int64
}

// NewTree returns a tree rooted at root.
func NewTree(root string, logger *slog.Logger) *Tree {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tree{root: root, logger: logger, cache: newCache()}
}

// Root returns the root directory.
func (t *Tree) Root() string {
	return t.root
}

// Abs converts a tree path to an OS path.
func (t *Tree) Abs(rel string) string {
	return filepath.Join(t.root, filepath.FromSlash(rel))
}

// Exists reports whether rel is a regular file.
func (t *Tree) Exists(rel string) bool {
	info, err := os.Stat(t.Abs(rel))
	return err == nil && info.Mode().IsRegular()
}

// ReadFile returns the content of rel.
func (t *Tree) ReadFile(rel string) ([]byte, error) {
	return os.ReadFile(t.Abs(rel))
}

// WriteFile writes data to rel, creating parent folders. A file that already
// holds exactly data is left alone. It reports whether the file changed.
func (t *Tree) WriteFile(rel string, data []byte) (bool, error) {
	abs := t.Abs(rel)
	if old, err := os.ReadFile(abs); err == nil && bytes.Equal(old, data) {
		t.unchanged.Add(1)
		return false, nil
	}
	t.cache.Forget(path.Clean(rel))
	if err := os.MkdirAll(filepath.Dir(abs), dirPerm); err != nil {
		return false, fmt.Errorf("failed to create folder for %s: %w", rel, err)
	}
	if err := replacePage(abs, data); err != nil {
		return false, err
	}
	t.written.Add(1)
	t.logger.Debug("page written", "path", rel)
	return true, nil
}

// Move renames from to to within the tree, creating parent folders.
// Moving a page onto itself is a no-op. A missing source wraps
// core.ErrSourceMissing; an occupied target wraps core.ErrTargetExists.
func (t *Tree) Move(from, to string) error {
	from, to = path.Clean(from), path.Clean(to)
	if from == to {
		return nil
	}
	if !t.Exists(from) {
		return fmt.Errorf("move %s: %w", from, core.ErrSourceMissing)
	}
	if _, err := os.Lstat(t.Abs(to)); err == nil {
		return fmt.Errorf("move %s to %s: %w", from, to, core.ErrTargetExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("move %s: %w", from, err)
	}
	if err := os.MkdirAll(filepath.Dir(t.Abs(to)), dirPerm); err != nil {
		return fmt.Errorf("failed to create folder for %s: %w", to, err)
	}
	t.cache.Forget(from, to)
	if err := os.Rename(t.Abs(from), t.Abs(to)); err != nil {
		return fmt.Errorf("move %s to %s: %w", from, to, err)
	}
	t.moved.Add(1)
	t.logger.Debug("page moved", "from", from, "to", to)
	return nil
}

// Glob returns the files matching a doublestar pattern, sorted.
// A pattern whose base folder does not exist matches nothing.
func (t *Tree) Glob(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	matches, err := doublestar.Glob(os.DirFS(t.root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Rel returns the link from a page in folder fromDir to the tree path target.
func Rel(fromDir, target string) string {
	rel, err := filepath.Rel(filepath.FromSlash(fromDir), filepath.FromSlash(target))
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}

// Depth is the number of folders between the tree root and rel.
func Depth(rel string) int {
	rel = strings.Trim(path.Clean(rel), "/")
	if rel == "." || rel == "" {
		return 0
	}
	return strings.Count(rel, "/")
}
