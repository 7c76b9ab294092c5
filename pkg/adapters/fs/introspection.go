package fs

import (
	"github.com/aretw0/introspection"
)

// TreeState exposes internal state for observability.
type TreeState struct {
	Root        string `json:"root"`
	CachedPages int    `json:"cached_pages"`
	CacheHits   int    `json:"cache_hits"`
	Written     int64  `json:"written"`
	Unchanged   int64  `json:"unchanged"`
	Moved       int64  `json:"moved"`
}

// State implements introspection.Introspectable.
func (t *Tree) State() any {
	return TreeState{
		Root:        t.root,
		CachedPages: t.cache.Len(),
		CacheHits:   t.cache.Hits(),
		Written:     t.written.Load(),
		Unchanged:   t.unchanged.Load(),
		Moved:       t.moved.Load(),
	}
}

// ComponentType implements introspection.Component.
func (t *Tree) ComponentType() string {
	return "tree"
}

var _ introspection.Introspectable = (*Tree)(nil)
var _ introspection.Component = (*Tree)(nil)
