package core

import (
	"path"
	"strings"
)

// Placement is the lifecycle stage of a rendered page.
// Pages only move forward: Unplaced -> Flat -> Categorized -> Subcategorized.
type Placement int

const (
	Unplaced Placement = iota
	Flat
	Categorized
	Subcategorized
)

func (p Placement) String() string {
	switch p {
	case Flat:
		return "flat"
	case Categorized:
		return "categorized"
	case Subcategorized:
		return "subcategorized"
	default:
		return "unplaced"
	}
}

// MarshalText encodes the stage by name.
func (p Placement) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// PlacementOf derives the stage of a page from its slash separated path
// relative to the root folder of its kind (e.g. "documents").
func PlacementOf(rel string) Placement {
	rel = strings.Trim(path.Clean(rel), "/")
	if rel == "" || rel == "." {
		return Unplaced
	}
	switch strings.Count(rel, "/") {
	case 0:
		return Flat
	case 1:
		return Categorized
	default:
		return Subcategorized
	}
}
