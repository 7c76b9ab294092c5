// Package classify assigns entities to destination folders.
//
// A Classifier is an ordered list of rules evaluated first-match-wins with a
// mandatory catch-all at the end, so classification is total: every record
// gets exactly one destination and it is never empty.
package classify

import (
	"errors"
	"fmt"
	"strings"
)

// Attributes are the categorical fields of a record, keyed by field name.
type Attributes map[string]string

// Predicate reports whether a record matches a rule.
type Predicate func(Attributes) bool

// Destination is where a record goes.
type Destination struct {
	Key   string `json:"key"`   // folder name
	Title string `json:"title"` // human readable heading
}

// Rule maps matching records to a destination.
type Rule struct {
	Name        string
	Destination Destination
	Match       Predicate
}

const fallbackRule = "fallback"

// Classifier evaluates rules in declaration order.
type Classifier struct {
	rules    []Rule
	fallback Destination
}

// New builds a classifier. The fallback is appended as the terminal rule.
func New(rules []Rule, fallback Destination) (*Classifier, error) {
	if strings.TrimSpace(fallback.Key) == "" {
		return nil, errors.New("classifier fallback must have a key")
	}
	out := make([]Rule, 0, len(rules)+1)
	for i, r := range rules {
		if strings.TrimSpace(r.Destination.Key) == "" {
			return nil, fmt.Errorf("rule %d (%s) has an empty destination", i, r.Name)
		}
		if r.Match == nil {
			return nil, fmt.Errorf("rule %d (%s) has no predicate", i, r.Name)
		}
		if r.Name == "" {
			r.Name = r.Destination.Key
		}
		out = append(out, r)
	}
	out = append(out, Rule{Name: fallbackRule, Destination: fallback, Match: Always()})
	return &Classifier{rules: out, fallback: fallback}, nil
}

// Classify returns the destination of the first matching rule.
func (c *Classifier) Classify(attrs Attributes) Destination {
	d, _ := c.Explain(attrs)
	return d
}

// Explain returns the destination and the name of the rule that produced it.
func (c *Classifier) Explain(attrs Attributes) (Destination, string) {
	for _, r := range c.rules {
		if r.Match(attrs) {
			return r.Destination, r.Name
		}
	}
	// unreachable: the last rule always matches
	return c.fallback, fallbackRule
}

// IsFallback reports whether d is the catch-all destination.
func (c *Classifier) IsFallback(d Destination) bool {
	return d.Key == c.fallback.Key
}

// Fallback returns the catch-all destination.
func (c *Classifier) Fallback() Destination {
	return c.fallback
}

// Destinations lists the declared destinations in rule order, fallback last,
// without duplicates.
func (c *Classifier) Destinations() []Destination {
	seen := make(map[string]bool, len(c.rules))
	var out []Destination
	for _, r := range c.rules {
		if seen[r.Destination.Key] {
			continue
		}
		seen[r.Destination.Key] = true
		out = append(out, r.Destination)
	}
	if !seen[c.fallback.Key] {
		out = append(out, c.fallback)
	}
	return out
}

// Title returns the heading for a destination key, or the key itself.
func (c *Classifier) Title(key string) string {
	for _, r := range c.rules {
		if r.Destination.Key == key {
			return r.Destination.Title
		}
	}
	if key == c.fallback.Key && c.fallback.Title != "" {
		return c.fallback.Title
	}
	return key
}
