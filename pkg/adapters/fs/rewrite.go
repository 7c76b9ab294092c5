package fs

import (
	"errors"
	"fmt"
	"strings"
)

// Replacement is one literal old -> new substitution.
type Replacement struct {
	Old string
	New string
}

// RewriteResult lists what a rewrite pass looked at, what it changed and
// which files it could not rewrite.
type RewriteResult struct {
	Scanned []string
	Changed []string
	Failed  []string
}

// Rewrite applies the replacements as literal substrings to every file
// matching pattern. All pairs are applied in a single pass over each file,
// so a replacement never sees the output of another. Files without any
// occurrence are not written. A file that cannot be rewritten is recorded in
// Failed and the pass goes on; the returned error joins every such failure.
func (t *Tree) Rewrite(pattern string, pairs []Replacement) (RewriteResult, error) {
	var res RewriteResult
	replacer := newReplacer(pairs)
	if replacer == nil {
		return res, nil
	}

	files, err := t.Glob(pattern)
	if err != nil {
		return res, err
	}
	var errs []error
	for _, rel := range files {
		res.Scanned = append(res.Scanned, rel)
		changed, err := t.rewrite(rel, replacer)
		if err != nil {
			t.logger.Warn("rewrite failed", "path", rel, "error", err)
			res.Failed = append(res.Failed, rel)
			errs = append(errs, err)
			continue
		}
		if changed {
			res.Changed = append(res.Changed, rel)
		}
	}
	if len(res.Changed) > 0 {
		t.logger.Debug("references rewritten", "pattern", pattern, "scanned", len(res.Scanned), "changed", len(res.Changed))
	}
	return res, errors.Join(errs...)
}

// RewriteFile applies the replacements to the single file rel and reports
// whether it changed.
func (t *Tree) RewriteFile(rel string, pairs []Replacement) (bool, error) {
	replacer := newReplacer(pairs)
	if replacer == nil {
		return false, nil
	}
	return t.rewrite(rel, replacer)
}

func (t *Tree) rewrite(rel string, replacer *strings.Replacer) (bool, error) {
	data, err := t.ReadFile(rel)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", rel, err)
	}
	before := string(data)
	after := replacer.Replace(before)
	if after == before {
		return false, nil
	}
	if _, err := t.WriteFile(rel, []byte(after)); err != nil {
		return false, err
	}
	return true, nil
}

// newReplacer drops empty and identity pairs. It returns nil when nothing
// is left to replace.
func newReplacer(pairs []Replacement) *strings.Replacer {
	args := make([]string, 0, 2*len(pairs))
	for _, p := range pairs {
		if p.Old == "" || p.Old == p.New {
			continue
		}
		args = append(args, p.Old, p.New)
	}
	if len(args) == 0 {
		return nil
	}
	return strings.NewReplacer(args...)
}
