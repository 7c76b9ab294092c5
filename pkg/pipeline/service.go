// Package pipeline turns the review dataset into the book and keeps the book
// consistent while its layout evolves.
//
// Each stage is a method of Service returning a core.Report. Stages run
// sequentially and never roll back: a failure on one page is recorded as a
// warning and the batch continues. Only loading the dataset and reading the
// configuration are fatal.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sync"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/litbook/pkg/adapters/fs"
	"github.com/aretw0/litbook/pkg/core"
)

// Params wires a Service.
type Params struct {
	Tree   *fs.Tree
	Loader core.Loader
	Config Config
	Logger *slog.Logger
	// Now is the clock used for dates printed on pages. Defaults to time.Now.
	Now func() time.Time
}

// Service runs the stages over one output tree.
type Service struct {
	tree    *fs.Tree
	loader  core.Loader
	layout  Layout
	tax     *compiled
	config  Config
	logger  *slog.Logger
	now     func() time.Time
	mu      sync.RWMutex
	ds      *core.Dataset
	reports []core.Report
}

// New validates the taxonomy and returns a ready Service.
func New(p Params) (*Service, error) {
	if p.Tree == nil {
		return nil, errors.New("pipeline needs an output tree")
	}
	if p.Loader == nil {
		return nil, errors.New("pipeline needs a dataset loader")
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	tax, err := p.Config.Taxonomy.compile(p.Logger)
	if err != nil {
		return nil, err
	}
	layout := p.Config.Layout
	def := DefaultLayout()
	if layout.Documents == "" {
		layout.Documents = def.Documents
	}
	if layout.UseCases == "" {
		layout.UseCases = def.UseCases
	}
	return &Service{
		tree:   p.Tree,
		loader: p.Loader,
		layout: layout,
		tax:    tax,
		config: p.Config,
		logger: p.Logger,
		now:    p.Now,
	}, nil
}

// dataset loads the tables once per Service.
func (s *Service) dataset(ctx context.Context) (*core.Dataset, error) {
	s.mu.RLock()
	ds := s.ds
	s.mu.RUnlock()
	if ds != nil {
		return ds, nil
	}

	ds, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	for _, w := range ds.Warnings {
		s.logger.Warn("dataset row skipped", "reason", w)
	}

	s.mu.Lock()
	s.ds = ds
	s.mu.Unlock()
	return ds, nil
}

func (s *Service) scan() (*fs.Inventory, error) {
	inv, err := s.tree.Scan(fs.Roots{
		core.KindDocument: s.layout.Documents,
		core.KindUseCase:  s.layout.UseCases,
	})
	if err != nil {
		return nil, fmt.Errorf("scan tree: %w", err)
	}
	return inv, nil
}

// begin checks for cancellation and loads what every stage needs.
func (s *Service) begin(ctx context.Context) (*core.Dataset, *fs.Inventory, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, nil, err
	}
	inv, err := s.scan()
	if err != nil {
		return nil, nil, err
	}
	return ds, inv, nil
}

// finish logs the summary of a stage and remembers it for State.
func (s *Service) finish(r core.Report) core.Report {
	for _, w := range r.Warnings {
		s.logger.Warn(w, "stage", r.Stage)
	}
	s.logger.Info("stage finished",
		"stage", r.Stage,
		"attempted", r.Attempted,
		"succeeded", r.Succeeded,
		"skipped", r.Skipped,
		"warnings", len(r.Warnings),
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reports {
		if s.reports[i].Stage == r.Stage {
			s.reports[i] = r
			return r
		}
	}
	s.reports = append(s.reports, r)
	return r
}

// write stores an index or reference page, recording a failure as a warning.
func (s *Service) write(r *core.Report, rel, content string) bool {
	if _, err := s.tree.WriteFile(rel, []byte(content)); err != nil {
		r.Warnf("write %s: %v", rel, err)
		return false
	}
	return true
}

func (s *Service) docPath(parts ...string) string {
	return path.Join(append([]string{s.layout.Documents}, parts...)...)
}

func (s *Service) useCasePath(parts ...string) string {
	return path.Join(append([]string{s.layout.UseCases}, parts...)...)
}

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Root          string        `json:"root"`
	Layout        Layout        `json:"layout"`
	DatasetLoaded bool          `json:"dataset_loaded"`
	Documents     int           `json:"documents"`
	UseCases      int           `json:"use_cases"`
	Links         int           `json:"links"`
	Stages        []core.Report `json:"stages,omitempty"`
	Tree          fs.TreeState  `json:"tree"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := ServiceState{
		Root:   s.tree.Root(),
		Layout: s.layout,
		Stages: append([]core.Report(nil), s.reports...),
	}
	st.Tree, _ = s.tree.State().(fs.TreeState)
	if s.ds != nil {
		st.DatasetLoaded = true
		st.Documents = len(s.ds.Documents)
		st.UseCases = len(s.ds.UseCases)
		st.Links = len(s.ds.Links)
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "pipeline"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
