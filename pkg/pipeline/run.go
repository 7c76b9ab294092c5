package pipeline

import (
	"context"
	"fmt"

	"github.com/aretw0/litbook/pkg/core"
)

// Stage is one step of a full run.
type Stage struct {
	Name string
	Run  func(context.Context) (core.Report, error)
}

// Stages lists the steps of Run in order. Documents are moved before any
// reference to them is rewritten, and every stage expects the layout the
// previous one left behind.
func (s *Service) Stages() []Stage {
	return []Stage{
		{StageGenerate, s.Generate},
		{StageOrganizeDocuments, s.OrganizeDocuments},
		{StageReorganizeDocuments, s.ReorganizeDocuments},
		{StageReorganizeUseCases, s.ReorganizeUseCases},
		{StageFixAccessURLs, s.FixAccessURLs},
		{StageApplyAccessURLs, s.ApplyAccessURLs},
	}
}

// Run executes every stage in order and returns their reports. It stops at
// the first fatal error; per-page problems are only reported.
func (s *Service) Run(ctx context.Context) ([]core.Report, error) {
	var reports []core.Report
	for _, st := range s.Stages() {
		r, err := st.Run(ctx)
		if err != nil {
			return reports, fmt.Errorf("%s: %w", st.Name, err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}
