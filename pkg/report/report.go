package report

import (
	"context"
	"time"

	"github.com/oneconcern/deduplab/pkg/model"
	"github.com/oneconcern/deduplab/pkg/results"
	"github.com/oneconcern/deduplab/pkg/storage"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Section is the summary of one stage
type Section struct {
	Name    string
	Summary model.Summary
}

// Report combines the summaries of all available stages
type Report struct {
	Title     string
	Generated time.Time
	Sections  []Section
}

// StageNames lists the stages present in the report
func (r Report) StageNames() []string {
	out := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		out = append(out, s.Name)
	}
	return out
}

// Synthesizer builds reports from a results store
type Synthesizer struct {
	title  string
	stages []string
	now    func() time.Time
	l      *zap.Logger
}

// New report synthesizer
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		title:  DefaultTitle,
		stages: model.DefaultStages(),
		now:    time.Now,
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

// Collect reads the summaries of all present stages.
//
// A stage is present when its directory holds at least one key and its summary exists.
// A summary which does not parse is an error.
func (s *Synthesizer) Collect(ctx context.Context, store storage.Store) (Report, error) {
	rep := Report{
		Title:     s.title,
		Generated: s.now(),
		Sections:  make([]Section, 0, len(s.stages)),
	}
	for _, stage := range s.stages {
		present, err := s.isPresent(ctx, store, stage)
		if err != nil {
			return Report{}, err
		}
		if !present {
			s.l.Debug("stage not found, skipped", zap.String("stage", stage))
			continue
		}
		summary, err := results.ReadSummary(ctx, store, model.GetPathToSummary(stage))
		if err != nil {
			return Report{}, ErrReadSummary.Wrapf("stage %s: %w", stage, err)
		}
		rep.Sections = append(rep.Sections, Section{Name: stage, Summary: summary})
	}
	return rep, nil
}

func (s *Synthesizer) isPresent(ctx context.Context, store storage.Store, stage string) (bool, error) {
	hasDir, err := storage.HasPrefix(ctx, store, model.GetStageDir(stage))
	if err != nil || !hasDir {
		return false, err
	}
	return store.Has(ctx, model.GetPathToSummary(stage))
}

// Generate collects a report and writes all its artifacts to the output store.
//
// All artifacts are attempted even when one of them fails.
func (s *Synthesizer) Generate(ctx context.Context, in, out storage.Store) (Report, error) {
	rep, err := s.Collect(ctx, in)
	if err != nil {
		return Report{}, err
	}

	text := rep.Text()
	env := rep.Env()
	prom, erp := rep.Prometheus()
	chart, erc := rep.ChartData()
	err = multierr.Combine(
		erp,
		erc,
		write(ctx, out, model.SummaryTextFile, []byte(text)),
		write(ctx, out, model.MetricsEnvFile, []byte(env)),
	)
	if erp == nil {
		err = multierr.Append(err, write(ctx, out, model.MetricsPromFile, prom))
	}
	if erc == nil {
		err = multierr.Append(err, write(ctx, out, model.ChartDataFile, chart))
	}
	if err != nil {
		return rep, err
	}

	s.l.Info("report generated",
		zap.Strings("stages", rep.StageNames()),
		zap.Stringer("output", out),
	)
	return rep, nil
}

func write(ctx context.Context, out storage.Store, key string, data []byte) error {
	if err := storage.WriteAll(ctx, out, key, data, storage.OverWrite); err != nil {
		return ErrWriteArtifact.Wrapf("%s: %w", key, err)
	}
	return nil
}
