package experiment

import (
	"context"
	"time"

	units "github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/oneconcern/deduplab/internal/rand"
	"github.com/oneconcern/deduplab/pkg/backend"
	"github.com/oneconcern/deduplab/pkg/corpus"
	"github.com/oneconcern/deduplab/pkg/model"
	"github.com/oneconcern/deduplab/pkg/storage"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Fields added to records, besides the well-known ones
const (
	FieldFiles             = "files"
	FieldLogicalBytes      = "logical_bytes"
	FieldDurationNS        = "duration_ns"
	FieldPhysSizeBefore    = "phys_size_before"
	FieldPhysSizeAfter     = "phys_size_after"
	FieldThroughput        = "throughput_bytes_per_sec"
	FieldReplicaCount      = "replica_count"
	FieldVolumeName        = "volume_name"
	FieldTimestamp         = "timestamp"
	FieldLatency           = "latency"
	FieldMaintenanceReport = "maintenance"

	timestampLayout = "2006-01-02T15:04:05Z"
)

// Runner drives a backend through the stages of an experiment
type Runner struct {
	backend  backend.Backend
	corpus   storage.Store
	results  storage.Store
	src      *rand.Source
	clock    func() time.Time
	l        *zap.Logger
	replicas int
	volume   string
	limiter  *rate.Limiter
}

// outcome is what a stage reports, besides timing and size measurements
type outcome struct {
	files       int
	logical     int64
	latencies   *latencies
	maintenance string
}

// New experiment runner on some backend. Unless specified with Entropy, record
// identifiers are drawn from a source seeded from the clock.
func New(b backend.Backend, opts ...Option) (*Runner, error) {
	r := defaultRunner()
	r.backend = b
	for _, apply := range opts {
		apply(r)
	}
	if r.corpus == nil {
		return nil, ErrNoCorpus
	}
	if r.replicas < 1 {
		return nil, ErrInvalidReplicas.Wrapf("%d", r.replicas)
	}
	if r.src == nil {
		r.src = rand.NewFromTime()
	}
	return r, nil
}

// Run all stages for every grade, in order.
//
// The backend is reset before the ingest and per-record stages, so that every
// stage but delete starts from an empty backend. Records produced before a failure
// are returned along with the error.
func (r *Runner) Run(ctx context.Context, grades []model.Grade) ([]model.Record, error) {
	records := make([]model.Record, 0, len(grades)*len(model.DefaultStages()))
	if err := r.backend.Setup(ctx); err != nil {
		return records, ErrStage.Wrapf("setup %s: %w", r.backend.Name(), err)
	}

	for _, grade := range grades {
		r.l.Info("experiment", zap.String("system", r.backend.Name()), zap.Stringer("grade", grade))
		for _, stage := range model.DefaultStages() {
			if stage != model.StageDelete {
				if err := r.backend.Reset(ctx); err != nil {
					return records, ErrStage.Wrapf("reset %s: %w", r.backend.Name(), err)
				}
			}
			rec, err := r.RunStage(ctx, stage, grade)
			if err != nil {
				return records, err
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

// RunStage measures a single stage on the current state of the backend
func (r *Runner) RunStage(ctx context.Context, stage string, grade model.Grade) (model.Record, error) {
	var execute func(context.Context, model.Grade) (outcome, error)
	switch stage {
	case model.StageIngest:
		execute = r.ingest
	case model.StagePerRecord:
		execute = r.insert
	case model.StageDelete:
		execute = r.delete
	default:
		return nil, ErrUnknownStage.Wrapf("%q", stage)
	}
	system := r.backend.Name()

	before, err := r.backend.PhysicalSize(ctx)
	if err != nil {
		return nil, ErrStage.Wrapf("%s/%s: measure size: %w", stage, system, err)
	}
	start := time.Now()
	out, err := execute(ctx, grade)
	if err != nil {
		return nil, ErrStage.Wrapf("%s/%s/%s: %w", stage, system, grade, err)
	}
	elapsed := time.Since(start)
	after, err := r.backend.PhysicalSize(ctx)
	if err != nil {
		return nil, ErrStage.Wrapf("%s/%s: measure size: %w", stage, system, err)
	}

	delta := after - before
	rec := model.NewRecord(system, stage, grade, delta, float64(elapsed.Nanoseconds())/1e6)
	rec[FieldDurationNS] = elapsed.Nanoseconds()
	rec[FieldFiles] = out.files
	rec[FieldLogicalBytes] = out.logical
	rec[FieldPhysSizeBefore] = before
	rec[FieldPhysSizeAfter] = after
	rec[FieldReplicaCount] = r.replicas
	rec[FieldTimestamp] = r.clock().UTC().Format(timestampLayout)
	if r.volume != "" {
		rec[FieldVolumeName] = r.volume
	}
	if edr, ok := EDR(out.logical, delta, r.replicas); ok {
		rec[model.FieldEDR] = edr
	}
	if out.logical > 0 && elapsed > 0 {
		rec[FieldThroughput] = float64(out.logical) / elapsed.Seconds()
	}
	if out.latencies != nil && out.latencies.Count() > 0 {
		rec[FieldLatency] = out.latencies.Summary()
	}
	if out.maintenance != "" {
		rec[FieldMaintenanceReport] = out.maintenance
	}

	r.l.Info("stage done",
		zap.String("stage", stage),
		zap.String("system", system),
		zap.Stringer("grade", grade),
		zap.Int("files", out.files),
		zap.String("logical", units.HumanSize(float64(out.logical))),
		zap.Int64("phys_delta", delta),
		zap.Duration("duration", elapsed),
	)

	if r.results != nil {
		if err = r.write(ctx, stage, system, grade, rec); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

// EDR is the effective dedup ratio: logical bytes over the physical delta of a single replica.
// It is only defined when both are positive.
func EDR(logical, physDelta int64, replicas int) (float64, bool) {
	if logical <= 0 || physDelta <= 0 || replicas < 1 {
		return 0, false
	}
	return float64(logical) / (float64(physDelta) / float64(replicas)), true
}

func (r *Runner) write(ctx context.Context, stage, system string, grade model.Grade, rec model.Record) error {
	data, err := rec.Encode()
	if err != nil {
		return err
	}
	key := model.GetPathToRecord(stage, system, grade)
	if err = storage.WriteAll(ctx, r.results, key, data, storage.OverWrite); err != nil {
		return ErrStage.Wrapf("write record %s: %w", key, err)
	}
	r.l.Debug("record written", zap.Stringer("results", r.results), zap.String("key", key))
	return nil
}

// each iterates over the corpus entries of a grade, with fresh record identifiers
func (r *Runner) each(ctx context.Context, grade model.Grade, fn func(backend.Object) error) (outcome, error) {
	var out outcome
	entries, err := corpus.Entries(ctx, r.corpus, grade)
	if err != nil {
		return out, err
	}
	if len(entries) == 0 {
		return out, ErrEmptyCorpus.Wrapf("%s in %v", grade, r.corpus)
	}
	for _, entry := range entries {
		if err = ctx.Err(); err != nil {
			return out, err
		}
		data, err := storage.ReadAll(ctx, r.corpus, entry.Key)
		if err != nil {
			return out, corpus.ErrReadEntry.Wrapf("%s: %v", entry.Key, err)
		}
		id, err := uuid.NewRandomFromReader(r.src)
		if err != nil {
			return out, err
		}
		obj := backend.Object{ID: id.String(), Grade: entry.Grade, Type: entry.Type, Data: data}
		if err = fn(obj); err != nil {
			return out, err
		}
		out.files++
		out.logical += int64(len(data))
	}
	return out, nil
}

// throttle paces per-record operations. It fails when the context is done.
func (r *Runner) throttle(ctx context.Context) error {
	if r.limiter == nil {
		return ctx.Err()
	}
	return r.limiter.Wait(ctx)
}

func (r *Runner) ingest(ctx context.Context, grade model.Grade) (outcome, error) {
	return r.each(ctx, grade, func(obj backend.Object) error {
		return r.backend.Ingest(ctx, obj)
	})
}

func (r *Runner) insert(ctx context.Context, grade model.Grade) (outcome, error) {
	lat := newLatencies()
	out, err := r.each(ctx, grade, func(obj backend.Object) error {
		if err := r.throttle(ctx); err != nil {
			return err
		}
		start := time.Now()
		if err := r.backend.Insert(ctx, obj); err != nil {
			return err
		}
		lat.Record(time.Since(start))
		return nil
	})
	out.latencies = lat
	return out, err
}

// delete removes all individual records, then reclaims space
func (r *Runner) delete(ctx context.Context, _ model.Grade) (outcome, error) {
	out := outcome{latencies: newLatencies()}
	ids, err := r.backend.IDs(ctx)
	if err != nil {
		return out, err
	}
	for _, id := range ids {
		if err = r.throttle(ctx); err != nil {
			return out, err
		}
		start := time.Now()
		if err = r.backend.Delete(ctx, id); err != nil {
			return out, err
		}
		out.latencies.Record(time.Since(start))
		out.files++
	}
	out.maintenance, err = r.backend.Maintain(ctx)
	return out, err
}
