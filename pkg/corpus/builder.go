package corpus

import (
	"context"

	units "github.com/docker/go-units"
	"github.com/oneconcern/deduplab/internal/rand"
	"github.com/oneconcern/deduplab/pkg/errors"
	"github.com/oneconcern/deduplab/pkg/fingerprint"
	"github.com/oneconcern/deduplab/pkg/model"
	"github.com/oneconcern/deduplab/pkg/payload"
	"github.com/oneconcern/deduplab/pkg/storage"
	"github.com/oneconcern/deduplab/pkg/storage/status"
	"go.uber.org/zap"
)

// Request describes a corpus to generate
type Request struct {
	Type  model.PayloadType
	Grade model.Grade
	Files int
}

// Stats reports on a generated corpus
type Stats struct {
	Grade       model.Grade       `json:"grade" yaml:"grade"`
	Type        model.PayloadType `json:"type" yaml:"type"`
	Files       int               `json:"files" yaml:"files"`
	Unique      int               `json:"unique" yaml:"unique"`
	Duplicates  int               `json:"duplicates" yaml:"duplicates"`
	Bytes       int64             `json:"bytes" yaml:"bytes"`
	UniqueBytes int64             `json:"unique_bytes" yaml:"unique_bytes"`
	Collisions  int               `json:"collisions" yaml:"collisions"`
}

// DuplicateFraction is the realized fraction of copies
func (s Stats) DuplicateFraction() float64 {
	if s.Files == 0 {
		return 0
	}
	return float64(s.Duplicates) / float64(s.Files)
}

// Builder generates corpora, one (grade, payload type) at a time
type Builder struct {
	store          storage.Store
	l              *zap.Logger
	src            *rand.Source
	selector       DuplicateSelector
	payloadOptions []payload.Option
}

// New corpus builder. Unless specified with Entropy, the random source is seeded from the clock.
func New(opts ...Option) *Builder {
	b := defaultBuilder()
	for _, apply := range opts {
		apply(b)
	}
	if b.src == nil {
		b.src = rand.NewFromTime()
	}
	return b
}

// Build generates one corpus.
//
// The pool of unique payloads lives for the duration of the call, so that
// distinct corpora never share payloads. Entries are written sequentially and
// never rewritten: an entry name which already exists in the store is counted
// as a collision and skipped.
//
// On failure, entries written so far are left in place.
func (b *Builder) Build(ctx context.Context, req Request) (Stats, error) {
	stats := Stats{Grade: req.Grade, Type: req.Type}
	if b.store == nil {
		return stats, ErrNoStore
	}
	if req.Files < 0 {
		return stats, ErrInvalidFileCount.Wrapf("%d", req.Files)
	}
	ratio, err := req.Grade.Ratio()
	if err != nil {
		return stats, err
	}
	gen, err := payload.New(req.Type, b.payloadOptions...)
	if err != nil {
		return stats, err
	}

	logger := b.l.With(
		zap.String("grade", string(req.Grade)),
		zap.String("payload_type", string(req.Type)),
		zap.Stringer("store", b.store),
	)
	logger.Debug("generating corpus", zap.Int("files", req.Files), zap.Float64("ratio", ratio))

	pool := make([][]byte, 0, req.Files)
	for i := 0; i < req.Files; i++ {
		if err = ctx.Err(); err != nil {
			return stats, err
		}

		var data []byte
		if pick, duplicate := b.selector.Select(b.src, ratio, len(pool)); duplicate {
			data = pool[pick]
			stats.Duplicates++
		} else {
			data, err = gen.Generate(b.src)
			if err != nil {
				return stats, err
			}
			pool = append(pool, data)
			stats.Unique++
			stats.UniqueBytes += int64(len(data))
		}

		key := model.GetPathToEntry(req.Grade, req.Type, i, fingerprint.Short(data))
		err = storage.WriteAll(ctx, b.store, key, data, storage.NoOverWrite)
		switch {
		case errors.Is(err, status.ErrExists):
			stats.Collisions++
			logger.Warn("corpus entry already exists, not rewritten", zap.String("key", key))
		case err != nil:
			return stats, ErrWriteEntry.Wrap(err)
		}
		stats.Files++
		stats.Bytes += int64(len(data))
	}

	logger.Info("corpus generated",
		zap.Int("files", stats.Files),
		zap.Int("unique", stats.Unique),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("collisions", stats.Collisions),
		zap.String("size", units.HumanSize(float64(stats.Bytes))),
		zap.String("unique_size", units.HumanSize(float64(stats.UniqueBytes))),
	)
	return stats, nil
}

// BuildAll generates one corpus per grade and payload type, each with its own pool of unique payloads.
//
// Grades are iterated first. Stats are returned for all corpora generated until the first failure.
func (b *Builder) BuildAll(ctx context.Context, grades []model.Grade, types []model.PayloadType, files int) ([]Stats, error) {
	all := make([]Stats, 0, len(grades)*len(types))
	for _, grade := range grades {
		for _, typ := range types {
			stats, err := b.Build(ctx, Request{Type: typ, Grade: grade, Files: files})
			if err != nil {
				return all, err
			}
			all = append(all, stats)
		}
	}
	return all, nil
}
