package experiment

import (
	"time"

	"github.com/oneconcern/deduplab/internal/rand"
	"github.com/oneconcern/deduplab/pkg/storage"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Option configures a Runner
type Option func(*Runner)

// Corpus sets the store holding the generated corpora
func Corpus(store storage.Store) Option {
	return func(r *Runner) {
		r.corpus = store
	}
}

// Results sets the store receiving records. Without it, records are only returned.
func Results(store storage.Store) Option {
	return func(r *Runner) {
		r.results = store
	}
}

// Replicas is the number of copies the storage layer keeps of every byte
func Replicas(n int) Option {
	return func(r *Runner) {
		r.replicas = n
	}
}

// Volume names the volume backing the system, for the record
func Volume(name string) Option {
	return func(r *Runner) {
		r.volume = name
	}
}

// Entropy sets the random source of record identifiers
func Entropy(src *rand.Source) Option {
	return func(r *Runner) {
		if src != nil {
			r.src = src
		}
	}
}

// Clock sets the time source of record timestamps
func Clock(clock func() time.Time) Option {
	return func(r *Runner) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// Rate paces per-record inserts and deletes to some number of operations per second.
// A rate of 0 leaves them unbounded.
func Rate(opsPerSecond float64) Option {
	return func(r *Runner) {
		if opsPerSecond > 0 {
			r.limiter = rate.NewLimiter(rate.Limit(opsPerSecond), 1)
		} else {
			r.limiter = nil
		}
	}
}

func Logger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.l = l
		}
	}
}

func defaultRunner() *Runner {
	return &Runner{
		replicas: 1,
		clock:    time.Now,
		l:        zap.NewNop(),
	}
}
