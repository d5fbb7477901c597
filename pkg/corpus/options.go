package corpus

import (
	"github.com/oneconcern/deduplab/internal/rand"
	"github.com/oneconcern/deduplab/pkg/dlogger"
	"github.com/oneconcern/deduplab/pkg/payload"
	"github.com/oneconcern/deduplab/pkg/storage"
	"go.uber.org/zap"
)

// Option configures a corpus Builder
type Option func(*Builder)

// Store sets the destination of generated entries
func Store(store storage.Store) Option {
	return func(b *Builder) {
		b.store = store
	}
}

// Logger sets the logger
func Logger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.l = l
		}
	}
}

// Entropy sets the random source used for payloads and duplicate draws
func Entropy(src *rand.Source) Option {
	return func(b *Builder) {
		if src != nil {
			b.src = src
		}
	}
}

// Selector sets the duplicate selection policy
func Selector(s DuplicateSelector) Option {
	return func(b *Builder) {
		if s != nil {
			b.selector = s
		}
	}
}

// PayloadOptions passes options to payload generators
func PayloadOptions(opts ...payload.Option) Option {
	return func(b *Builder) {
		b.payloadOptions = append(b.payloadOptions, opts...)
	}
}

func defaultBuilder() *Builder {
	return &Builder{
		l:        dlogger.MustGetLogger(dlogger.LogLevelNone),
		selector: ProbabilisticSelector{},
	}
}
