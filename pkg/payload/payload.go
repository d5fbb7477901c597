package payload

import (
	"time"

	"github.com/oneconcern/deduplab/internal/rand"
	"github.com/oneconcern/deduplab/pkg/errors"
	"github.com/oneconcern/deduplab/pkg/model"
)

const (
	// DefaultTextSizeKiB is the default byte budget of text payloads, in KiB
	DefaultTextSizeKiB = 10

	// timestamps are rendered with microseconds and no zone
	timestampLayout = "2006-01-02T15:04:05.000000"
)

// ErrInvalidTextSize is returned when the byte budget of text payloads is not positive
var ErrInvalidTextSize = errors.New("text payload size must be positive")

// Generator produces one payload of a given type per call
type Generator interface {
	Type() model.PayloadType
	Generate(*rand.Source) ([]byte, error)
}

// Option configures generators
type Option func(*options)

type options struct {
	textSizeKiB int
	now         func() time.Time
}

// WithTextSize sets the exact size of text payloads, in KiB
func WithTextSize(kib int) Option {
	return func(o *options) {
		o.textSizeKiB = kib
	}
}

// WithClock sets the clock used to stamp payloads
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func defaultOptions(opts []Option) options {
	o := options{
		textSizeKiB: DefaultTextSizeKiB,
		now:         time.Now,
	}
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// New builds the generator for a payload type. Unknown types are rejected.
func New(typ model.PayloadType, opts ...Option) (Generator, error) {
	o := defaultOptions(opts)

	switch typ {
	case model.PayloadText:
		if o.textSizeKiB <= 0 {
			return nil, ErrInvalidTextSize.Wrapf("%d KiB", o.textSizeKiB)
		}
		return &textGenerator{sizeKiB: o.textSizeKiB}, nil
	case model.PayloadJSONDocument:
		return &documentGenerator{now: o.now}, nil
	case model.PayloadIdentifierList:
		return &identifierListGenerator{}, nil
	case model.PayloadEvent:
		return &eventGenerator{now: o.now}, nil
	case model.PayloadFinancialTransaction:
		return &transactionGenerator{now: o.now}, nil
	default:
		return nil, model.ErrUnknownPayloadType.Wrapf("%q", typ)
	}
}

// NewFromLabel parses a payload type label (aliases included) then builds its generator
func NewFromLabel(label string, opts ...Option) (Generator, error) {
	typ, err := model.ParsePayloadType(label)
	if err != nil {
		return nil, err
	}
	return New(typ, opts...)
}

func formatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// round2 rounds to 2 decimals
func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}
