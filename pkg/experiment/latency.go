package experiment

import (
	"time"

	"github.com/codahale/hdrhistogram"
)

const (
	// latencies are tracked in microseconds, up to one hour, with 3 significant digits
	minLatencyUS   = 1
	maxLatencyUS   = int64(time.Hour / time.Microsecond)
	latencySigFigs = 3
)

// Latency summarizes the distribution of per-record operation latencies, in microseconds
type Latency struct {
	Count  int64   `json:"count" yaml:"count"`
	MinUS  int64   `json:"min_us" yaml:"min_us"`
	MaxUS  int64   `json:"max_us" yaml:"max_us"`
	MeanUS float64 `json:"mean_us" yaml:"mean_us"`
	P50US  int64   `json:"p50_us" yaml:"p50_us"`
	P95US  int64   `json:"p95_us" yaml:"p95_us"`
	P99US  int64   `json:"p99_us" yaml:"p99_us"`
}

type latencies struct {
	h *hdrhistogram.Histogram
}

func newLatencies() *latencies {
	return &latencies{h: hdrhistogram.New(minLatencyUS, maxLatencyUS, latencySigFigs)}
}

// Record a latency, clamped to the trackable range
func (l *latencies) Record(d time.Duration) {
	us := d.Microseconds()
	if us < minLatencyUS {
		us = minLatencyUS
	}
	if us > maxLatencyUS {
		us = maxLatencyUS
	}
	_ = l.h.RecordValue(us)
}

func (l *latencies) Count() int64 {
	return l.h.TotalCount()
}

func (l *latencies) Summary() Latency {
	if l.h.TotalCount() == 0 {
		return Latency{}
	}
	return Latency{
		Count:  l.h.TotalCount(),
		MinUS:  l.h.Min(),
		MaxUS:  l.h.Max(),
		MeanUS: l.h.Mean(),
		P50US:  l.h.ValueAtQuantile(50),
		P95US:  l.h.ValueAtQuantile(95),
		P99US:  l.h.ValueAtQuantile(99),
	}
}
