package report

import (
	"bytes"

	"github.com/oneconcern/deduplab/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const metricsNamespace = "deduplab"

var metricLabels = []string{"stage", "system", "grade"}

// Prometheus renders all measurements in the text exposition format, for the node
// exporter textfile collector.
//
// EDR gauges are only set for records carrying a numeric EDR.
func (r Report) Prometheus() ([]byte, error) {
	registry := prometheus.NewRegistry()
	delta := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "size_delta_bytes",
		Help:      "Physical size delta measured on a storage system.",
	}, metricLabels)
	duration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "duration_seconds",
		Help:      "Duration of an experiment stage.",
	}, metricLabels)
	edr := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "effective_dedup_ratio",
		Help:      "Logical bytes written over physical bytes retained.",
	}, metricLabels)
	registry.MustRegister(delta, duration, edr)

	r.each(func(stage, system, grade string, record model.Record) {
		labels := prometheus.Labels{"stage": stage, "system": system, "grade": grade}
		delta.With(labels).Set(record.SizeDeltaBytes())
		duration.With(labels).Set(record.DurationMS() / 1000)
		if v, ok := record.EDRNumber(); ok {
			edr.With(labels).Set(v)
		}
	})

	families, err := registry.Gather()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, family); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
