/*
Package report synthesizes the final report of an experiment from its stage summaries.

A stage is reported when both its results directory and its summary exist. Other
stages are skipped silently. All artifacts are regenerated on every run:

	summary.txt     human readable report
	metrics.env     flat KEY=value export, e.g. INGEST_POSTGRES_U90_DELTA=104857600
	metrics.prom    the same values, in the Prometheus text exposition format
	chart_data.csv  system x grade matrix, ready for charting

Effective dedup ratios are passed through as found on records. They are never computed here.
*/
package report
