/*
Package deduplab provides CLI tooling to measure how storage systems absorb duplicated data.

The primary goal of deduplab is to compare the physical footprint of storage backends
fed with corpora of a controlled duplication ratio, and to fold these measurements into
an Effective Dedup Ratio per system and duplication grade.

The CLI lives in cmd/deduplab. Building blocks live under pkg/.
*/
package deduplab
