/*
Package experiment measures how a storage backend absorbs a duplicated corpus.

For every duplication grade, the backend is reset then driven through the stages
of an experiment:

	ingest      bulk load of all corpora of the grade
	per-record  the same entries, inserted one by one as individual records
	delete      individual records deleted one by one, then backend maintenance

Each stage yields one model.Record, stored under {stage}/{system}_{grade}.json.
The physical size of the backend is measured before and after the stage: the
difference is the size delta, and the effective dedup ratio is derived from it as

	edr = logical bytes / (size delta / replicas)

whenever both the logical volume and the size delta are positive.
*/
package experiment
