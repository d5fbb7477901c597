/*
Package backend defines the storage systems measured by experiments.

A Backend stores corpus entries two ways: in bulk (the ingest stage) and as
individual records (the per-record stage), which may later be deleted one by one
and reclaimed with maintenance (the delete stage).

Backends report their physical size as the disk space actually allocated to their
files, so that preallocated or sparse files are not overestimated.

Implementations:

	sqlbackend  SQLite, through either the mattn/go-sqlite3 (cgo) or the modernc.org/sqlite driver
	kvbackend   Badger key-value store
*/
package backend
