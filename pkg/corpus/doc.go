/*
Package corpus materializes synthetic corpora with a controlled duplication ratio.

A corpus is generated for a (duplication grade, payload type) pair, under
{grade}/{payload type}/ in some storage.Store. Each entry is named after its
sequence index and the short fingerprint of its content:

	U90/event/000000_4f0c7c2d7b3a9e11.dat
	U90/event/000001_4f0c7c2d7b3a9e11.dat
	U90/event/000002_a8e02d1c6b7f3390.dat

Entries with the same fingerprint are byte-identical copies. Names sort like
generation order.

With a duplication ratio p, every entry after the first one is a copy of some
previously generated unique payload with probability p. The realized ratio
converges to p for large corpora, but is not exact for small ones.
*/
package corpus
