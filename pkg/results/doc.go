// Package results folds run result records into stage summaries.
//
// Records are loaded from a results directory, filtered by stage, then folded by
// system and duplication grade. When two records share a (system, grade) pair, the
// last one in file name order wins.
package results
