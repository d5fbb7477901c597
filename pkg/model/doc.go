// Package model describes the base objects manipulated by deduplab.
//
// The object model is composed of:
//
//  Payload types:
//    The semantic kind of a generated payload: text, json-document, identifier-list,
//    event or financial-transaction.
//
//  Grades:
//    A duplication grade (U0, U50, U90, ...) maps to the probability that a generated
//    file is a byte-identical copy of an earlier file of the same corpus.
//
//  Corpus entries:
//    Files laid out as {grade}/{payload type}/{index}_{fingerprint}.dat.
//
//  Records:
//    One measurement outcome for a (system, stage, grade) execution. Fields other
//    than the well-known ones are carried along untouched.
//
//  Summaries:
//    All records of a stage, folded by system then grade.
package model
