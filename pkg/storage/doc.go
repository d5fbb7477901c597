// Copyright © 2018 One Concern

// Package storage provides interface to handle backend storage objects.
//
// Corpora, run result records, stage summaries and reports all live in a Store.
//
// This package supports the following backends:
//   - local file system (any afero.Fs)
//   - S3 (AWS, MinIO)
package storage
