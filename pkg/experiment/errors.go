package experiment

import "github.com/oneconcern/deduplab/pkg/errors"

var (
	// ErrNoCorpus is returned when a runner is not configured with a corpus store
	ErrNoCorpus = errors.New("a corpus store is required")

	// ErrInvalidReplicas is returned when the replica count is not positive
	ErrInvalidReplicas = errors.New("replica count must be positive")

	// ErrUnknownStage is returned for stages other than ingest, per-record and delete
	ErrUnknownStage = errors.New("unknown experiment stage")

	// ErrEmptyCorpus is returned when a grade has no corpus entry to load
	ErrEmptyCorpus = errors.New("no corpus entry for grade")

	// ErrStage is returned when a stage could not complete
	ErrStage = errors.New("experiment stage failed")
)
