package report

import "github.com/oneconcern/deduplab/pkg/errors"

var (
	// ErrReadSummary is returned when an existing stage summary cannot be read
	ErrReadSummary = errors.New("cannot read stage summary")

	// ErrWriteArtifact is returned when a report artifact cannot be written
	ErrWriteArtifact = errors.New("cannot write report artifact")
)
