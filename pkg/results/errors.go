package results

import "github.com/oneconcern/deduplab/pkg/errors"

var (
	// ErrLoadRecord is returned when a record file cannot be read or parsed
	ErrLoadRecord = errors.New("cannot load run result record")

	// ErrSummary is returned when a summary cannot be persisted or read back
	ErrSummary = errors.New("cannot persist stage summary")
)
