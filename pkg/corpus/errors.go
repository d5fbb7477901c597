package corpus

import "github.com/oneconcern/deduplab/pkg/errors"

var (
	// ErrInvalidFileCount is returned when requesting a negative number of files
	ErrInvalidFileCount = errors.New("file count must be positive or zero")

	// ErrNoStore is returned when a builder is not configured with a destination store
	ErrNoStore = errors.New("a destination store is required")

	// ErrWriteEntry is returned when a corpus entry could not be written
	ErrWriteEntry = errors.New("cannot write corpus entry")

	// ErrReadEntry is returned when a corpus entry could not be read back
	ErrReadEntry = errors.New("cannot read corpus entry")
)
