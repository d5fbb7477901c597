package backend

import (
	"context"

	"github.com/oneconcern/deduplab/pkg/errors"
	"github.com/oneconcern/deduplab/pkg/model"
)

// ErrNotFound is returned when deleting a record which does not exist
var ErrNotFound = errors.New("record not found")

// Object is a corpus entry, as stored in a backend
type Object struct {
	ID    string
	Grade model.Grade
	Type  model.PayloadType
	Data  []byte
}

// Backend is a storage system under measurement
type Backend interface {
	Name() string

	// Setup prepares the backend to receive objects. It is idempotent.
	Setup(context.Context) error

	// Reset drops all objects, leaving the backend ready to receive new ones
	Reset(context.Context) error

	// Ingest adds an object to the bulk data set
	Ingest(context.Context, Object) error

	// Insert adds an object as an individual record
	Insert(context.Context, Object) error

	// IDs lists the individual records, in lexicographic order
	IDs(context.Context) ([]string, error)

	// Delete removes an individual record
	Delete(ctx context.Context, id string) error

	// Maintain reclaims space after deletions. It returns a human readable account of the operations.
	Maintain(context.Context) (string, error)

	// PhysicalSize is the disk space allocated to the backend, in bytes
	PhysicalSize(context.Context) (int64, error)

	Close() error
}

// Executor is the boundary to a SQL engine: it runs a statement and renders its
// result as text, one row per line with columns separated by "|".
type Executor interface {
	Exec(ctx context.Context, statement string, args ...interface{}) (string, error)
}
