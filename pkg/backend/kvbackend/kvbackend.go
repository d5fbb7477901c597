// Package kvbackend measures a Badger key-value store.
//
// Bulk objects live under keys "bulk/{grade}/{payload type}/{id}", individual
// records under "files/{id}".
package kvbackend

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/oneconcern/deduplab/pkg/backend"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	bulkPrefix  = "bulk/"
	filesPrefix = "files/"

	// DefaultName names the backend in results
	DefaultName = "badger"

	defaultDiscardRatio = 0.5
	defaultFlatteners   = 2
)

var _ backend.Backend = &Backend{}

// Backend is a Badger database directory
type Backend struct {
	name         string
	path         string
	db           *badger.DB
	fs           afero.Fs
	l            *zap.Logger
	vlogFileSize int64
}

// Option configures a Badger backend
type Option func(*Backend)

// Name the backend in results
func Name(name string) Option {
	return func(b *Backend) {
		if name != "" {
			b.name = name
		}
	}
}

// Logger sets the logger. Badger logs warnings and errors through it.
func Logger(l *zap.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.l = l
		}
	}
}

// ValueLogFileSize sets the maximum size of value log files
func ValueLogFileSize(size int64) Option {
	return func(b *Backend) {
		if size > 0 {
			b.vlogFileSize = size
		}
	}
}

// Open a Badger database in some directory, creating it if needed
func Open(path string, opts ...Option) (*Backend, error) {
	b := &Backend{
		name:         DefaultName,
		path:         path,
		fs:           afero.NewOsFs(),
		l:            zap.NewNop(),
		vlogFileSize: 64 << 20,
	}
	for _, apply := range opts {
		apply(b)
	}

	if err := b.fs.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create database directory %s: %w", path, err)
	}
	db, err := badger.Open(
		badger.DefaultOptions(path).
			WithLogger(&badgerLogger{l: b.l.Sugar()}).
			WithLoggingLevel(badger.WARNING).
			WithValueLogFileSize(b.vlogFileSize),
	)
	if err != nil {
		return nil, fmt.Errorf("open KV: %w", err)
	}
	b.db = db
	return b, nil
}

func (b *Backend) Name() string {
	return b.name
}

// Setup has nothing to prepare: keyspaces are implicit
func (b *Backend) Setup(_ context.Context) error {
	return nil
}

func (b *Backend) Reset(_ context.Context) error {
	if err := b.db.DropAll(); err != nil {
		return fmt.Errorf("drop all: %w", err)
	}
	return nil
}

func (b *Backend) Ingest(_ context.Context, obj backend.Object) error {
	key := bulkPrefix + string(obj.Grade) + "/" + string(obj.Type) + "/" + obj.ID
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), obj.Data)
	})
}

func (b *Backend) Insert(_ context.Context, obj backend.Object) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(filesPrefix+obj.ID), obj.Data)
	})
}

func (b *Backend) IDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(filesPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), filesPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (b *Backend) Delete(_ context.Context, id string) error {
	key := []byte(filesPrefix + id)
	return b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if err == badger.ErrKeyNotFound {
				return backend.ErrNotFound.Wrapf("%q", id)
			}
			return err
		}
		return txn.Delete(key)
	})
}

// Maintain compacts the LSM tree then garbage collects the value log until
// there is nothing left to rewrite.
func (b *Backend) Maintain(ctx context.Context) (string, error) {
	var report strings.Builder
	if err := b.db.Flatten(defaultFlatteners); err != nil {
		return "", fmt.Errorf("flatten: %w", err)
	}
	fmt.Fprintln(&report, "flatten: ok")

	rewrites := 0
	for {
		if err := ctx.Err(); err != nil {
			return report.String(), err
		}
		err := b.db.RunValueLogGC(defaultDiscardRatio)
		if err == badger.ErrNoRewrite || err == badger.ErrRejected {
			break
		}
		if err != nil {
			return report.String(), fmt.Errorf("value log GC: %w", err)
		}
		rewrites++
	}
	fmt.Fprintf(&report, "value log GC: %d rewrites\n", rewrites)

	if err := b.db.Sync(); err != nil {
		return report.String(), err
	}
	fmt.Fprintln(&report, "sync: ok")
	return report.String(), nil
}

// PhysicalSize is the disk usage of the database directory
func (b *Backend) PhysicalSize(_ context.Context) (int64, error) {
	return backend.DiskUsage(b.fs, b.path)
}

func (b *Backend) Close() error {
	return b.db.Close()
}

// badgerLogger routes badger logs to zap
type badgerLogger struct {
	l *zap.SugaredLogger
}

func (bl *badgerLogger) Errorf(format string, args ...interface{}) {
	bl.l.Errorf(strings.TrimSpace(format), args...)
}

func (bl *badgerLogger) Warningf(format string, args ...interface{}) {
	bl.l.Warnf(strings.TrimSpace(format), args...)
}

func (bl *badgerLogger) Infof(format string, args ...interface{}) {
	bl.l.Infof(strings.TrimSpace(format), args...)
}

func (bl *badgerLogger) Debugf(format string, args ...interface{}) {
	bl.l.Debugf(strings.TrimSpace(format), args...)
}

// RemoveAll drops the database directory. The backend must be closed first.
func RemoveAll(path string) error {
	return afero.NewOsFs().RemoveAll(path)
}
