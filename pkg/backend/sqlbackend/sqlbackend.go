// Package sqlbackend measures SQLite databases.
//
// Two drivers are supported: "sqlite3" (github.com/mattn/go-sqlite3, requires cgo)
// and "sqlite" (modernc.org/sqlite, pure go).
package sqlbackend

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/oneconcern/deduplab/pkg/backend"
	"github.com/oneconcern/deduplab/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	_ "github.com/mattn/go-sqlite3" // registers driver "sqlite3"
	_ "modernc.org/sqlite"          // registers driver "sqlite"
)

const (
	// DriverCGO is the mattn/go-sqlite3 driver
	DriverCGO = "sqlite3"

	// DriverPureGo is the modernc.org/sqlite driver
	DriverPureGo = "sqlite"

	defaultMime = "application/octet-stream"
)

var (
	// ErrUnsupportedDriver is returned for drivers other than DriverCGO and DriverPureGo
	ErrUnsupportedDriver = errors.New("unsupported SQL driver")

	_ backend.Backend  = &Backend{}
	_ backend.Executor = &Backend{}
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS bulk_data (
		id TEXT PRIMARY KEY,
		timestamp TEXT DEFAULT CURRENT_TIMESTAMP,
		payload_type TEXT NOT NULL,
		dup_grade TEXT NOT NULL,
		data_text TEXT,
		data_json TEXT,
		data_bytes BLOB
	)`,
	`CREATE TABLE IF NOT EXISTS files (
		id TEXT PRIMARY KEY,
		mime TEXT,
		size_bytes INTEGER,
		sha256 BLOB,
		payload BLOB
	)`,
}

// Backend is a SQLite database file
type Backend struct {
	name   string
	driver string
	path   string
	db     *sql.DB
	fs     afero.Fs
	l      *zap.Logger
}

// Option configures a SQLite backend
type Option func(*Backend)

// Name the backend in results. Defaults to the driver name.
func Name(name string) Option {
	return func(b *Backend) {
		if name != "" {
			b.name = name
		}
	}
}

// Logger sets the logger
func Logger(l *zap.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.l = l
		}
	}
}

// Open a database file with some driver. The database uses write-ahead logging.
func Open(ctx context.Context, driver, path string, opts ...Option) (*Backend, error) {
	switch driver {
	case DriverCGO, DriverPureGo:
	default:
		return nil, ErrUnsupportedDriver.Wrapf("%q", driver)
	}

	b := &Backend{
		name:   driver,
		driver: driver,
		path:   path,
		fs:     afero.NewOsFs(),
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(b)
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, err
	}
	// a single connection: statements run sequentially, and VACUUM needs no other open transaction
	db.SetMaxOpenConns(1)
	b.db = db

	if _, err = b.Exec(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

func (b *Backend) Name() string {
	return b.name
}

// Exec runs a statement. Rows returned by queries are rendered one per line, with
// columns separated by "|". Other statements render the number of affected rows.
func (b *Backend) Exec(ctx context.Context, statement string, args ...interface{}) (string, error) {
	if returnsRows(statement) {
		return b.query(ctx, statement, args...)
	}
	res, err := b.db.ExecContext(ctx, statement, args...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", firstLine(statement), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return "", nil
	}
	return strconv.FormatInt(affected, 10), nil
}

func (b *Backend) query(ctx context.Context, statement string, args ...interface{}) (string, error) {
	rows, err := b.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", firstLine(statement), err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", err
	}
	var lines []string
	values := make([]sql.NullString, len(cols))
	dest := make([]interface{}, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err = rows.Scan(dest...); err != nil {
			return "", err
		}
		fields := make([]string, len(values))
		for i, v := range values {
			fields[i] = v.String
		}
		lines = append(lines, strings.Join(fields, "|"))
	}
	if err = rows.Err(); err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func returnsRows(statement string) bool {
	s := strings.ToUpper(strings.TrimSpace(statement))
	return strings.HasPrefix(s, "SELECT") ||
		strings.HasPrefix(s, "WITH") ||
		(strings.HasPrefix(s, "PRAGMA") && !strings.Contains(s, "="))
}

func firstLine(statement string) string {
	s := strings.TrimSpace(statement)
	if i := strings.IndexByte(s, '\n'); i > 0 {
		return s[:i]
	}
	return s
}

func (b *Backend) Setup(ctx context.Context) error {
	for _, statement := range schema {
		if _, err := b.Exec(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}

// Reset drops all tables and gives the freed pages back to the file system
func (b *Backend) Reset(ctx context.Context) error {
	for _, table := range []string{"bulk_data", "files"} {
		if _, err := b.Exec(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return err
		}
	}
	if _, err := b.maintenance(ctx, "VACUUM"); err != nil {
		return err
	}
	return b.Setup(ctx)
}

func (b *Backend) Ingest(ctx context.Context, obj backend.Object) error {
	_, err := b.Exec(ctx,
		`INSERT INTO bulk_data (id, payload_type, dup_grade, data_bytes) VALUES (?, ?, ?, ?)`,
		obj.ID, string(obj.Type), string(obj.Grade), obj.Data,
	)
	return err
}

func (b *Backend) Insert(ctx context.Context, obj backend.Object) error {
	sum := sha256.Sum256(obj.Data)
	_, err := b.Exec(ctx,
		`INSERT INTO files (id, mime, size_bytes, sha256, payload) VALUES (?, ?, ?, ?, ?)`,
		obj.ID, defaultMime, len(obj.Data), sum[:], obj.Data,
	)
	return err
}

func (b *Backend) IDs(ctx context.Context) ([]string, error) {
	out, err := b.Exec(ctx, `SELECT id FROM files ORDER BY id`)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return []string{}, nil
	}
	return strings.Split(out, "\n"), nil
}

func (b *Backend) Delete(ctx context.Context, id string) error {
	affected, err := b.Exec(ctx, `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if affected == "0" {
		return backend.ErrNotFound.Wrapf("%q", id)
	}
	return nil
}

// Maintain rebuilds the database file, its indices, and truncates the write-ahead log
func (b *Backend) Maintain(ctx context.Context) (string, error) {
	var report strings.Builder
	before, err := b.pages(ctx)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&report, "before: %s\n", before)

	for _, statement := range []string{"VACUUM", "REINDEX", "PRAGMA wal_checkpoint(TRUNCATE)"} {
		b.l.Debug("maintenance", zap.String("backend", b.name), zap.String("statement", statement))
		out, err := b.maintenance(ctx, statement)
		if err != nil {
			return report.String(), err
		}
		fmt.Fprintf(&report, "%s: %s\n", statement, out)
	}

	after, err := b.pages(ctx)
	if err != nil {
		return report.String(), err
	}
	fmt.Fprintf(&report, "after: %s\n", after)
	return report.String(), nil
}

func (b *Backend) maintenance(ctx context.Context, statement string) (string, error) {
	if strings.HasPrefix(statement, "PRAGMA") {
		// the checkpoint pragma reports busy|log|checkpointed
		return b.query(ctx, statement)
	}
	_, err := b.db.ExecContext(ctx, statement)
	if err != nil {
		return "", fmt.Errorf("%s: %w", statement, err)
	}
	return "ok", nil
}

func (b *Backend) pages(ctx context.Context) (string, error) {
	count, err := b.Exec(ctx, "PRAGMA page_count")
	if err != nil {
		return "", err
	}
	free, err := b.Exec(ctx, "PRAGMA freelist_count")
	if err != nil {
		return "", err
	}
	return "page_count=" + count + ", freelist_count=" + free, nil
}

// PhysicalSize is the disk usage of the database file and its write-ahead log
func (b *Backend) PhysicalSize(_ context.Context) (int64, error) {
	return backend.DiskUsage(b.fs, b.path, b.path+"-wal", b.path+"-shm")
}

func (b *Backend) Close() error {
	return b.db.Close()
}
