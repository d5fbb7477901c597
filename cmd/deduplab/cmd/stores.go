package cmd

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/oneconcern/deduplab/pkg/backend"
	"github.com/oneconcern/deduplab/pkg/backend/kvbackend"
	"github.com/oneconcern/deduplab/pkg/backend/sqlbackend"
	"github.com/oneconcern/deduplab/pkg/storage"
	"github.com/oneconcern/deduplab/pkg/storage/gcs"
	"github.com/oneconcern/deduplab/pkg/storage/localfs"
	"github.com/oneconcern/deduplab/pkg/storage/sthree"
	"github.com/spf13/afero"
)

const (
	s3Scheme  = "s3://"
	gcsScheme = "gs://"

	defaultSQLiteDatabase = "deduplab.db"
	defaultKVDatabase     = "deduplab.kv"
)

// openStore resolves a location: a local directory, created if needed, s3://{bucket}/{prefix} or gs://{bucket}/{prefix}
func openStore(ctx context.Context, location string) (storage.Store, error) {
	if location == "" {
		return nil, fmt.Errorf("a storage location is required")
	}
	if !strings.HasPrefix(location, s3Scheme) && !strings.HasPrefix(location, gcsScheme) {
		if err := afero.NewOsFs().MkdirAll(location, 0700); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", location, err)
		}
		return localfs.NewAt(location), nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", location, err)
	}
	prefix := strings.TrimPrefix(u.Path, "/")
	if strings.HasPrefix(location, gcsScheme) {
		return gcs.New(ctx, u.Host, deduplabFlags.gcs.credentials, gcs.Prefix(prefix), gcs.Logger(logger))
	}

	cfg := aws.NewConfig()
	if deduplabFlags.s3.region != "" {
		cfg = cfg.WithRegion(deduplabFlags.s3.region)
	}
	opts := []sthree.Option{sthree.AWSConfig(cfg), sthree.Prefix(prefix)}
	if deduplabFlags.s3.endpoint != "" {
		opts = append(opts, sthree.Endpoint(deduplabFlags.s3.endpoint))
	}
	return sthree.New(sthree.Bucket(u.Host), opts...)
}

// openResults opens the results root, duplicating writes to mirror locations if any
func openResults(ctx context.Context) (storage.Store, error) {
	primary, err := openStore(ctx, deduplabFlags.results.root)
	if err != nil {
		return nil, err
	}
	mirrors := make([]storage.Store, 0, len(deduplabFlags.results.mirrors))
	for _, location := range deduplabFlags.results.mirrors {
		m, err := openStore(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("mirror %s: %w", location, err)
		}
		mirrors = append(mirrors, m)
	}
	return storage.Mirror(primary, deduplabFlags.results.tolerateMirrors, mirrors...), nil
}

// openBackend opens the backend under measurement, as specified by flags
func openBackend(ctx context.Context) (backend.Backend, error) {
	params := deduplabFlags.backend
	switch params.driver {
	case sqlbackend.DriverCGO, sqlbackend.DriverPureGo:
		database := params.database
		if database == "" {
			database = defaultSQLiteDatabase
		}
		b, err := sqlbackend.Open(ctx, params.driver, database,
			sqlbackend.Name(params.name),
			sqlbackend.Logger(logger),
		)
		if err != nil {
			return nil, err
		}
		return b, nil
	case kvbackend.DefaultName:
		database := params.database
		if database == "" {
			database = defaultKVDatabase
		}
		b, err := kvbackend.Open(database,
			kvbackend.Name(params.name),
			kvbackend.Logger(logger),
		)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q: expect one of %s, %s or %s",
			params.driver, sqlbackend.DriverCGO, sqlbackend.DriverPureGo, kvbackend.DefaultName)
	}
}
