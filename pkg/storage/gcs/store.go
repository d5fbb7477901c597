// Copyright © 2018 One Concern

// Package gcs implements a storage.Store on top of Google Cloud Storage.
package gcs

import (
	"context"
	"io"
	"path"
	"sort"
	"strings"

	gcsStorage "cloud.google.com/go/storage"
	"github.com/oneconcern/deduplab/pkg/storage"
	"github.com/oneconcern/deduplab/pkg/storage/status"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type gcs struct {
	client         *gcsStorage.Client
	readOnlyClient *gcsStorage.Client
	bucket         string
	prefix         string
	l              *zap.Logger
}

// New builds a store on some GCS bucket.
//
// Credentials are resolved from credentialFile, or from the environment (GOOGLE_APPLICATION_CREDENTIALS)
// when it is empty.
func New(ctx context.Context, bucket string, credentialFile string, opts ...Option) (storage.Store, error) {
	if bucket == "" {
		return nil, status.ErrInvalidResource.Wrapf("a GCS bucket is required")
	}
	googleStore := &gcs{
		bucket: bucket,
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(googleStore)
	}

	readOnly := []option.ClientOption{option.WithScopes(gcsStorage.ScopeReadOnly)}
	full := []option.ClientOption{option.WithScopes(gcsStorage.ScopeFullControl)}
	if credentialFile != "" {
		readOnly = append(readOnly, option.WithCredentialsFile(credentialFile))
		full = append(full, option.WithCredentialsFile(credentialFile))
	}

	var err error
	googleStore.readOnlyClient, err = gcsStorage.NewClient(ctx, readOnly...)
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	googleStore.client, err = gcsStorage.NewClient(ctx, full...)
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	return googleStore, nil
}

func (g *gcs) objectName(key string) string {
	return g.prefix + strings.TrimPrefix(path.Clean("/"+key), "/")
}

func (g *gcs) String() string {
	if g.prefix == "" {
		return "gcs@" + g.bucket
	}
	return "gcs@" + g.bucket + "/" + strings.TrimSuffix(g.prefix, "/")
}

func (g *gcs) Has(ctx context.Context, key string) (bool, error) {
	_, err := g.readOnlyClient.Bucket(g.bucket).Object(g.objectName(key)).Attrs(ctx)
	if err != nil {
		if err = filterErrNotExists(toSentinelErrors(err)); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func (g *gcs) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	g.l.Debug("get", zap.String("key", key))
	objectReader, err := g.readOnlyClient.Bucket(g.bucket).Object(g.objectName(key)).NewReader(ctx)
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	return objectReader, nil
}

// Put uploads an object. Exclusive puts are conditioned on the absence of the object.
func (g *gcs) Put(ctx context.Context, key string, reader io.Reader, exclusive bool) error {
	g.l.Debug("put", zap.String("key", key), zap.Bool("exclusive", exclusive))
	object := g.client.Bucket(g.bucket).Object(g.objectName(key))
	if exclusive {
		object = object.If(gcsStorage.Conditions{DoesNotExist: true})
	}
	writer := object.NewWriter(ctx)
	if _, err := io.Copy(writer, reader); err != nil {
		_ = writer.Close()
		return toSentinelErrors(err)
	}
	return toSentinelErrors(writer.Close())
}

func (g *gcs) Delete(ctx context.Context, key string) error {
	g.l.Debug("delete", zap.String("key", key))
	err := g.client.Bucket(g.bucket).Object(g.objectName(key)).Delete(ctx)
	return filterErrNotExists(toSentinelErrors(err))
}

func (g *gcs) Keys(ctx context.Context) ([]string, error) {
	return g.KeysPrefix(ctx, "")
}

func (g *gcs) KeysPrefix(ctx context.Context, prefix string) ([]string, error) {
	itr := g.readOnlyClient.Bucket(g.bucket).Objects(ctx, &gcsStorage.Query{Prefix: g.prefix + storage.CleanPrefix(prefix)})
	keys := make([]string, 0)
	for {
		objAttrs, err := itr.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, toSentinelErrors(err)
		}
		key := strings.TrimPrefix(objAttrs.Name, g.prefix)
		if key != "" && !strings.HasSuffix(key, "/") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
