// Copyright © 2018 One Concern

package storage

import (
	"bytes"
	"context"
	"io"
	"path"
	"sort"
	"strings"
)

const (
	// NoOverWrite makes Put fail if the key already exists
	NoOverWrite = true

	// OverWrite makes Put replace an existing key
	OverWrite = false
)

// Store implementations know how to write objects to a K/V model.
//
// Typically this is something file system-like. Examples are S3, local FS, NFS, ...
// Implementations of this interface are assumed to be fairly simple.
//
// Keys use forward slashes. Keys and KeysPrefix return keys in lexicographic order.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, source io.Reader, exclusive bool) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
	KeysPrefix(ctx context.Context, prefix string) ([]string, error)
}

// ReadAll fetches a whole object in memory
func ReadAll(ctx context.Context, store Store, key string) ([]byte, error) {
	reader, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// WriteAll puts a whole object from memory
func WriteAll(ctx context.Context, store Store, key string, data []byte, exclusive bool) error {
	return store.Put(ctx, key, bytes.NewReader(data), exclusive)
}

// HasPrefix tells if at least one key lives under the prefix, i.e. if the "directory" exists
func HasPrefix(ctx context.Context, store Store, prefix string) (bool, error) {
	keys, err := store.KeysPrefix(ctx, prefix)
	if err != nil {
		return false, err
	}
	return len(keys) > 0, nil
}

// Children lists the distinct immediate children of a prefix, in lexicographic order.
//
// For instance, with keys "a/b/1" and "a/c/2", Children("a") yields ["b", "c"].
func Children(ctx context.Context, store Store, prefix string) ([]string, error) {
	keys, err := store.KeysPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	base := CleanPrefix(prefix)
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, key := range keys {
		rel := strings.TrimPrefix(key, base)
		child := strings.SplitN(rel, "/", 2)[0]
		if _, ok := seen[child]; ok || child == "" {
			continue
		}
		seen[child] = struct{}{}
		out = append(out, child)
	}
	sort.Strings(out)
	return out, nil
}

// CleanPrefix normalizes a prefix to the form "a/b/", or "" for the root
func CleanPrefix(prefix string) string {
	p := strings.Trim(path.Clean("/"+prefix), "/")
	if p == "" {
		return ""
	}
	return p + "/"
}
