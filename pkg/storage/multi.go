// Copyright © 2018 One Concern

package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"go.uber.org/multierr"
)

// MultiStoreUnit is used to specify multiple operations, some of which are tolerated to fail
type MultiStoreUnit struct {
	// Store is the backend to be accessed
	Store Store

	// TolerateFailure to false breaks multi-store operations whenever an error is encountered.
	TolerateFailure bool
}

// MultiPut duplicates write operations to an array of stores, under the same key
func MultiPut(ctx context.Context, stores []MultiStoreUnit, key string, buffer []byte, exclusive bool) error {
	return multiDo(stores, func(s Store) error {
		return s.Put(ctx, key, bytes.NewReader(buffer), exclusive)
	})
}

// MultiDelete duplicates delete operations to an array of stores
func MultiDelete(ctx context.Context, stores []MultiStoreUnit, key string) error {
	return multiDo(stores, func(s Store) error {
		return s.Delete(ctx, key)
	})
}

func multiDo(stores []MultiStoreUnit, do func(Store) error) error {
	errC := make(chan error, len(stores))
	var wg sync.WaitGroup

	for _, w := range stores {
		wg.Add(1)
		go func(w MultiStoreUnit) {
			defer wg.Done()
			if err := do(w.Store); err != nil && !w.TolerateFailure {
				errC <- err
			}
		}(w)
	}
	wg.Wait()
	close(errC)

	var merr error
	for err := range errC {
		merr = multierr.Append(merr, err)
	}
	return merr
}

// Mirror builds a store which reads from primary and duplicates writes to all mirrors.
//
// Writes to a mirror may fail without failing the operation when tolerateFailure is true.
func Mirror(primary Store, tolerateFailure bool, mirrors ...Store) Store {
	if len(mirrors) == 0 {
		return primary
	}
	units := make([]MultiStoreUnit, 0, len(mirrors)+1)
	units = append(units, MultiStoreUnit{Store: primary})
	for _, m := range mirrors {
		units = append(units, MultiStoreUnit{Store: m, TolerateFailure: tolerateFailure})
	}
	return &mirror{units: units}
}

type mirror struct {
	units []MultiStoreUnit
}

func (m *mirror) primary() Store {
	return m.units[0].Store
}

func (m *mirror) String() string {
	names := make([]string, 0, len(m.units))
	for _, u := range m.units {
		names = append(names, u.Store.String())
	}
	return "mirror(" + strings.Join(names, ",") + ")"
}

func (m *mirror) Has(ctx context.Context, key string) (bool, error) {
	return m.primary().Has(ctx, key)
}

func (m *mirror) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return m.primary().Get(ctx, key)
}

func (m *mirror) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	buffer, err := io.ReadAll(source)
	if err != nil {
		return err
	}
	return MultiPut(ctx, m.units, key, buffer, exclusive)
}

func (m *mirror) Delete(ctx context.Context, key string) error {
	return MultiDelete(ctx, m.units, key)
}

func (m *mirror) Keys(ctx context.Context) ([]string, error) {
	return m.primary().Keys(ctx)
}

func (m *mirror) KeysPrefix(ctx context.Context, prefix string) ([]string, error) {
	return m.primary().KeysPrefix(ctx, prefix)
}
