package storage_test

import (
	"context"
	"io"
	"testing"

	"github.com/oneconcern/deduplab/pkg/errors"
	"github.com/oneconcern/deduplab/pkg/storage"
	"github.com/oneconcern/deduplab/pkg/storage/localfs"
	"github.com/oneconcern/deduplab/pkg/storage/status"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var errBroken = errors.New("broken store")

// brokenStore fails on every write
type brokenStore struct {
	storage.Store
}

func (brokenStore) Put(context.Context, string, io.Reader, bool) error { return errBroken }
func (brokenStore) Delete(context.Context, string) error               { return errBroken }

func memStore() storage.Store {
	return localfs.New(afero.NewMemMapFs())
}

func TestMirror(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	primary, secondary := memStore(), memStore()
	assert.Equal(t, primary, storage.Mirror(primary, false))

	m := storage.Mirror(primary, false, secondary)
	assert.Contains(t, m.String(), "mirror(")

	require.NoError(t, storage.WriteAll(ctx, m, "ingest/a_U0.json", []byte(`{}`), storage.NoOverWrite))
	for _, s := range []storage.Store{primary, secondary} {
		b, err := storage.ReadAll(ctx, s, "ingest/a_U0.json")
		require.NoError(t, err)
		assert.Equal(t, `{}`, string(b))
	}

	err := storage.WriteAll(ctx, m, "ingest/a_U0.json", []byte(`{}`), storage.NoOverWrite)
	assert.True(t, errors.Is(err, status.ErrExists))

	keys, err := m.KeysPrefix(ctx, "ingest")
	require.NoError(t, err)
	assert.Equal(t, []string{"ingest/a_U0.json"}, keys)

	require.NoError(t, m.Delete(ctx, "ingest/a_U0.json"))
	has, err := secondary.Has(ctx, "ingest/a_U0.json")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMirrorFailures(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	primary := memStore()
	broken := brokenStore{Store: memStore()}

	tolerant := storage.Mirror(primary, true, broken)
	require.NoError(t, storage.WriteAll(ctx, tolerant, "k", []byte("v"), storage.OverWrite))
	has, err := tolerant.Has(ctx, "k")
	require.NoError(t, err)
	assert.True(t, has)

	strict := storage.Mirror(primary, false, broken, brokenStore{Store: memStore()})
	err = storage.WriteAll(ctx, strict, "k", []byte("v"), storage.OverWrite)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBroken))

	err = storage.MultiDelete(ctx, []storage.MultiStoreUnit{{Store: broken, TolerateFailure: true}}, "k")
	assert.NoError(t, err)
}

func TestChildren(t *testing.T) {
	ctx := context.Background()
	s := memStore()
	for _, key := range []string{"U0/text/1.dat", "U0/event/1.dat", "U90/text/1.dat", "ingest_summary.json"} {
		require.NoError(t, storage.WriteAll(ctx, s, key, []byte("x"), storage.NoOverWrite))
	}
	children, err := storage.Children(ctx, s, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"U0", "U90", "ingest_summary.json"}, children)

	children, err = storage.Children(ctx, s, "U0/")
	require.NoError(t, err)
	assert.Equal(t, []string{"event", "text"}, children)

	ok, err := storage.HasPrefix(ctx, s, "U90")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = storage.HasPrefix(ctx, s, "U50")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, "", storage.CleanPrefix("/"))
	assert.Equal(t, "a/b/", storage.CleanPrefix("a//b/"))
}
