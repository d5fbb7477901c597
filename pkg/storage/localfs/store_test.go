// Copyright © 2018 One Concern

package localfs

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"testing"

	"github.com/oneconcern/deduplab/pkg/errors"
	"github.com/oneconcern/deduplab/pkg/storage"
	"github.com/oneconcern/deduplab/pkg/storage/status"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHas(t *testing.T) {
	bs := setupStore(t)

	has, err := bs.Has(context.Background(), "sixteentons")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(context.Background(), "heavy/seventeentons")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(context.Background(), "fifteentons")
	require.NoError(t, err)
	require.False(t, has)

	// directories are not objects
	has, err = bs.Has(context.Background(), "heavy")
	require.NoError(t, err)
	require.False(t, has)
}

func TestGet(t *testing.T) {
	bs := setupStore(t)

	rdr, err := bs.Get(context.Background(), "sixteentons")
	require.NoError(t, err)
	b, err := io.ReadAll(rdr)
	require.NoError(t, err)
	require.NoError(t, rdr.Close())
	assert.Equal(t, "this is the text", string(b))

	b, err = storage.ReadAll(context.Background(), bs, "/heavy/seventeentons")
	require.NoError(t, err)
	assert.Equal(t, "this is the text for another thing", string(b))

	_, err = bs.Get(context.Background(), "fifteentons")
	assert.True(t, errors.Is(err, status.ErrNotExists))
}

func TestKeys(t *testing.T) {
	bs := setupStore(t)

	keys, err := bs.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"heavy/seventeentons", "sixteentons"}, keys)
}

func TestDelete(t *testing.T) {
	bs := setupStore(t)

	require.NoError(t, bs.Delete(context.Background(), "heavy/seventeentons"))
	require.NoError(t, bs.Delete(context.Background(), "never-there"))
	k, _ := bs.Keys(context.Background())
	assert.Len(t, k, 1)
}

func TestPut(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	content := bytes.NewBufferString("here we go once again")
	err := bs.Put(ctx, "deep/down/eighteentons", content, storage.NoOverWrite)
	require.NoError(t, err)

	b, err := storage.ReadAll(ctx, bs, "deep/down/eighteentons")
	require.NoError(t, err)
	assert.Equal(t, "here we go once again", string(b))

	k, _ := bs.Keys(ctx)
	assert.Len(t, k, 3)

	// exclusive puts never rewrite
	err = storage.WriteAll(ctx, bs, "deep/down/eighteentons", []byte("overwritten"), storage.NoOverWrite)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrExists))
	b, _ = storage.ReadAll(ctx, bs, "deep/down/eighteentons")
	assert.Equal(t, "here we go once again", string(b))

	// overwrite truncates
	require.NoError(t, storage.WriteAll(ctx, bs, "deep/down/eighteentons", []byte("short"), storage.OverWrite))
	b, _ = storage.ReadAll(ctx, bs, "deep/down/eighteentons")
	assert.Equal(t, "short", string(b))
}

func TestPutCanceled(t *testing.T) {
	bs := setupStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := storage.WriteAll(ctx, bs, "late", []byte("x"), storage.NoOverWrite)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInvalidKey(t *testing.T) {
	bs := setupStore(t)
	_, err := bs.Has(context.Background(), "/")
	assert.True(t, errors.Is(err, status.ErrInvalidKey))
}

func TestKeysPrefix(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := New(fs)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, storage.WriteAll(ctx, store, "a/b/c/e"+strconv.Itoa(i), []byte("x"), storage.NoOverWrite))
		require.NoError(t, storage.WriteAll(ctx, store, "a/d/f"+strconv.Itoa(i), []byte("x"), storage.NoOverWrite))
	}

	keys, err := store.KeysPrefix(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, keys, 20)
	assert.Equal(t, "a/b/c/e0", keys[0])

	keys, err = store.KeysPrefix(ctx, "/a/d/")
	require.NoError(t, err)
	assert.Len(t, keys, 10)

	keys, err = store.KeysPrefix(ctx, "a/d/f3")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/d/f3"}, keys)

	keys, err = store.KeysPrefix(ctx, "z")
	require.NoError(t, err)
	assert.Empty(t, keys)

	has, err := storage.HasPrefix(ctx, store, "a/b")
	require.NoError(t, err)
	assert.True(t, has)
	has, err = storage.HasPrefix(ctx, store, "a/x")
	require.NoError(t, err)
	assert.False(t, has)

	children, err := storage.Children(ctx, store, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d"}, children)
}

func TestString(t *testing.T) {
	assert.Equal(t, "localfs", New(afero.NewMemMapFs()).String())
	assert.Contains(t, NewAt(t.TempDir()).String(), "localfs@")
}

func setupStore(t testing.TB) storage.Store {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "sixteentons", []byte("this is the text"), 0600))
	require.NoError(t, fs.MkdirAll("heavy", 0700))
	require.NoError(t, afero.WriteFile(fs, "heavy/seventeentons", []byte("this is the text for another thing"), 0600))

	return New(fs)
}
