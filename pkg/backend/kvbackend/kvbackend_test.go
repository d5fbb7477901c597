package kvbackend

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/oneconcern/deduplab/pkg/backend"
	"github.com/oneconcern/deduplab/pkg/errors"
	"github.com/oneconcern/deduplab/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestLifecycle(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "kv")
	b, err := Open(dir, Name("badger-test"), Logger(zaptest.NewLogger(t)), ValueLogFileSize(1<<20))
	require.NoError(t, err)

	assert.Equal(t, "badger-test", b.Name())
	require.NoError(t, b.Setup(ctx))

	data := make([]byte, 4096)
	for i := 0; i < 10; i++ {
		obj := backend.Object{ID: fmt.Sprintf("id-%02d", i), Grade: model.GradeU50, Type: model.PayloadEvent, Data: data}
		require.NoError(t, b.Ingest(ctx, obj))
		require.NoError(t, b.Insert(ctx, obj))
	}

	ids, err := b.IDs(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 10)
	assert.Equal(t, "id-00", ids[0])
	assert.Equal(t, "id-09", ids[9])

	size, err := b.PhysicalSize(ctx)
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))

	for _, id := range ids {
		require.NoError(t, b.Delete(ctx, id))
	}
	err = b.Delete(ctx, "id-00")
	assert.True(t, errors.Is(err, backend.ErrNotFound))

	ids, err = b.IDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	out, err := b.Maintain(ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "flatten: ok")
	assert.Contains(t, out, "value log GC:")

	require.NoError(t, b.Insert(ctx, backend.Object{ID: "left", Data: data}))
	require.NoError(t, b.Reset(ctx))
	ids, err = b.IDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, b.Close())
	require.NoError(t, RemoveAll(dir))
	require.NoError(t, RemoveAll(dir))
}
