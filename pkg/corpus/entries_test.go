package corpus

import (
	"context"
	"testing"

	"github.com/oneconcern/deduplab/pkg/model"
	"github.com/oneconcern/deduplab/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntries(t *testing.T) {
	store := memStore()
	ctx := context.Background()
	b := testBuilder(t, store, 8)

	_, err := b.BuildAll(ctx, []model.Grade{model.GradeU50}, []model.PayloadType{model.PayloadText, model.PayloadEvent}, 12)
	require.NoError(t, err)
	require.NoError(t, storage.WriteAll(ctx, store, "U50/event/README", []byte("not an entry"), storage.NoOverWrite))

	entries, err := Entries(ctx, store, model.GradeU50)
	require.NoError(t, err)
	require.Len(t, entries, 24)

	// payload types in lexicographic order, then index order
	assert.Equal(t, model.PayloadEvent, entries[0].Type)
	assert.Equal(t, 0, entries[0].Index)
	assert.Equal(t, 11, entries[11].Index)
	assert.Equal(t, model.PayloadText, entries[12].Type)
	assert.Equal(t, 0, entries[12].Index)

	none, err := Entries(ctx, store, model.GradeU90)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestVerify(t *testing.T) {
	store := memStore()
	ctx := context.Background()

	_, err := testBuilder(t, store, 21).Build(ctx, Request{Type: model.PayloadJSONDocument, Grade: model.GradeU50, Files: 10})
	require.NoError(t, err)

	v, err := Verify(ctx, store, model.GradeU50, model.PayloadJSONDocument)
	require.NoError(t, err)
	assert.True(t, v.OK())
	assert.Len(t, v.Checksum, 128)

	// same content, same checksum
	again, err := Verify(ctx, store, model.GradeU50, model.PayloadJSONDocument)
	require.NoError(t, err)
	assert.Equal(t, v.Checksum, again.Checksum)

	entries, err := TypeEntries(ctx, store, model.GradeU50, model.PayloadJSONDocument)
	require.NoError(t, err)
	tampered := entries[3].Key
	require.NoError(t, storage.WriteAll(ctx, store, tampered, []byte("tampered"), storage.OverWrite))

	v, err = Verify(ctx, store, model.GradeU50, model.PayloadJSONDocument)
	require.NoError(t, err)
	assert.False(t, v.OK())
	assert.Equal(t, []string{tampered}, v.Mismatches)
	assert.NotEqual(t, again.Checksum, v.Checksum)
}
