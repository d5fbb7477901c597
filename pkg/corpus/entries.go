package corpus

import (
	"context"
	"path"

	"github.com/oneconcern/deduplab/pkg/model"
	"github.com/oneconcern/deduplab/pkg/storage"
)

// Entry locates a corpus entry in a store
type Entry struct {
	model.EntryPathComponents
	Key string
}

// Entries lists the entries of all corpora of a grade: payload types in lexicographic order,
// then entries in index order. Keys which do not look like corpus entries are ignored.
func Entries(ctx context.Context, store storage.Store, grade model.Grade) ([]Entry, error) {
	types, err := storage.Children(ctx, store, string(grade))
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0)
	for _, typ := range types {
		entries, err := TypeEntries(ctx, store, grade, model.PayloadType(typ))
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

// TypeEntries lists the entries of one corpus, in index order
func TypeEntries(ctx context.Context, store storage.Store, grade model.Grade, typ model.PayloadType) ([]Entry, error) {
	keys, err := store.KeysPrefix(ctx, model.GetCorpusDir(grade, typ))
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(keys))
	for _, key := range keys {
		if !model.IsEntryName(path.Base(key)) {
			continue
		}
		components, err := model.GetEntryPathComponents(key)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{EntryPathComponents: components, Key: key})
	}
	return out, nil
}
