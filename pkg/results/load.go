package results

import (
	"context"
	"path"
	"strings"

	"github.com/oneconcern/deduplab/pkg/model"
	"github.com/oneconcern/deduplab/pkg/storage"
)

// Loaded is a record together with the key it was read from
type Loaded struct {
	Key    string
	Record model.Record
}

// Load reads all record files found directly under dir, in lexicographic key order.
//
// Nested directories and stage summaries are ignored. A file which does not parse as a
// JSON object fails the whole load.
func Load(ctx context.Context, store storage.Store, dir string) ([]Loaded, error) {
	keys, err := store.KeysPrefix(ctx, dir)
	if err != nil {
		return nil, err
	}
	base := storage.CleanPrefix(dir)

	out := make([]Loaded, 0, len(keys))
	for _, key := range keys {
		rel := strings.TrimPrefix(key, base)
		if strings.Contains(rel, "/") || !model.IsRecordFile(rel) {
			continue
		}
		data, err := storage.ReadAll(ctx, store, key)
		if err != nil {
			return nil, ErrLoadRecord.Wrapf("%s: %w", key, err)
		}
		record, err := model.DecodeRecord(data)
		if err != nil {
			return nil, ErrLoadRecord.Wrapf("%s: %w", path.Base(key), err)
		}
		out = append(out, Loaded{Key: key, Record: record})
	}
	return out, nil
}

// Records strips keys from loaded records
func Records(loaded []Loaded) []model.Record {
	out := make([]model.Record, 0, len(loaded))
	for _, l := range loaded {
		out = append(out, l.Record)
	}
	return out
}
