package corpus

import (
	"bytes"
	"context"
	"encoding/hex"

	"github.com/oneconcern/deduplab/pkg/fingerprint"
	"github.com/oneconcern/deduplab/pkg/model"
	"github.com/oneconcern/deduplab/pkg/storage"
)

// Verification reports on an existing corpus
type Verification struct {
	Grade      model.Grade       `json:"grade" yaml:"grade"`
	Type       model.PayloadType `json:"type" yaml:"type"`
	Files      int               `json:"files" yaml:"files"`
	Distinct   int               `json:"distinct" yaml:"distinct"`
	Duplicates int               `json:"duplicates" yaml:"duplicates"`
	Bytes      int64             `json:"bytes" yaml:"bytes"`

	// Mismatches lists the keys of entries whose content does not match their name
	Mismatches []string `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`

	// Checksum is the tree checksum of all entries, concatenated in index order
	Checksum string `json:"checksum" yaml:"checksum"`
}

// DuplicateFraction is the fraction of entries which copy an earlier entry
func (v Verification) DuplicateFraction() float64 {
	if v.Files == 0 {
		return 0
	}
	return float64(v.Duplicates) / float64(v.Files)
}

// OK tells if all entries match their fingerprint
func (v Verification) OK() bool {
	return len(v.Mismatches) == 0
}

// Verify reads back a corpus, checks each entry against the fingerprint in its name
// and recounts duplicates from content.
func Verify(ctx context.Context, store storage.Store, grade model.Grade, typ model.PayloadType) (Verification, error) {
	v := Verification{Grade: grade, Type: typ}
	entries, err := TypeEntries(ctx, store, grade, typ)
	if err != nil {
		return v, err
	}

	seen := make(map[string]struct{}, len(entries))
	var all bytes.Buffer
	for _, entry := range entries {
		if err = ctx.Err(); err != nil {
			return v, err
		}
		data, erd := storage.ReadAll(ctx, store, entry.Key)
		if erd != nil {
			return v, ErrReadEntry.Wrap(erd)
		}
		fp := fingerprint.Short(data)
		if fp != entry.Fingerprint {
			v.Mismatches = append(v.Mismatches, entry.Key)
		}
		if _, ok := seen[fp]; ok {
			v.Duplicates++
		} else {
			seen[fp] = struct{}{}
			v.Distinct++
		}
		v.Files++
		v.Bytes += int64(len(data))
		_, _ = all.Write(data)
	}

	sum, err := fingerprint.New().Process(&all)
	if err != nil {
		return v, err
	}
	v.Checksum = hex.EncodeToString(sum)
	return v, nil
}
