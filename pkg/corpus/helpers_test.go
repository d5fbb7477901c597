package corpus

import (
	"testing"
	"time"

	"github.com/oneconcern/deduplab/internal/rand"
	"github.com/oneconcern/deduplab/pkg/payload"
	"github.com/oneconcern/deduplab/pkg/storage"
	"github.com/oneconcern/deduplab/pkg/storage/localfs"
	"github.com/spf13/afero"
	"go.uber.org/zap/zaptest"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
}

func memStore() storage.Store {
	return localfs.New(afero.NewMemMapFs())
}

func testBuilder(t testing.TB, store storage.Store, seed int64, opts ...Option) *Builder {
	t.Helper()
	base := []Option{
		Store(store),
		Entropy(rand.New(seed)),
		Logger(zaptest.NewLogger(t)),
		PayloadOptions(payload.WithTextSize(1), payload.WithClock(fixedClock)),
	}
	return New(append(base, opts...)...)
}
