//go:build unix

package backend

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskUsageSparse(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewOsFs()

	f, err := fs.Create(filepath.Join(dir, "sparse"))
	require.NoError(t, err)
	require.NoError(t, f.Truncate(64*1024*1024))
	require.NoError(t, f.Close())

	size, err := DiskUsage(fs, dir)
	require.NoError(t, err)
	assert.Less(t, size, int64(64*1024*1024))
}
