package backend

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskUsageMem(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "db/a", make([]byte, 100), 0600))
	require.NoError(t, afero.WriteFile(fs, "db/sub/b", make([]byte, 50), 0600))
	require.NoError(t, afero.WriteFile(fs, "wal", make([]byte, 7), 0600))

	size, err := DiskUsage(fs, "db", "wal", "missing")
	require.NoError(t, err)
	assert.Equal(t, int64(157), size)
}

func TestDiskUsageOS(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewOsFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "data"), make([]byte, 64*1024), 0600))

	size, err := DiskUsage(fs, dir)
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))
}
