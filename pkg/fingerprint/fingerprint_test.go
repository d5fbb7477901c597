package fingerprint

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shortRe = regexp.MustCompile(`^[0-9a-f]{16}$`)

func TestShort(t *testing.T) {
	// sha256("abc") = ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad
	assert.Equal(t, "ba7816bf8f01cfea", Short([]byte("abc")))
	assert.Regexp(t, shortRe, Short(nil))
	assert.NotEqual(t, Short([]byte("a")), Short([]byte("b")))

	fp, err := ShortReader(bytes.NewReader([]byte("abc")))
	require.NoError(t, err)
	assert.Equal(t, Short([]byte("abc")), fp)
}

func TestMakerIsStable(t *testing.T) {
	data := bytes.Repeat([]byte("lorem ipsum "), 1000)
	m := New(LeafSize(1024))

	d1, err := m.Process(bytes.NewReader(data))
	require.NoError(t, err)
	d2, err := m.Process(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(d1), hex.EncodeToString(d2))
	assert.Len(t, d1, 64)

	other, err := m.Process(bytes.NewReader(append(data, '!')))
	require.NoError(t, err)
	assert.NotEqual(t, d1, other)
}

func TestMakerLeafBoundaries(t *testing.T) {
	m := New(LeafSize(16), Size(32))
	seen := map[string]int{}
	for _, size := range []int{0, 1, 15, 16, 17, 32, 33} {
		d, err := m.Process(bytes.NewReader(bytes.Repeat([]byte{'x'}, size)))
		require.NoError(t, err)
		seen[hex.EncodeToString(d)] = size
	}
	assert.Len(t, seen, 7, "every size yields a distinct checksum")
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "blob.dat")
	require.NoError(t, os.WriteFile(p, []byte("some content"), 0600))

	m := New()
	fromFile, err := m.ProcessFile(p)
	require.NoError(t, err)
	fromReader, err := m.Process(bytes.NewReader([]byte("some content")))
	require.NoError(t, err)
	assert.Equal(t, fromReader, fromFile)

	_, err = m.ProcessFile(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
