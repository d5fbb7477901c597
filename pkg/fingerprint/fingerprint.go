// Package fingerprint computes content fingerprints.
//
// Short fingerprints name corpus entries. Tree checksums (blake2b) are used to
// audit whole corpora.
package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	units "github.com/docker/go-units"
	blake2b "github.com/minio/blake2b-simd"
)

// ShortLen is the number of hex characters kept in a short fingerprint
const ShortLen = 16

// Short returns the truncated sha256 of data, as ShortLen hex characters
func Short(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:ShortLen]
}

// ShortReader computes a short fingerprint from a stream
func ShortReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil))[:ShortLen], nil
}

type Option func(*Maker)

func LeafSize(sz int64) Option {
	return func(m *Maker) {
		m.leafSize = uint32(sz)
	}
}

func Size(sz uint8) Option {
	return func(m *Maker) {
		m.size = sz
	}
}

func New(opts ...Option) *Maker {
	m := &Maker{
		leafSize: uint32(1 * units.MiB),
		size:     blake2b.Size,
	}

	for _, apply := range opts {
		apply(m)
	}
	return m
}

// Maker computes blake2b tree checksums: each leaf is hashed as a tree node,
// then the concatenated leaf digests are hashed by the root node.
type Maker struct {
	size     uint8
	leafSize uint32
}

// ProcessFile computes the checksum of a local file
func (m *Maker) ProcessFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return m.Process(f)
}

// Process computes the checksum of a stream
func (m *Maker) Process(r io.Reader) ([]byte, error) {
	var digests bytes.Buffer
	partBuffer := make([]byte, m.leafSize)
	next := make([]byte, m.leafSize)

	n, err := io.ReadFull(r, partBuffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	for part := 0; ; part++ {
		// read ahead to know whether the current leaf is the last one
		k, e := io.ReadFull(r, next)
		if e != nil && e != io.EOF && e != io.ErrUnexpectedEOF {
			return nil, e
		}
		lastChunk := k == 0

		digest, err := m.leaf(part, partBuffer[:n], lastChunk)
		if err != nil {
			return nil, err
		}
		_, _ = digests.Write(digest)

		if lastChunk {
			break
		}
		partBuffer, next = next, partBuffer
		n = k
	}

	rootBlake, err := blake2b.New(&blake2b.Config{
		Size: blake2b.Size,
		Tree: &blake2b.Tree{
			Fanout:        0,
			MaxDepth:      2,
			LeafSize:      m.leafSize,
			NodeOffset:    0,
			NodeDepth:     1,
			InnerHashSize: m.size,
			IsLastNode:    true,
		},
	})
	if err != nil {
		return nil, err
	}
	if _, err = io.Copy(rootBlake, &digests); err != nil {
		return nil, err
	}
	return rootBlake.Sum(nil), nil
}

func (m *Maker) leaf(part int, data []byte, lastChunk bool) ([]byte, error) {
	blake, err := blake2b.New(&blake2b.Config{
		Size: m.size,
		Tree: &blake2b.Tree{
			Fanout:        0,
			MaxDepth:      2,
			LeafSize:      m.leafSize,
			NodeOffset:    uint64(part),
			NodeDepth:     0,
			InnerHashSize: m.size,
			IsLastNode:    lastChunk,
		},
	})
	if err != nil {
		return nil, err
	}
	if _, err = blake.Write(data); err != nil {
		return nil, err
	}
	return blake.Sum(nil), nil
}
