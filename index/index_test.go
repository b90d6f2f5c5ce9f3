package index_test

import (
	"testing"

	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeEntry(path string) index.Entry {
	return index.Entry{
		CtimeSec: 1, MtimeSec: 2, Dev: 3, Ino: 4, Mode: 0o100644,
		UID: 5, GID: 6, Size: uint32(len(path)),
		Hash:  githash.Sum([]byte(path)),
		Flags: uint16(len(path)),
		Path:  path,
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	entries := []index.Entry{
		makeEntry("zebra.txt"),
		makeEntry("apple.txt"),
		makeEntry("src/main.go"),
	}

	data := index.Write(entries)
	got, err := index.Read(data)
	require.NoError(t, err)

	require.Len(t, got, 3)
	// Write() must sort entries by path.
	assert.Equal(t, "apple.txt", got[0].Path)
	assert.Equal(t, "src/main.go", got[1].Path)
	assert.Equal(t, "zebra.txt", got[2].Path)

	for _, e := range got {
		var want index.Entry
		for _, orig := range entries {
			if orig.Path == e.Path {
				want = orig
			}
		}
		assert.Equal(t, want.Hash, e.Hash)
		assert.Equal(t, want.Mode, e.Mode)
		assert.Equal(t, want.Size, e.Size)
	}
}

func TestWriteProducesMultipleOf8Entries(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"a", "ab", "abc", "abcdef", "a-much-longer-path-name.go"} {
		data := index.Write([]index.Entry{makeEntry(path)})
		// header(12) + checksum(20) leaves the entry region; the entry
		// itself must occupy a multiple of 8 bytes.
		entryRegion := len(data) - 12 - githash.Size
		assert.Zero(t, entryRegion%8, "entry region for path %q should be 8-byte aligned, got %d", path, entryRegion)
	}
}

func TestReadEmptyIndex(t *testing.T) {
	t.Parallel()

	data := index.Write(nil)
	entries, err := index.Read(data)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadRejectsBadSignature(t *testing.T) {
	t.Parallel()

	data := index.Write(nil)
	data[0] = 'X'
	_, err := index.Read(data)
	require.ErrorIs(t, err, index.ErrBadSignature)
}

func TestReadRejectsBadChecksum(t *testing.T) {
	t.Parallel()

	data := index.Write([]index.Entry{makeEntry("a.txt")})
	data[len(data)-1] ^= 0xFF
	_, err := index.Read(data)
	require.ErrorIs(t, err, index.ErrChecksumMismatch)
}

func TestReadRejectsTruncatedEntry(t *testing.T) {
	t.Parallel()

	data := index.Write([]index.Entry{makeEntry("a.txt")})
	_, err := index.Read(data[:20])
	require.Error(t, err)
}
