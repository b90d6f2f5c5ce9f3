package githash_test

import (
	"fmt"
	"testing"

	"github.com/halvorsen/gitgo/githash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		data     string
		expected string
	}{
		{data: "", expected: "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{data: "abc", expected: "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{data: "blob 2\x00A\n", expected: "f70f10e4db19068f79bc43844b49f3eece45c4e8"},
	}
	for i, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			t.Parallel()

			oid := githash.Sum([]byte(tc.data))
			assert.Equal(t, tc.expected, oid.String())
		})
	}
}

func TestFromHex(t *testing.T) {
	t.Parallel()

	t.Run("valid oid should work", func(t *testing.T) {
		t.Parallel()

		id := "0eaf966ff79d8f61958aaefe163620d952606516"[:40]
		oid, err := githash.FromHex(id)
		require.NoError(t, err)
		assert.Equal(t, id, oid.String())
	})

	t.Run("invalid char should fail", func(t *testing.T) {
		t.Parallel()

		_, err := githash.FromHex("0eaf96 ff79d8f61958aaefe163620d95260651")
		require.Error(t, err)
	})

	t.Run("invalid size should fail", func(t *testing.T) {
		t.Parallel()

		_, err := githash.FromHex("0eaf96ff79d8f61958aaefe163620d952606")
		require.ErrorIs(t, err, githash.ErrInvalidOid)
	})
}

func TestFromBytes(t *testing.T) {
	t.Parallel()

	t.Run("wrong size should fail", func(t *testing.T) {
		t.Parallel()

		_, err := githash.FromBytes([]byte{1, 2, 3})
		require.ErrorIs(t, err, githash.ErrInvalidOid)
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		oid := githash.Sum([]byte("abc"))
		rebuilt, err := githash.FromBytes(oid.Bytes())
		require.NoError(t, err)
		assert.Equal(t, oid, rebuilt)
	})
}

func TestIsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, githash.NullOid.IsZero())
	assert.False(t, githash.Sum([]byte("x")).IsZero())
}
