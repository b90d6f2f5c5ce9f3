package object_test

import (
	"testing"

	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	blobID := githash.Sum([]byte("blob 5\x00hello"))
	subtreeID := githash.Sum([]byte("tree 0\x00"))

	entries := []object.Entry{
		{Mode: object.ModeFile, Path: "README.md", ID: blobID},
		{Mode: object.ModeDirectory, Path: "src", ID: subtreeID},
	}
	tree := object.NewTree(entries)

	parsed, err := object.NewTreeFromObject(tree.ToObject())
	require.NoError(t, err)
	assert.Equal(t, entries, parsed.Entries())
	assert.Equal(t, tree.ID(), parsed.ID())
}

func TestTreeFromObjectRejectsWrongType(t *testing.T) {
	t.Parallel()

	blob := object.New(object.TypeBlob, []byte("not a tree"))
	_, err := object.NewTreeFromObject(blob)
	require.ErrorIs(t, err, object.ErrObjectInvalid)
}

func TestEmptyTree(t *testing.T) {
	t.Parallel()

	tree := object.NewTree(nil)
	parsed, err := object.NewTreeFromObject(tree.ToObject())
	require.NoError(t, err)
	assert.Empty(t, parsed.Entries())
}

func TestModeObjectType(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		mode object.Mode
		want object.Type
	}{
		{mode: object.ModeFile, want: object.TypeBlob},
		{mode: object.ModeExecutable, want: object.TypeBlob},
		{mode: object.ModeSymlink, want: object.TypeBlob},
		{mode: object.ModeDirectory, want: object.TypeTree},
		{mode: object.ModeGitlink, want: object.TypeCommit},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, tc.mode.ObjectType())
	}
}
