package fsbackend_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/halvorsen/gitgo/backend/fsbackend"
	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/internal/gitpath"
	"github.com/halvorsen/gitgo/object"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject(t *testing.T) {
	t.Parallel()

	t.Run("round trips a written blob", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		b := fsbackend.NewWithFs(fs, "/repo/.git")
		require.NoError(t, b.Init())

		o := object.New(object.TypeBlob, []byte("hello\n"))
		oid, err := b.WriteObject(o)
		require.NoError(t, err)

		got, err := b.Object(oid)
		require.NoError(t, err)
		assert.Equal(t, object.TypeBlob, got.Type())
		assert.Equal(t, "hello\n", string(got.Bytes()))
	})

	t.Run("unknown object should fail", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		b := fsbackend.NewWithFs(fs, "/repo/.git")
		require.NoError(t, b.Init())

		oid, err := githash.FromHex("2dcdadc2a420225783794fbffd51e2e137a69646")
		require.NoError(t, err)

		_, err = b.Object(oid)
		require.Error(t, err)
		assert.ErrorIs(t, err, fsbackend.ErrObjectNotFound)
	})
}

func TestHasObject(t *testing.T) {
	t.Parallel()

	t.Run("existing object should exist", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		b := fsbackend.NewWithFs(fs, "/repo/.git")
		require.NoError(t, b.Init())

		oid, err := b.WriteObject(object.New(object.TypeBlob, []byte("data")))
		require.NoError(t, err)

		exists, err := b.HasObject(oid)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("non-existing object should not exist", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		b := fsbackend.NewWithFs(fs, "/repo/.git")
		require.NoError(t, b.Init())

		fakeOid, err := githash.FromHex("2dcdadc2a420225783794fbffd51e2e137a69646")
		require.NoError(t, err)

		exists, err := b.HasObject(fakeOid)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestWriteObject(t *testing.T) {
	t.Parallel()

	t.Run("add a new blob", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		b := fsbackend.NewWithFs(fs, "/repo/.git")
		require.NoError(t, b.Init())

		o := object.New(object.TypeBlob, []byte("data"))
		oid, err := b.WriteObject(o)
		require.NoError(t, err)
		assert.NotEqual(t, githash.NullOid, oid)

		storedO, err := b.Object(oid)
		require.NoError(t, err)
		assert.Equal(t, o.Type(), storedO.Type())
		assert.Equal(t, o.Bytes(), storedO.Bytes())

		p := filepath.Join("/repo/.git", gitpath.ObjectsPath, oid.String()[:2], oid.String()[2:])
		info, err := fs.Stat(p)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o444), info.Mode().Perm())
	})

	t.Run("writing the same object twice is idempotent", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		b := fsbackend.NewWithFs(fs, "/repo/.git")
		require.NoError(t, b.Init())

		o := object.New(object.TypeBlob, []byte("data"))
		oid1, err := b.WriteObject(o)
		require.NoError(t, err)
		oid2, err := b.WriteObject(o)
		require.NoError(t, err)
		assert.Equal(t, oid1, oid2)
	})
}

func TestWalkLooseObjectIDs(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	b := fsbackend.NewWithFs(fs, "/repo/.git")
	require.NoError(t, b.Init())

	oid1, err := b.WriteObject(object.New(object.TypeBlob, []byte("one")))
	require.NoError(t, err)
	oid2, err := b.WriteObject(object.New(object.TypeBlob, []byte("two")))
	require.NoError(t, err)

	seen := map[githash.Oid]bool{}
	err = b.WalkLooseObjectIDs(func(id githash.Oid) error {
		seen[id] = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, seen[oid1])
	assert.True(t, seen[oid2])
}
