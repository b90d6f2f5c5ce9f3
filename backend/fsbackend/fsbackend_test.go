package fsbackend_test

import (
	"path/filepath"
	"testing"

	"github.com/halvorsen/gitgo/backend/fsbackend"
	"github.com/halvorsen/gitgo/internal/gitpath"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Parallel()

	t.Run("regular repo should work", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		b := fsbackend.NewWithFs(fs, "/repo/.git")
		require.NoError(t, b.Init())
		require.NoError(t, b.Close())

		exists, err := afero.Exists(fs, filepath.Join("/repo/.git", gitpath.HEADPath))
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("re-running init should not fail", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		b := fsbackend.NewWithFs(fs, "/repo/.git")
		require.NoError(t, b.Init())
		require.NoError(t, b.Init())
	})
}
