package main

import (
	"bytes"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/halvorsen/gitgo/internal/testhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatFileCmd(t *testing.T) {
	t.Parallel()

	t.Run("rejects conflicting flags", func(t *testing.T) {
		t.Parallel()

		dir, cleanup := testhelper.TempDir(t)
		t.Cleanup(cleanup)
		require.NoError(t, initCmd(os.Stderr, dir))

		err := catFileCmd(os.Stderr, &flags{C: dir}, "deadbeef", true, true, false)
		require.ErrorIs(t, err, errConflictingCatFileOptions)
	})

	t.Run("-t and -s report type and size", func(t *testing.T) {
		t.Parallel()

		dir, cleanup := testhelper.TempDir(t)
		t.Cleanup(cleanup)
		require.NoError(t, initCmd(os.Stderr, dir))

		content := []byte("some content")
		hashOut := bytes.NewBufferString("")
		filePath := dir + "/file.txt"
		require.NoError(t, os.WriteFile(filePath, content, 0o644))
		require.NoError(t, hashObjectCmd(hashOut, &flags{C: dir}, filePath, "blob", true))
		id := strings.TrimSpace(hashOut.String())

		typeOut := bytes.NewBufferString("")
		require.NoError(t, catFileCmd(typeOut, &flags{C: dir}, id, true, false, false))
		assert.Equal(t, "blob\n", typeOut.String())

		sizeOut := bytes.NewBufferString("")
		require.NoError(t, catFileCmd(sizeOut, &flags{C: dir}, id, false, true, false))
		assert.Equal(t, strconv.Itoa(len(content))+"\n", sizeOut.String())
	})
}
