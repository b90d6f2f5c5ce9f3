package worktree_test

import (
	"testing"

	"github.com/halvorsen/gitgo/backend/fsbackend"
	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/object"
	"github.com/halvorsen/gitgo/worktree"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*worktree.Engine, *fsbackend.Backend) {
	t.Helper()
	fs := afero.NewMemMapFs()
	b := fsbackend.NewWithFs(fs, "/repo/.git")
	require.NoError(t, b.Init())
	return &worktree.Engine{
		Store:        b,
		FS:           fs,
		WorkTreePath: "/repo",
		GitDirPath:   "/repo/.git",
	}, b
}

func commitOfFiles(t *testing.T, b *fsbackend.Backend, files map[string]string, parents ...githash.Oid) githash.Oid {
	t.Helper()
	entries := make([]object.Entry, 0, len(files))
	for path, content := range files {
		blobOid, err := b.WriteObject(object.New(object.TypeBlob, []byte(content)))
		require.NoError(t, err)
		entries = append(entries, object.Entry{Mode: object.ModeFile, Path: path, ID: blobOid})
	}
	tree := object.NewTree(entries)
	treeOid, err := b.WriteObject(tree.ToObject())
	require.NoError(t, err)

	sig := object.NewSignature("tester", "tester@example.com")
	c := object.NewCommit(treeOid, sig, object.CommitOptions{Message: "m\n", ParentIDs: parents})
	cOid, err := b.WriteObject(c.ToObject())
	require.NoError(t, err)
	return cOid
}

func TestUpdateFromCommitFreshCheckout(t *testing.T) {
	t.Parallel()

	e, b := newTestEngine(t)
	c1 := commitOfFiles(t, b, map[string]string{"a.txt": "hello\n"})

	require.NoError(t, e.UpdateFromCommit(githash.NullOid, c1))

	content, err := afero.ReadFile(e.FS, "/repo/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(content))

	entries, err := e.ReadIndex()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Path)
}

func TestUpdateFromCommitFastForward(t *testing.T) {
	t.Parallel()

	e, b := newTestEngine(t)
	c1 := commitOfFiles(t, b, map[string]string{"a.txt": "v1\n"})
	require.NoError(t, e.UpdateFromCommit(githash.NullOid, c1))

	c2 := commitOfFiles(t, b, map[string]string{"a.txt": "v2\n", "b.txt": "new\n"}, c1)
	require.NoError(t, e.UpdateFromCommit(c1, c2))

	content, err := afero.ReadFile(e.FS, "/repo/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "v2\n", string(content))

	content, err = afero.ReadFile(e.FS, "/repo/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(content))
}

func TestStatusAndIsClean(t *testing.T) {
	t.Parallel()

	e, b := newTestEngine(t)
	c1 := commitOfFiles(t, b, map[string]string{"a.txt": "v1\n"})
	require.NoError(t, e.UpdateFromCommit(githash.NullOid, c1))

	entries, err := e.ReadIndex()
	require.NoError(t, err)

	clean, err := e.IsClean(entries)
	require.NoError(t, err)
	assert.True(t, clean)

	require.NoError(t, afero.WriteFile(e.FS, "/repo/a.txt", []byte("changed\n"), 0o644))

	clean, err = e.IsClean(entries)
	require.NoError(t, err)
	assert.False(t, clean)

	changes, err := e.Status(entries)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, worktree.Modified, changes[0].Type)
}

func TestUpdateFromMergeConflict(t *testing.T) {
	t.Parallel()

	e, b := newTestEngine(t)
	base := commitOfFiles(t, b, map[string]string{"a.txt": "base\n"})
	ours := commitOfFiles(t, b, map[string]string{"a.txt": "ours\n"}, base)
	theirs := commitOfFiles(t, b, map[string]string{"a.txt": "theirs\n"}, base)

	require.NoError(t, e.UpdateFromCommit(githash.NullOid, ours))

	result, err := e.UpdateFromMerge(ours, theirs)
	require.ErrorIs(t, err, worktree.ErrConflict)
	require.NotNil(t, result)
	require.Equal(t, []string{"a.txt"}, result.Conflicts)

	content, err := afero.ReadFile(e.FS, "/repo/a.txt")
	require.NoError(t, err)
	assert.Contains(t, string(content), "<<<<<< "+ours.String())
	assert.Contains(t, string(content), "ours\n")
	assert.Contains(t, string(content), "======\n")
	assert.Contains(t, string(content), "theirs\n")
	assert.Contains(t, string(content), ">>>>>> "+theirs.String())
}

func TestUpdateFromMergeAutoResolve(t *testing.T) {
	t.Parallel()

	e, b := newTestEngine(t)
	base := commitOfFiles(t, b, map[string]string{"a.txt": "base\n", "b.txt": "base\n"})
	ours := commitOfFiles(t, b, map[string]string{"a.txt": "ours\n", "b.txt": "base\n"}, base)
	theirs := commitOfFiles(t, b, map[string]string{"a.txt": "ours\n", "b.txt": "theirs\n"}, base)

	require.NoError(t, e.UpdateFromCommit(githash.NullOid, ours))

	result, err := e.UpdateFromMerge(ours, theirs)
	require.NoError(t, err)
	assert.Empty(t, result.Conflicts)

	content, err := afero.ReadFile(e.FS, "/repo/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "theirs\n", string(content))
}
