// Package worktree drives the working-tree synchronization engine:
// the three-way diff between commits, checkout/merge application to
// the filesystem, conflict-marker synthesis, and the status scan that
// keeps the index coherent with whatever is actually on disk.
package worktree

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/halvorsen/gitgo/backend"
	"github.com/halvorsen/gitgo/index"
	"github.com/spf13/afero"
)

var (
	// ErrNotClean is returned when an operation that requires a clean
	// working tree (checkout, merge) finds staged or unstaged changes.
	ErrNotClean = errors.New("worktree: not clean")

	// ErrConflict is returned by UpdateFromMerge when one or more paths
	// could not be merged automatically; the caller still receives the
	// list of conflicting paths alongside the error.
	ErrConflict = errors.New("worktree: merge conflict")
)

// Engine drives working-tree updates for a single repository: it
// reads and writes blobs through Store, and reads/writes plain files
// and the index through FS.
type Engine struct {
	// Store is the object database changes are read from and new blobs
	// are written to.
	Store backend.Backend
	// FS is the filesystem backing the working tree and the index
	// file. Swappable for an afero.MemMapFs in tests.
	FS afero.Fs
	// WorkTreePath is the absolute path to the root of the working
	// tree (where tracked files live).
	WorkTreePath string
	// GitDirPath is the absolute path to the .git directory (where the
	// index file lives).
	GitDirPath string
}

// indexPath returns the absolute path of the index file.
func (e *Engine) indexPath() string {
	return filepath.Join(e.GitDirPath, "index")
}

// ReadIndex reads the current index, returning an empty slice if no
// index file exists yet.
func (e *Engine) ReadIndex() ([]index.Entry, error) {
	data, err := afero.ReadFile(e.FS, e.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return index.Read(data)
}

// WriteIndex persists entries as the new index. The bytes go to a
// temp file first and are renamed into place, so a reader never sees
// a half-written index.
func (e *Engine) WriteIndex(entries []index.Entry) error {
	data := index.Write(entries)
	if err := e.FS.MkdirAll(e.GitDirPath, 0o750); err != nil {
		return err
	}

	target := e.indexPath()
	tmp := target + ".tmp"
	if err := afero.WriteFile(e.FS, tmp, data, 0o644); err != nil {
		return err
	}
	if err := e.FS.Rename(tmp, target); err != nil {
		// some filesystems (afero's MemMapFs among them) refuse to
		// rename over an existing file
		if removeErr := e.FS.Remove(target); removeErr != nil && !os.IsNotExist(removeErr) {
			return err
		}
		return e.FS.Rename(tmp, target)
	}
	return nil
}

// path returns the absolute working-tree path of a tracked path.
func (e *Engine) path(p string) string {
	return filepath.Join(e.WorkTreePath, p)
}

// AbsPath returns the absolute working-tree path of a tracked path,
// for callers outside this package (the porcelain layer staging a
// path, for instance) that need the same join path-internal helpers
// already use.
func (e *Engine) AbsPath(p string) string {
	return e.path(p)
}

