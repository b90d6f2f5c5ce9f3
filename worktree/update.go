package worktree

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/index"
	"github.com/halvorsen/gitgo/object"
	"github.com/spf13/afero"
)

// UpdateFromCommit applies the diff between oldest and latest to the
// working tree: writes new and modified blobs, removes deleted paths,
// and rewrites the index to match latest's tree. This is the engine
// behind both a fresh checkout (oldest is the zero oid) and a
// fast-forward checkout of an existing branch.
//
// The working tree must be clean before calling this: callers are
// expected to have checked IsClean against the current index first.
func (e *Engine) UpdateFromCommit(oldest, latest githash.Oid) error {
	changes, err := e.DiffFromCommit(oldest, latest)
	if err != nil {
		return err
	}

	entries, err := e.ReadIndex()
	if err != nil {
		return err
	}
	byPath := make(map[string]index.Entry, len(entries))
	for _, en := range entries {
		byPath[en.Path] = en
	}

	for _, c := range changes {
		switch c.Type {
		case Deleted:
			if err := e.FS.Remove(e.path(c.Path)); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("could not remove %s: %w", c.Path, err)
			}
			delete(byPath, c.Path)
		case New, Modified:
			entry, err := e.writeBlobToDisk(c)
			if err != nil {
				return err
			}
			byPath[c.Path] = entry
		case Same:
			// nothing to touch on disk; keep the existing index entry.
		}
	}

	merged := make([]index.Entry, 0, len(byPath))
	for _, en := range byPath {
		merged = append(merged, en)
	}
	return e.WriteIndex(merged)
}

// writeBlobToDisk materializes c's blob content at its working-tree
// path and returns the index.Entry that should replace/create the
// matching index row.
func (e *Engine) writeBlobToDisk(c Change) (index.Entry, error) {
	o, err := e.Store.Object(c.Hash)
	if err != nil {
		return index.Entry{}, fmt.Errorf("could not load blob %s: %w", c.Hash, err)
	}
	blob := o.AsBlob()

	p := e.path(c.Path)
	if dir := parentDir(p); dir != "" {
		if err := e.FS.MkdirAll(dir, 0o750); err != nil {
			return index.Entry{}, fmt.Errorf("could not create directory for %s: %w", c.Path, err)
		}
	}

	mode := c.Mode
	if mode == 0 {
		mode = object.ModeFile
	}
	perm := os.FileMode(0o644)
	if mode == object.ModeExecutable {
		perm = 0o755
	}
	if err := afero.WriteFile(e.FS, p, blob.Bytes(), perm); err != nil {
		return index.Entry{}, fmt.Errorf("could not write %s: %w", c.Path, err)
	}

	info, err := e.FS.Stat(p)
	if err != nil {
		return index.Entry{}, fmt.Errorf("could not stat %s: %w", c.Path, err)
	}
	return index.NewEntry(c.Path, info, c.Hash), nil
}

// parentDir returns p's parent directory, or "" if p has none.
func parentDir(p string) string {
	dir := filepath.Dir(p)
	if dir == "." || dir == string(filepath.Separator) {
		return ""
	}
	return dir
}
