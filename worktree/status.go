package worktree

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/index"
	"github.com/spf13/afero"
)

// Status classifies every tracked and untracked path in the working
// tree against the current index: New for files on disk but not in
// the index, Modified for files whose content hash no longer matches
// the index entry, Deleted for index entries with no file on disk,
// and Same otherwise. `.git` directories are skipped wherever they
// appear, matching what a real working-tree walk must never descend
// into.
func (e *Engine) Status(entries []index.Entry) ([]Change, error) {
	byPath := make(map[string]index.Entry, len(entries))
	for _, en := range entries {
		byPath[en.Path] = en
	}

	onDisk := map[string]struct{}{}
	if exists, err := afero.DirExists(e.FS, e.WorkTreePath); err != nil {
		return nil, fmt.Errorf("could not check working tree root: %w", err)
	} else if exists {
		err := afero.Walk(e.FS, e.WorkTreePath, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if info.Name() == ".git" {
					return filepath.SkipDir
				}
				return nil
			}
			rel, err := filepath.Rel(e.WorkTreePath, p)
			if err != nil {
				return fmt.Errorf("could not compute relative path for %s: %w", p, err)
			}
			rel = filepath.ToSlash(rel)
			onDisk[rel] = struct{}{}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("could not scan working tree: %w", err)
		}
	}

	var changes []Change
	for rel := range onDisk {
		content, err := afero.ReadFile(e.FS, e.path(rel))
		if err != nil {
			return nil, fmt.Errorf("could not read %s: %w", rel, err)
		}
		hash := githash.Sum(framedBlob(content))

		entry, tracked := byPath[rel]
		switch {
		case !tracked:
			changes = append(changes, Change{Path: rel, Type: New, Hash: hash})
		case entry.Hash != hash:
			changes = append(changes, Change{Path: rel, Type: Modified, Hash: hash})
		default:
			changes = append(changes, Change{Path: rel, Type: Same, Hash: hash})
		}
	}
	for p, entry := range byPath {
		if _, ok := onDisk[p]; !ok {
			changes = append(changes, Change{Path: p, Type: Deleted, Hash: entry.Hash})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

// framedBlob reproduces the "blob {size}\0{content}" framing a blob
// object is hashed under, so Status can compare a working-tree file's
// hash against an index entry's stored blob id without writing an
// object for every file on every status call.
func framedBlob(content []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "blob %d\x00", len(content))
	buf.Write(content)
	return buf.Bytes()
}

// IsClean reports whether the working tree has no new, modified, or
// deleted paths relative to entries.
func (e *Engine) IsClean(entries []index.Entry) (bool, error) {
	changes, err := e.Status(entries)
	if err != nil {
		return false, err
	}
	for _, c := range changes {
		if c.Type != Same {
			return false, nil
		}
	}
	return true, nil
}
