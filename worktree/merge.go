package worktree

import (
	"bytes"
	"fmt"
	"os"

	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/index"
	"github.com/halvorsen/gitgo/object"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// MergeResult is what UpdateFromMerge produced: the set of paths it
// could not reconcile automatically, alongside any error.
type MergeResult struct {
	Conflicts []string
}

// commitLookup adapts Store.Object to the object.CommitLookup shape
// LowestCommonAncestor needs.
func (e *Engine) commitLookup(id githash.Oid) (*object.Commit, error) {
	o, err := e.Store.Object(id)
	if err != nil {
		return nil, fmt.Errorf("could not load commit %s: %w", id, err)
	}
	return o.AsCommit()
}

// UpdateFromMerge performs a three-way merge of ours and theirs against
// their lowest common ancestor, writing merged blobs for paths both
// sides touched without conflict, and synthesizing conflict markers
// for paths both sides changed differently. It returns ErrConflict
// (wrapping MergeResult's path list via the returned *MergeResult) if
// any path could not be merged automatically; the working tree and
// index are still updated with whatever could be resolved, and the
// conflicting paths are left holding both sides' content between
// markers so the user can resolve them by hand.
func (e *Engine) UpdateFromMerge(ours, theirs githash.Oid) (*MergeResult, error) {
	base, found, err := object.LowestCommonAncestor(e.commitLookup, ours, theirs)
	if err != nil {
		return nil, fmt.Errorf("could not find merge base: %w", err)
	}
	if !found {
		base = githash.NullOid
	}

	oursChanges, err := e.DiffFromCommit(base, ours)
	if err != nil {
		return nil, err
	}
	theirsChanges, err := e.DiffFromCommit(base, theirs)
	if err != nil {
		return nil, err
	}

	oursByPath := changesByPath(oursChanges)
	theirsByPath := changesByPath(theirsChanges)

	paths := map[string]struct{}{}
	for p := range oursByPath {
		paths[p] = struct{}{}
	}
	for p := range theirsByPath {
		paths[p] = struct{}{}
	}

	entries, err := e.ReadIndex()
	if err != nil {
		return nil, err
	}
	byPath := make(map[string]index.Entry, len(entries))
	for _, en := range entries {
		byPath[en.Path] = en
	}

	var merr error
	var conflicts []string

	for p := range paths {
		oursChange, hasOurs := oursByPath[p]
		theirsChange, hasTheirs := theirsByPath[p]

		switch {
		case hasOurs && hasTheirs && oursChange.Hash != theirsChange.Hash &&
			oursChange.Type != Same && theirsChange.Type != Same:
			conflicts = append(conflicts, p)
			merged, err := e.writeConflictMarkers(p, oursChange, theirsChange, ours, theirs)
			if err != nil {
				merr = multierr.Append(merr, err)
				continue
			}
			byPath[p] = merged
		case hasTheirs && theirsChange.Type != Same:
			if theirsChange.Type == Deleted {
				if err := e.removePath(p); err != nil {
					merr = multierr.Append(merr, err)
					continue
				}
				delete(byPath, p)
				continue
			}
			entry, err := e.writeBlobToDisk(Change{Path: p, Type: theirsChange.Type, Hash: theirsChange.Hash, Mode: theirsChange.Mode})
			if err != nil {
				merr = multierr.Append(merr, err)
				continue
			}
			byPath[p] = entry
		case hasOurs && oursChange.Type != Same:
			if oursChange.Type == Deleted {
				if err := e.removePath(p); err != nil {
					merr = multierr.Append(merr, err)
					continue
				}
				delete(byPath, p)
				continue
			}
			entry, err := e.writeBlobToDisk(Change{Path: p, Type: oursChange.Type, Hash: oursChange.Hash, Mode: oursChange.Mode})
			if err != nil {
				merr = multierr.Append(merr, err)
				continue
			}
			byPath[p] = entry
		}
	}

	if merr != nil {
		return nil, merr
	}

	merged := make([]index.Entry, 0, len(byPath))
	for _, en := range byPath {
		merged = append(merged, en)
	}
	if err := e.WriteIndex(merged); err != nil {
		return nil, err
	}

	if len(conflicts) > 0 {
		return &MergeResult{Conflicts: conflicts}, ErrConflict
	}
	return &MergeResult{}, nil
}

func changesByPath(changes []Change) map[string]Change {
	m := make(map[string]Change, len(changes))
	for _, c := range changes {
		m[c.Path] = c
	}
	return m
}

// writeConflictMarkers writes path with conflict markers wrapping
// each side's content, labeled with the two merged commits' hex ids,
// and returns an ordinary index entry for the marked-up file
// (hashed against the marked-up content so a
// subsequent status scan doesn't flag the file as merely modified).
func (e *Engine) writeConflictMarkers(path string, ours, theirs Change, oursCommit, theirsCommit githash.Oid) (index.Entry, error) {
	oursBlob, err := e.blobBytes(ours.Hash)
	if err != nil {
		return index.Entry{}, err
	}
	theirsBlob, err := e.blobBytes(theirs.Hash)
	if err != nil {
		return index.Entry{}, err
	}

	var buf bytes.Buffer
	buf.WriteString("<<<<<< " + oursCommit.String() + "\n")
	buf.Write(oursBlob)
	if len(oursBlob) > 0 && oursBlob[len(oursBlob)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteString("======\n")
	buf.Write(theirsBlob)
	if len(theirsBlob) > 0 && theirsBlob[len(theirsBlob)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteString(">>>>>> " + theirsCommit.String() + "\n")

	p := e.path(path)
	if dir := parentDir(p); dir != "" {
		if err := e.FS.MkdirAll(dir, 0o750); err != nil {
			return index.Entry{}, fmt.Errorf("could not create directory for %s: %w", path, err)
		}
	}
	if err := afero.WriteFile(e.FS, p, buf.Bytes(), 0o644); err != nil {
		return index.Entry{}, fmt.Errorf("could not write conflict markers for %s: %w", path, err)
	}

	info, err := e.FS.Stat(p)
	if err != nil {
		return index.Entry{}, fmt.Errorf("could not stat %s: %w", path, err)
	}
	return index.NewEntry(path, info, githash.Sum(framedBlob(buf.Bytes()))), nil
}

func (e *Engine) removePath(p string) error {
	if err := e.FS.Remove(e.path(p)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not remove %s: %w", p, err)
	}
	return nil
}

func (e *Engine) blobBytes(id githash.Oid) ([]byte, error) {
	if id.IsZero() {
		return nil, nil
	}
	o, err := e.Store.Object(id)
	if err != nil {
		return nil, fmt.Errorf("could not load blob %s: %w", id, err)
	}
	return o.AsBlob().Bytes(), nil
}
