package worktree

import (
	"fmt"
	"sort"

	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/object"
)

// ChangeType classifies how a path differs between two trees.
type ChangeType int

const (
	// Same means the path is unchanged between the two trees.
	Same ChangeType = iota
	// New means the path only exists in the newer tree.
	New
	// Modified means the path exists in both trees with different content.
	Modified
	// Deleted means the path only exists in the older tree.
	Deleted
)

func (c ChangeType) String() string {
	switch c {
	case Same:
		return "same"
	case New:
		return "new"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change describes one path's transition from an older tree/working
// state to a newer one.
type Change struct {
	Path string
	Type ChangeType
	// Hash is the blob id to use for the path's new content: latest's
	// blob for New/Modified/Same, oldest's for Deleted.
	Hash githash.Oid
	Mode object.Mode
}

// flattenTree walks a tree recursively and returns a path -> entry map
// of every blob it contains (sub-trees are descended into, never
// themselves returned as entries).
func flattenTree(store objectReader, treeOid githash.Oid, prefix string, out map[string]object.Entry) error {
	o, err := store.Object(treeOid)
	if err != nil {
		return fmt.Errorf("could not load tree %s: %w", treeOid, err)
	}
	tree, err := o.AsTree()
	if err != nil {
		return fmt.Errorf("could not parse tree %s: %w", treeOid, err)
	}
	for _, e := range tree.Entries() {
		p := e.Path
		if prefix != "" {
			p = prefix + "/" + e.Path
		}
		if e.Mode == object.ModeDirectory {
			if err := flattenTree(store, e.ID, p, out); err != nil {
				return err
			}
			continue
		}
		out[p] = object.Entry{Path: p, ID: e.ID, Mode: e.Mode}
	}
	return nil
}

type objectReader interface {
	Object(githash.Oid) (*object.Object, error)
}

// treeOf resolves a commit id to its tree id. A zero oid denotes the
// empty tree, as when checking out onto an unborn branch.
func treeOf(store objectReader, commit githash.Oid) (githash.Oid, error) {
	if commit.IsZero() {
		return githash.NullOid, nil
	}
	o, err := store.Object(commit)
	if err != nil {
		return githash.NullOid, fmt.Errorf("could not load commit %s: %w", commit, err)
	}
	c, err := o.AsCommit()
	if err != nil {
		return githash.NullOid, fmt.Errorf("could not parse commit %s: %w", commit, err)
	}
	return c.TreeID(), nil
}

// DiffFromCommit computes the three-way diff between two commits'
// trees: every path that is new, modified, deleted, or unchanged
// going from oldest to latest. A zero oldest commit id means "the
// empty tree" (the diff a fresh checkout applies).
func (e *Engine) DiffFromCommit(oldest, latest githash.Oid) ([]Change, error) {
	oldTreeOid, err := treeOf(e.Store, oldest)
	if err != nil {
		return nil, err
	}
	newTreeOid, err := treeOf(e.Store, latest)
	if err != nil {
		return nil, err
	}

	oldEntries := map[string]object.Entry{}
	if !oldTreeOid.IsZero() {
		if err := flattenTree(e.Store, oldTreeOid, "", oldEntries); err != nil {
			return nil, err
		}
	}
	newEntries := map[string]object.Entry{}
	if !newTreeOid.IsZero() {
		if err := flattenTree(e.Store, newTreeOid, "", newEntries); err != nil {
			return nil, err
		}
	}

	paths := map[string]struct{}{}
	for p := range oldEntries {
		paths[p] = struct{}{}
	}
	for p := range newEntries {
		paths[p] = struct{}{}
	}

	changes := make([]Change, 0, len(paths))
	for p := range paths {
		oldEntry, hadOld := oldEntries[p]
		newEntry, hasNew := newEntries[p]
		switch {
		case hasNew && !hadOld:
			changes = append(changes, Change{Path: p, Type: New, Hash: newEntry.ID, Mode: newEntry.Mode})
		case hadOld && !hasNew:
			changes = append(changes, Change{Path: p, Type: Deleted, Hash: oldEntry.ID, Mode: oldEntry.Mode})
		case oldEntry.ID == newEntry.ID:
			changes = append(changes, Change{Path: p, Type: Same, Hash: newEntry.ID, Mode: newEntry.Mode})
		default:
			changes = append(changes, Change{Path: p, Type: Modified, Hash: newEntry.ID, Mode: newEntry.Mode})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}
