// Package reachability implements the object graph walk push and
// fetch use to figure out what needs to be copied between two
// repositories: every object transitively reachable from a commit by
// following commit -> parents and commit -> tree -> (sub-trees |
// blobs).
package reachability

import (
	"fmt"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/halvorsen/gitgo/backend"
	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/object"
)

// Reachable returns every object id transitively reachable from
// commit: the commit itself, its parents recursively, and every tree
// and blob referenced by any of those commits' trees. The walk uses an
// explicit stack rather than recursion (the commit DAG may be
// arbitrarily deep) and a visited set so repositories with heavily
// shared history aren't re-walked.
func Reachable(store backend.Backend, commit githash.Oid) (map[githash.Oid]struct{}, error) {
	visited := hashset.New()
	out := map[githash.Oid]struct{}{}

	stack := []githash.Oid{commit}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited.Contains(id) {
			continue
		}
		visited.Add(id)
		out[id] = struct{}{}

		o, err := store.Object(id)
		if err != nil {
			return nil, fmt.Errorf("could not load object %s: %w", id, err)
		}

		switch o.Type() {
		case object.TypeCommit:
			c, err := o.AsCommit()
			if err != nil {
				return nil, fmt.Errorf("could not parse commit %s: %w", id, err)
			}
			if !visited.Contains(c.TreeID()) {
				stack = append(stack, c.TreeID())
			}
			for _, p := range c.ParentIDs() {
				if !visited.Contains(p) {
					stack = append(stack, p)
				}
			}
		case object.TypeTree:
			t, err := o.AsTree()
			if err != nil {
				return nil, fmt.Errorf("could not parse tree %s: %w", id, err)
			}
			for _, e := range t.Entries() {
				if !visited.Contains(e.ID) {
					stack = append(stack, e.ID)
				}
			}
		case object.TypeBlob:
			// leaf, nothing further to walk
		}
	}
	return out, nil
}

// Missing returns the objects reachable from source but not from
// dest: what push needs to copy into dest's object store so dest also
// has source fully reachable.
func Missing(store backend.Backend, source, dest githash.Oid) (map[githash.Oid]struct{}, error) {
	have, err := Reachable(store, dest)
	if err != nil {
		return nil, fmt.Errorf("could not walk destination: %w", err)
	}
	want, err := Reachable(store, source)
	if err != nil {
		return nil, fmt.Errorf("could not walk source: %w", err)
	}

	missing := make(map[githash.Oid]struct{}, len(want))
	for id := range want {
		if _, ok := have[id]; !ok {
			missing[id] = struct{}{}
		}
	}
	return missing, nil
}

// MissingBetween is Missing generalized to two distinct stores: it
// walks source from srcStore and dest from dstStore, and returns the
// ids reachable from source that dstStore doesn't already have. A zero
// dest oid (an empty or nonexistent branch on the destination) is
// treated as an empty reachable set rather than an error, since fetch
// and push both need to handle copying into a destination that has no
// matching ref yet.
func MissingBetween(srcStore, dstStore backend.Backend, source, dest githash.Oid) (map[githash.Oid]struct{}, error) {
	have := map[githash.Oid]struct{}{}
	if !dest.IsZero() {
		var err error
		have, err = Reachable(dstStore, dest)
		if err != nil {
			return nil, fmt.Errorf("could not walk destination: %w", err)
		}
	}
	want, err := Reachable(srcStore, source)
	if err != nil {
		return nil, fmt.Errorf("could not walk source: %w", err)
	}

	missing := make(map[githash.Oid]struct{}, len(want))
	for id := range want {
		if _, ok := have[id]; !ok {
			missing[id] = struct{}{}
		}
	}
	return missing, nil
}
