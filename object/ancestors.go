package object

import (
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/halvorsen/gitgo/githash"
)

// CommitLookup resolves a commit by id. Ancestors/IsAncestor/
// LowestCommonAncestor take one instead of a concrete store type so
// this package stays free of a dependency on the object store.
type CommitLookup func(githash.Oid) (*Commit, error)

// Parents returns c's parent ids, the commit DAG's edges.
func (c *Commit) Parents() []githash.Oid {
	return c.ParentIDs()
}

// Ancestors returns every commit transitively reachable from c's
// parents, in depth-first order. The DAG can run deep in a repository
// with long history, so this walks an explicit stack instead of
// recursing, tracking visited ids in a hashset to avoid revisiting
// shared history more than once.
func Ancestors(get CommitLookup, c githash.Oid) ([]githash.Oid, error) {
	visited := hashset.New()
	var order []githash.Oid

	stack := []githash.Oid{c}
	first := true
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited.Contains(id) {
			continue
		}
		visited.Add(id)

		if !first {
			order = append(order, id)
		}
		first = false

		commit, err := get(id)
		if err != nil {
			return nil, err
		}

		// push in reverse so parents are visited in declaration order
		parents := commit.Parents()
		for i := len(parents) - 1; i >= 0; i-- {
			if !visited.Contains(parents[i]) {
				stack = append(stack, parents[i])
			}
		}
	}
	return order, nil
}

// IsAncestor reports whether y is an ancestor of x.
func IsAncestor(get CommitLookup, x, y githash.Oid) (bool, error) {
	ancestors, err := Ancestors(get, x)
	if err != nil {
		return false, err
	}
	for _, a := range ancestors {
		if a == y {
			return true, nil
		}
	}
	return false, nil
}

// LowestCommonAncestor returns a itself when a == b or a is an ancestor
// of b; otherwise the first ancestor of a that is b or an ancestor of
// b, walking a's ancestry depth-first. This is an
// approximation: a BFS-by-generation search would find the true
// lowest common ancestor in every case, but a DFS-first match is
// always *a* common ancestor, which is the guarantee this function
// makes.
func LowestCommonAncestor(get CommitLookup, a, b githash.Oid) (githash.Oid, bool, error) {
	aAncestors, err := Ancestors(get, a)
	if err != nil {
		return githash.NullOid, false, err
	}
	bAncestors, err := Ancestors(get, b)
	if err != nil {
		return githash.NullOid, false, err
	}
	if a == b {
		return a, true, nil
	}

	bSet := hashset.New()
	for _, id := range bAncestors {
		bSet.Add(id)
	}
	if bSet.Contains(a) {
		return a, true, nil
	}

	for _, id := range aAncestors {
		if id == b || bSet.Contains(id) {
			return id, true, nil
		}
	}
	return githash.NullOid, false, nil
}
