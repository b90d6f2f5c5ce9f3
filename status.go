package gitgo

import "github.com/halvorsen/gitgo/worktree"

// Status reports how the working tree differs from the current index.
func (r *Repository) Status() ([]worktree.Change, error) {
	entries, err := r.WT.ReadIndex()
	if err != nil {
		return nil, err
	}
	return r.WT.Status(entries)
}
