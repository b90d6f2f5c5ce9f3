package gitgo

import (
	"errors"
	"fmt"

	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/refs"
	"github.com/halvorsen/gitgo/worktree"
)

// ErrBranchNotFound is returned by Checkout when the named branch
// doesn't exist.
var ErrBranchNotFound = errors.New("branch not found")

// ErrAlreadyOnBranch is returned by Checkout when HEAD already points
// at the requested branch; the working tree is left untouched.
var ErrAlreadyOnBranch = errors.New("already on branch")

// Checkout switches the working tree to branchName, fast-forwarding
// the working tree and index from the current HEAD commit to the
// target branch's commit, and repoints HEAD at the branch. The
// working tree must be clean; ErrNotClean is returned otherwise.
func (r *Repository) Checkout(branchName string) error {
	full := refs.LocalBranchFullName(branchName)
	target, err := r.Store.Reference(full)
	if err != nil {
		if errors.Is(err, refs.ErrNotFound) {
			return fmt.Errorf("%s: %w", branchName, ErrBranchNotFound)
		}
		return fmt.Errorf("could not resolve %s: %w", branchName, err)
	}

	current, head, err := r.headCommit()
	if err != nil {
		return err
	}
	if head != nil && head.Type() == refs.SymbolicRef && head.SymbolicTarget() == full {
		return fmt.Errorf("%s: %w", branchName, ErrAlreadyOnBranch)
	}

	entries, err := r.WT.ReadIndex()
	if err != nil {
		return err
	}
	clean, err := r.WT.IsClean(entries)
	if err != nil {
		return err
	}
	if !clean {
		return worktree.ErrNotClean
	}

	if err := r.WT.UpdateFromCommit(current, target.Target()); err != nil {
		return fmt.Errorf("could not update working tree: %w", err)
	}

	if err := r.Store.WriteReference(refs.NewSymbolicReference(refs.Head, full)); err != nil {
		return fmt.Errorf("could not update HEAD: %w", err)
	}
	return nil
}

// CheckoutDetached moves the working tree and HEAD to commit without
// binding HEAD to a branch.
func (r *Repository) CheckoutDetached(commit githash.Oid) error {
	current, _, err := r.headCommit()
	if err != nil {
		return err
	}

	entries, err := r.WT.ReadIndex()
	if err != nil {
		return err
	}
	clean, err := r.WT.IsClean(entries)
	if err != nil {
		return err
	}
	if !clean {
		return worktree.ErrNotClean
	}

	if err := r.WT.UpdateFromCommit(current, commit); err != nil {
		return fmt.Errorf("could not update working tree: %w", err)
	}
	return r.Store.WriteReference(refs.NewReference(refs.Head, commit))
}
