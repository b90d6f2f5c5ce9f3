package gitgo

import (
	"errors"
	"fmt"

	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/object"
	"github.com/halvorsen/gitgo/refs"
	"github.com/halvorsen/gitgo/worktree"
)

// ErrAlreadyUpToDate is returned by Merge when theirs is already an
// ancestor of HEAD.
var ErrAlreadyUpToDate = errors.New("already up to date")

// MergeResult reports what Merge did.
type MergeResult struct {
	// FastForward is true if no merge commit was created: HEAD simply
	// advanced to theirs.
	FastForward bool
	// Conflicts lists paths that couldn't be merged automatically. When
	// non-empty, the merge commit is not created; the caller must
	// resolve conflicts and commit manually.
	Conflicts []string
	Commit    githash.Oid
}

// Merge merges branchName into the current branch.
func (r *Repository) Merge(branchName string) (*MergeResult, error) {
	full := refs.LocalBranchFullName(branchName)
	theirsRef, err := r.Store.Reference(full)
	if err != nil {
		if errors.Is(err, refs.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", branchName, ErrBranchNotFound)
		}
		return nil, fmt.Errorf("could not resolve %s: %w", branchName, err)
	}
	return r.mergeInto(theirsRef.Target(), full, fmt.Sprintf("Merge branch '%s'\n", branchName))
}

// mergeInto merges theirs into the current branch. label is the ref
// that advances when HEAD is not symbolic; message is the synthesized
// merge commit's message. Both Merge and Pull funnel through
// this: Pull's "branch" is FETCH_HEAD's merge candidate rather than a
// local branch ref, so it has no refs.LocalBranchFullName to resolve.
func (r *Repository) mergeInto(theirs githash.Oid, label, message string) (*MergeResult, error) {
	ours, head, err := r.headCommit()
	if err != nil {
		return nil, err
	}

	if ours.IsZero() {
		// HEAD's own chain doesn't resolve yet (no commit exists for
		// its branch to point at), so r.headCommit's head is always nil
		// here; read HEAD's raw symbolic target instead of relying on it.
		ourBranch := "refs/heads/" + initialBranchName
		if target, err := r.headSymbolicTarget(); err == nil {
			ourBranch = target
		}
		if err := r.WT.UpdateFromCommit(githash.NullOid, theirs); err != nil {
			return nil, fmt.Errorf("could not fast-forward: %w", err)
		}
		if err := r.Store.WriteReference(refs.NewReference(ourBranch, theirs)); err != nil {
			return nil, fmt.Errorf("could not fast-forward %s: %w", ourBranch, err)
		}
		return &MergeResult{FastForward: true, Commit: theirs}, nil
	}

	if ours == theirs {
		return nil, ErrAlreadyUpToDate
	}

	alreadyMerged, err := object.IsAncestor(r.commitLookup, ours, theirs)
	if err != nil {
		return nil, fmt.Errorf("could not check ancestry: %w", err)
	}
	if alreadyMerged {
		return nil, ErrAlreadyUpToDate
	}

	isFF, err := object.IsAncestor(r.commitLookup, theirs, ours)
	if err != nil {
		return nil, fmt.Errorf("could not check ancestry: %w", err)
	}
	if isFF {
		if err := r.WT.UpdateFromCommit(ours, theirs); err != nil {
			return nil, fmt.Errorf("could not fast-forward: %w", err)
		}
		ourBranch := label
		if head != nil && head.Type() == refs.SymbolicRef {
			ourBranch = head.SymbolicTarget()
		}
		if err := r.Store.WriteReference(refs.NewReference(ourBranch, theirs)); err != nil {
			return nil, fmt.Errorf("could not fast-forward %s: %w", ourBranch, err)
		}
		return &MergeResult{FastForward: true, Commit: theirs}, nil
	}

	mergeResult, err := r.WT.UpdateFromMerge(ours, theirs)
	if errors.Is(err, worktree.ErrConflict) {
		if err := r.Store.WriteReference(refs.NewReference(refs.MergeHead, theirs)); err != nil {
			return nil, fmt.Errorf("could not write MERGE_HEAD: %w", err)
		}
		return &MergeResult{Conflicts: mergeResult.Conflicts}, err
	}
	if err != nil {
		return nil, fmt.Errorf("could not merge: %w", err)
	}

	treeOid, err := r.WriteTree()
	if err != nil {
		return nil, err
	}
	name, _ := r.Config.UserName()
	email, _ := r.Config.UserEmail()
	author := object.NewSignature(name, email)
	c := object.NewCommit(treeOid, author, object.CommitOptions{
		Message:   message,
		ParentIDs: []githash.Oid{ours, theirs},
	})
	commitOid, err := r.Store.WriteObject(c.ToObject())
	if err != nil {
		return nil, err
	}

	currentBranch := label
	if head != nil && head.Type() == refs.SymbolicRef {
		currentBranch = head.SymbolicTarget()
	}
	if err := r.Store.WriteReference(refs.NewReference(currentBranch, commitOid)); err != nil {
		return nil, fmt.Errorf("could not update %s: %w", currentBranch, err)
	}

	return &MergeResult{Commit: commitOid}, nil
}

// commitLookup adapts the store to object.CommitLookup.
func (r *Repository) commitLookup(id githash.Oid) (*object.Commit, error) {
	o, err := r.Store.Object(id)
	if err != nil {
		return nil, err
	}
	return o.AsCommit()
}
