package gitgo

import (
	"errors"
	"fmt"

	"github.com/halvorsen/gitgo/refs"
)

// ErrBranchExists is returned by Branch when name already exists.
var ErrBranchExists = errors.New("branch already exists")

// Branch creates a new branch named name pointing at HEAD's current
// commit. An empty name does nothing; Branches lists existing branches.
func (r *Repository) Branch(name string) error {
	if name == "" {
		return nil
	}

	head, _, err := r.headCommit()
	if err != nil {
		return err
	}
	if head.IsZero() {
		return errors.New("cannot create a branch: no commits yet")
	}

	full := refs.LocalBranchFullName(name)
	if err := r.Store.WriteReferenceSafe(refs.NewReference(full, head)); err != nil {
		if errors.Is(err, refs.ErrExists) {
			return fmt.Errorf("%s: %w", name, ErrBranchExists)
		}
		return fmt.Errorf("could not create branch %s: %w", name, err)
	}
	return nil
}

// Branches returns the short names of every local branch.
func (r *Repository) Branches() ([]string, error) {
	var names []string
	err := r.Store.WalkReferences(func(ref *refs.Reference) error {
		if refs.IsBranch(ref.Name()) {
			names = append(names, refs.LocalBranchShortName(ref.Name()))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not list branches: %w", err)
	}
	return names, nil
}

// CurrentBranch returns the short name of the branch HEAD points to,
// and false if HEAD is detached (points directly at a commit).
func (r *Repository) CurrentBranch() (string, bool, error) {
	head, err := r.Store.Reference(refs.Head)
	if err != nil {
		if errors.Is(err, refs.ErrNotFound) {
			// Unborn branch: HEAD names a branch no commit exists for
			// yet, so resolution fails but HEAD's own content still says
			// which branch we're on.
			if target, terr := r.headSymbolicTarget(); terr == nil {
				return refs.LocalBranchShortName(target), true, nil
			}
			return initialBranchName, true, nil
		}
		return "", false, fmt.Errorf("could not resolve HEAD: %w", err)
	}
	if head.Type() != refs.SymbolicRef {
		return "", false, nil
	}
	return refs.LocalBranchShortName(head.SymbolicTarget()), true, nil
}
