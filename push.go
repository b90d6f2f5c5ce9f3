package gitgo

import (
	"fmt"

	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/reachability"
	"github.com/halvorsen/gitgo/refs"
)

// PushResult reports what Push did.
type PushResult struct {
	// ID is the oid the remote branch now points to.
	ID githash.Oid
	// Copied is how many objects were copied into the remote store.
	Copied int
}

// Push resolves branch on the current repository, copies every
// object reachable from it that remoteName's repository doesn't
// already have, and advances the remote's branch ref to match.
func (r *Repository) Push(remoteName, branch string) (*PushResult, error) {
	remoteRepo, _, err := r.openRemote(remoteName)
	if err != nil {
		return nil, err
	}
	defer remoteRepo.Close() //nolint:errcheck // best effort; the push itself already succeeded or failed

	full := refs.LocalBranchFullName(branch)
	localRef, err := r.Store.Reference(full)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", branch, ErrBranchNotFound)
	}
	localOid := localRef.Target()

	var remoteOid githash.Oid
	if existing, err := remoteRepo.Store.Reference(full); err == nil {
		remoteOid = existing.Target()
	}

	missing, err := reachability.MissingBetween(r.Store, remoteRepo.Store, localOid, remoteOid)
	if err != nil {
		return nil, fmt.Errorf("could not compute missing objects: %w", err)
	}
	for id := range missing {
		obj, err := r.Store.Object(id)
		if err != nil {
			return nil, fmt.Errorf("could not read object %s: %w", id, err)
		}
		if _, err := remoteRepo.Store.WriteObject(obj); err != nil {
			return nil, fmt.Errorf("could not copy object %s to remote: %w", id, err)
		}
	}

	if err := remoteRepo.Store.WriteReference(refs.NewReference(full, localOid)); err != nil {
		return nil, fmt.Errorf("could not update %s on remote: %w", full, err)
	}

	return &PushResult{ID: localOid, Copied: len(missing)}, nil
}
