package gitgo

import (
	"errors"
	"fmt"

	"github.com/halvorsen/gitgo/refs"
)

// ErrNoMergeCandidate is returned by Pull when a fetch produced no
// FETCH_HEAD entry marked for merge (shouldn't happen for the
// single-branch fetch this engine performs, but guards against an
// empty remote branch).
var ErrNoMergeCandidate = errors.New("no candidate for merging among fetched refs")

// Pull fetches branch from remoteName and merges it into the current
// branch, the equivalent of `git fetch` followed by `git merge
// FETCH_HEAD`.
func (r *Repository) Pull(remoteName, branch string) (*MergeResult, error) {
	if _, err := r.Fetch(remoteName, branch); err != nil {
		return nil, err
	}

	entries, err := r.readFetchHeadFile()
	if err != nil {
		return nil, err
	}
	candidate, ok := refs.MergeCandidate(entries)
	if !ok {
		return nil, ErrNoMergeCandidate
	}

	message := fmt.Sprintf("Merge remote-tracking branch '%s/%s'\n", remoteName, branch)
	return r.mergeInto(candidate.ID, refs.LocalBranchFullName(branch), message)
}
