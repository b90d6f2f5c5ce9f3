package gitgo

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/object"
	"github.com/halvorsen/gitgo/refs"
	"github.com/spf13/afero"
)

// ErrNothingToCommit is returned when Commit, without AllowEmpty, is
// called with an index whose tree matches HEAD's commit tree exactly.
var ErrNothingToCommit = errors.New("nothing to commit, working tree clean")

// CommitOptions controls Commit.
type CommitOptions struct {
	Message   string
	Author    object.Signature
	Committer object.Signature
	// AllowEmpty lets a commit be created even if its tree is identical
	// to its parent's, matching `git commit --allow-empty`.
	AllowEmpty bool
}

// headCommit returns the commit HEAD currently resolves to, and the
// resolved HEAD reference itself. A repository with no commits yet
// returns a zero oid and a nil reference rather than an error.
func (r *Repository) headCommit() (githash.Oid, *refs.Reference, error) {
	head, err := r.Store.Reference(refs.Head)
	if err != nil {
		if errors.Is(err, refs.ErrNotFound) {
			return githash.NullOid, nil, nil
		}
		return githash.NullOid, nil, fmt.Errorf("could not resolve HEAD: %w", err)
	}
	return head.Target(), head, nil
}

// headSymbolicTarget reads HEAD's immediate, unresolved content and
// returns the ref it points to. Unlike r.Store.Reference(refs.Head),
// this doesn't fail when that target ref doesn't exist on disk yet
// (the case right before a repository's first commit): it reports
// what HEAD says, not what it resolves to.
func (r *Repository) headSymbolicTarget() (string, error) {
	data, err := afero.ReadFile(r.WT.FS, filepath.Join(r.WT.GitDirPath, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("could not read HEAD: %w", err)
	}
	data = bytes.TrimSpace(data)
	if !bytes.HasPrefix(data, []byte("ref: ")) {
		return "", errors.New("HEAD is detached")
	}
	return string(data[len("ref: "):]), nil
}

// Commit snapshots the current index into a new commit object,
// parented on HEAD (or orphan if there is none yet), and advances the
// branch HEAD points to.
func (r *Repository) Commit(opts CommitOptions) (githash.Oid, error) {
	treeOid, err := r.WriteTree()
	if err != nil {
		return githash.NullOid, err
	}

	parentOid, head, err := r.headCommit()
	if err != nil {
		return githash.NullOid, err
	}

	var parents []githash.Oid
	if !parentOid.IsZero() {
		parents = []githash.Oid{parentOid}

		if !opts.AllowEmpty {
			parentCommitObj, err := r.Store.Object(parentOid)
			if err != nil {
				return githash.NullOid, fmt.Errorf("could not load HEAD commit: %w", err)
			}
			parentCommit, err := parentCommitObj.AsCommit()
			if err != nil {
				return githash.NullOid, fmt.Errorf("could not parse HEAD commit: %w", err)
			}
			if parentCommit.TreeID() == treeOid {
				return githash.NullOid, ErrNothingToCommit
			}
		}
	}

	author := opts.Author
	if author.IsZero() {
		name, _ := r.Config.UserName()
		email, _ := r.Config.UserEmail()
		author = object.NewSignature(name, email)
	}
	committer := opts.Committer
	if committer.IsZero() {
		committer = author
	}

	c := object.NewCommit(treeOid, author, object.CommitOptions{
		Message:   opts.Message,
		Committer: committer,
		ParentIDs: parents,
	})
	commitOid, err := r.Store.WriteObject(c.ToObject())
	if err != nil {
		return githash.NullOid, err
	}

	// Resolving HEAD fails on the very first commit (its target branch
	// ref doesn't exist until this commit creates it), so head is nil
	// in exactly the common case of an empty repository: fall back to
	// reading HEAD's own unresolved content instead.
	branchName := "refs/heads/" + initialBranchName
	if head != nil && head.Type() == refs.SymbolicRef {
		branchName = head.SymbolicTarget()
	} else if head != nil {
		// detached HEAD: advance HEAD itself, not a branch
		branchName = refs.Head
	} else if target, err := r.headSymbolicTarget(); err == nil {
		branchName = target
	}
	if err := r.Store.WriteReference(refs.NewReference(branchName, commitOid)); err != nil {
		return githash.NullOid, fmt.Errorf("could not update %s: %w", branchName, err)
	}

	return commitOid, nil
}

// LogEntry is one commit in a Log result.
type LogEntry struct {
	ID     githash.Oid
	Commit *object.Commit
}

// Log returns the commit history reachable from start (HEAD's commit
// if start is the zero oid), oldest-last, following first parents
// only.
func (r *Repository) Log(start githash.Oid) ([]LogEntry, error) {
	if start.IsZero() {
		head, _, err := r.headCommit()
		if err != nil {
			return nil, err
		}
		if head.IsZero() {
			return nil, nil
		}
		start = head
	}

	var entries []LogEntry
	id := start
	for !id.IsZero() {
		o, err := r.Store.Object(id)
		if err != nil {
			return nil, fmt.Errorf("could not load commit %s: %w", id, err)
		}
		c, err := o.AsCommit()
		if err != nil {
			return nil, fmt.Errorf("could not parse commit %s: %w", id, err)
		}
		entries = append(entries, LogEntry{ID: id, Commit: c})

		parents := c.ParentIDs()
		if len(parents) == 0 {
			break
		}
		id = parents[0]
	}
	return entries, nil
}
