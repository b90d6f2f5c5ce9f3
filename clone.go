package gitgo

import (
	"errors"
	"fmt"

	"github.com/halvorsen/gitgo/refs"
	"github.com/spf13/afero"
)

// ErrDetachedRemote is returned by Clone when src's HEAD isn't a
// branch (nothing for the new remote-tracking clone to follow).
var ErrDetachedRemote = errors.New("remote HEAD is detached, nothing to clone")

// CloneOptions controls Clone.
type CloneOptions struct {
	// FS is the filesystem both src and dst are resolved against.
	// Defaults to the real OS filesystem.
	FS afero.Fs
}

// Clone initializes a new repository at dst, configures a remote
// named "origin" pointing at src, and pulls src's current branch into
// it. src and dst are both local filesystem paths; this engine has no
// network transport.
func Clone(src, dst string, opts CloneOptions) (*Repository, error) {
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}

	srcRepo, err := Open(src, InitOptions{FS: opts.FS})
	if err != nil {
		return nil, fmt.Errorf("could not open source repository %s: %w", src, err)
	}
	defer srcRepo.Close() //nolint:errcheck // best effort; the clone itself already succeeded or failed

	branch, isBranch, err := srcRepo.CurrentBranch()
	if err != nil {
		return nil, fmt.Errorf("could not read source HEAD: %w", err)
	}
	if !isBranch {
		return nil, ErrDetachedRemote
	}

	dstRepo, err := Init(dst, InitOptions{FS: opts.FS})
	if err != nil {
		return nil, fmt.Errorf("could not initialize %s: %w", dst, err)
	}

	// Init always points HEAD at the default branch name; re-point it at
	// src's branch before pulling so the fast-forward in Pull writes to
	// (and HEAD keeps following) the branch clone is actually cloning.
	full := refs.LocalBranchFullName(branch)
	if err := dstRepo.Store.WriteReference(refs.NewSymbolicReference(refs.Head, full)); err != nil {
		return nil, fmt.Errorf("could not point HEAD at %s: %w", full, err)
	}

	if err := dstRepo.Remote("origin", src); err != nil {
		return nil, fmt.Errorf("could not configure origin: %w", err)
	}

	if _, err := dstRepo.Pull("origin", branch); err != nil {
		return nil, fmt.Errorf("could not pull %s from origin: %w", branch, err)
	}

	return dstRepo, nil
}
