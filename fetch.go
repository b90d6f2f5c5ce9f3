package gitgo

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/reachability"
	"github.com/halvorsen/gitgo/refs"
	"github.com/spf13/afero"
)

// ErrRemoteNotFound is returned by Fetch/Push/Pull when the named
// remote has no "url" configured.
var ErrRemoteNotFound = errors.New("remote not found")

// FetchResult reports what Fetch did.
type FetchResult struct {
	// ID is the oid the remote branch resolved to.
	ID githash.Oid
	// Copied is how many objects were copied into the local store.
	Copied int
}

// Fetch resolves branch on remoteName's repository, copies every
// object reachable from it that this repository doesn't already have,
// advances refs/remotes/<remoteName>/<branch> to match, and records
// the fetch in FETCH_HEAD. Only filesystem-path remotes are supported.
func (r *Repository) Fetch(remoteName, branch string) (*FetchResult, error) {
	remoteRepo, remoteURL, err := r.openRemote(remoteName)
	if err != nil {
		return nil, err
	}
	defer remoteRepo.Close() //nolint:errcheck // best effort; the fetch itself already succeeded or failed

	remoteRef, err := remoteRepo.Store.Reference(refs.LocalBranchFullName(branch))
	if err != nil {
		return nil, fmt.Errorf("could not resolve %s on remote %s: %w", branch, remoteName, err)
	}
	remoteOid := remoteRef.Target()

	trackingName := refs.RemoteBranchFullName(remoteName, branch)
	var localOid githash.Oid
	if tracking, err := r.Store.Reference(trackingName); err == nil {
		localOid = tracking.Target()
	}

	missing, err := reachability.MissingBetween(remoteRepo.Store, r.Store, remoteOid, localOid)
	if err != nil {
		return nil, fmt.Errorf("could not compute missing objects: %w", err)
	}
	for id := range missing {
		obj, err := remoteRepo.Store.Object(id)
		if err != nil {
			return nil, fmt.Errorf("could not read object %s from remote: %w", id, err)
		}
		if _, err := r.Store.WriteObject(obj); err != nil {
			return nil, fmt.Errorf("could not copy object %s: %w", id, err)
		}
	}

	if err := r.Store.WriteReference(refs.NewReference(trackingName, remoteOid)); err != nil {
		return nil, fmt.Errorf("could not update %s: %w", trackingName, err)
	}

	entry := refs.FetchHeadEntry{
		ID:          remoteOid,
		ForMerge:    true,
		Description: fmt.Sprintf("branch '%s' of %s", branch, remoteURL),
	}
	if err := r.writeFetchHeadFile(entry); err != nil {
		return nil, err
	}

	return &FetchResult{ID: remoteOid, Copied: len(missing)}, nil
}

// writeFetchHeadFile overwrites FETCH_HEAD with a single entry. This
// engine fetches one branch at a time, so there's never more than one
// line to record.
func (r *Repository) writeFetchHeadFile(entry refs.FetchHeadEntry) error {
	p := filepath.Join(r.WT.GitDirPath, "FETCH_HEAD")
	if err := afero.WriteFile(r.WT.FS, p, refs.FormatFetchHead([]refs.FetchHeadEntry{entry}), 0o644); err != nil {
		return fmt.Errorf("could not write FETCH_HEAD: %w", err)
	}
	return nil
}

// readFetchHeadFile reads and parses FETCH_HEAD, returning
// refs.ErrNotFound if it doesn't exist yet.
func (r *Repository) readFetchHeadFile() ([]refs.FetchHeadEntry, error) {
	p := filepath.Join(r.WT.GitDirPath, "FETCH_HEAD")
	data, err := afero.ReadFile(r.WT.FS, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", refs.FetchHead, refs.ErrNotFound)
	}
	return refs.ParseFetchHead(data)
}

// openRemote resolves remoteName's configured URL and opens it as a
// repository. A "remote" is always another repository reachable by
// filesystem path; this engine has no network transport.
func (r *Repository) openRemote(remoteName string) (*Repository, string, error) {
	remote, ok := r.Config.Remote(remoteName)
	if !ok || remote.URL == "" {
		return nil, "", fmt.Errorf("%s: %w", remoteName, ErrRemoteNotFound)
	}
	remoteRepo, err := Open(remote.URL, InitOptions{FS: r.WT.FS})
	if err != nil {
		return nil, "", fmt.Errorf("could not open remote %s at %s: %w", remoteName, remote.URL, err)
	}
	return remoteRepo, remote.URL, nil
}
