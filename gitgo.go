// Package gitgo implements the porcelain layer of a Git-compatible
// source control engine: repository initialization, the plumbing
// commands (hash-object, cat-file), and the higher-level commands
// (add, commit, status, branch, checkout, merge, log, remote,
// fetch, push, pull, clone) built on top of the backend, refs,
// index, object, and worktree packages.
package gitgo

import (
	"fmt"

	"github.com/halvorsen/gitgo/backend"
	"github.com/halvorsen/gitgo/backend/fsbackend"
	"github.com/halvorsen/gitgo/config"
	"github.com/halvorsen/gitgo/internal/env"
	"github.com/halvorsen/gitgo/worktree"
	"github.com/spf13/afero"
)

// initialBranchName mirrors fsbackend's own default: the branch HEAD
// points to right after Init, before any commit exists to resolve it.
const initialBranchName = "master"

// Repository ties together a repository's object/ref store, its
// configuration, and its working-tree engine.
type Repository struct {
	Store  backend.Backend
	Config *config.Config
	WT     *worktree.Engine
}

// InitOptions controls repository creation.
type InitOptions struct {
	// FS is the filesystem to create the repository on. Defaults to
	// the real OS filesystem.
	FS afero.Fs
}

// Init creates a new repository rooted at workingDirectory (its
// working tree) with a .git directory inside it, and returns a
// Repository ready for use. Running Init against an existing
// repository is safe: it recreates the standard layout without
// touching objects or refs that already exist.
func Init(workingDirectory string, opts InitOptions) (*Repository, error) {
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}

	cfg, err := config.LoadConfig(env.NewFromOs(), config.LoadConfigOptions{
		FS:               opts.FS,
		WorkingDirectory: workingDirectory,
		SkipGitDirLookUp: true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not build repository config: %w", err)
	}

	store := fsbackend.NewWithFs(opts.FS, cfg.GitDirPath)
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("could not initialize repository: %w", err)
	}

	return open(store, cfg, opts.FS)
}

// Open resolves an existing repository starting from workingDirectory,
// walking up the directory tree to find a .git directory the same way
// the git CLI does.
func Open(workingDirectory string, opts InitOptions) (*Repository, error) {
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}

	cfg, err := config.LoadConfig(env.NewFromOs(), config.LoadConfigOptions{
		FS:               opts.FS,
		WorkingDirectory: workingDirectory,
	})
	if err != nil {
		return nil, fmt.Errorf("could not build repository config: %w", err)
	}

	store := fsbackend.NewWithFs(opts.FS, cfg.GitDirPath)
	return open(store, cfg, opts.FS)
}

func open(store backend.Backend, cfg *config.Config, fs afero.Fs) (*Repository, error) {
	return &Repository{
		Store:  store,
		Config: cfg,
		WT: &worktree.Engine{
			Store:        store,
			FS:           fs,
			WorkTreePath: cfg.WorkTreePath,
			GitDirPath:   cfg.GitDirPath,
		},
	}, nil
}

// Close releases any resources the repository's backend holds.
func (r *Repository) Close() error {
	return r.Store.Close()
}
