// Package fsbackend implements the backend.Backend interface on top of
// a filesystem, storing loose objects and refs the same way the git
// CLI lays out a .git directory.
package fsbackend

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/halvorsen/gitgo/backend"
	"github.com/halvorsen/gitgo/config"
	"github.com/halvorsen/gitgo/internal/cache"
	"github.com/halvorsen/gitgo/internal/gitpath"
	"github.com/halvorsen/gitgo/internal/syncutil"
	"github.com/spf13/afero"
)

// we make sure the struct implements the interface
var _ backend.Backend = (*Backend)(nil)

// defaultCacheSize bounds how many decompressed objects are kept in
// memory: large enough to make repeated Object() lookups during a
// single operation (walking history, diffing trees) cheap without
// holding an entire large repository's objects in RAM.
const defaultCacheSize = 1024

// defaultMutexShards bounds the number of stripes objectMu spreads its
// locking over. Two oids hashing to the same shard only serialize
// each other, they don't block unrelated objects.
const defaultMutexShards = 64

// defaultBranchName is the branch HEAD points to right after Init
// when no "init.defaultBranch" config overrides it.
const defaultBranchName = "master"

// Backend is a Backend implementation that uses the filesystem to
// store data.
type Backend struct {
	// fs is the filesystem objects/refs are read from and written to.
	// Defaults to the real OS filesystem; swappable for tests and for
	// in-memory repository operations.
	fs afero.Fs
	// root is the absolute path to the .git directory.
	root string

	// objectMu serializes concurrent access to a given object id so two
	// goroutines can't race writing the same loose object.
	objectMu *syncutil.NamedMutex
	// cache holds recently decompressed objects, keyed by githash.Oid.
	cache *cache.LRU
	// looseObjects tracks which oids exist as loose objects on disk,
	// populated lazily from WriteObject and from a directory walk the
	// first time it's needed.
	looseObjects   sync.Map
	looseObjectsOk bool
	looseMu        sync.Mutex
}

// New returns a new Backend rooted at dotGitPath, using the real
// filesystem.
func New(dotGitPath string) *Backend {
	return NewWithFs(afero.NewOsFs(), dotGitPath)
}

// NewWithFs returns a new Backend rooted at dotGitPath, reading and
// writing through fs. Tests use this with an afero.MemMapFs.
func NewWithFs(fs afero.Fs, dotGitPath string) *Backend {
	return &Backend{
		fs:       fs,
		root:     dotGitPath,
		objectMu: syncutil.NewNamedMutex(defaultMutexShards),
		cache:    cache.NewLRU(defaultCacheSize),
	}
}

// Close frees the resources held by the backend. The filesystem
// backend holds no file descriptors between calls, so this is a
// no-op.
func (b *Backend) Close() error {
	return nil
}

// Init initializes a repository: creates the standard .git directory
// layout and a default local config.
func (b *Backend) Init() error {
	dirs := []string{
		gitpath.ObjectsPath,
		gitpath.RefsTagsPath,
		gitpath.RefsHeadsPath,
		gitpath.RefsRemotesPath,
		gitpath.ObjectsInfoPath,
		gitpath.ObjectsPackPath,
	}
	for _, d := range dirs {
		fullPath := filepath.Join(b.root, d)
		if err := b.fs.MkdirAll(fullPath, 0o750); err != nil {
			return fmt.Errorf("could not create directory %s: %w", d, err)
		}
	}

	cfg, err := config.LoadConfigSkipEnv(config.LoadConfigOptions{
		FS:               b.fs,
		GitDirPath:       b.root,
		SkipGitDirLookUp: true,
	})
	if err != nil {
		return fmt.Errorf("could not build default config: %w", err)
	}

	branch, ok := cfg.DefaultBranch()
	if !ok || branch == "" {
		branch = defaultBranchName
	}

	files := []struct {
		path    string
		content []byte
	}{
		{
			path:    gitpath.DescriptionPath,
			content: []byte("Unnamed repository; edit this file 'description' to name the repository.\n"),
		},
		{
			path:    gitpath.HEADPath,
			content: []byte("ref: refs/heads/" + branch + "\n"),
		},
	}
	for _, f := range files {
		fullPath := filepath.Join(b.root, f.path)
		if f.path == gitpath.HEADPath {
			// re-running Init keeps whatever HEAD already points to
			if exists, err := afero.Exists(b.fs, fullPath); err == nil && exists {
				continue
			}
		}
		if err := afero.WriteFile(b.fs, fullPath, f.content, 0o644); err != nil {
			return fmt.Errorf("could not create file %s: %w", f.path, err)
		}
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("could not persist default config: %w", err)
	}

	return nil
}
