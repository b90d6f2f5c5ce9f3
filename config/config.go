// Package config resolves and loads the configuration of a repository,
// whether it comes from the environment, from explicit options, or from
// the gitconfig files on disk.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/halvorsen/gitgo/internal/env"
	"github.com/halvorsen/gitgo/internal/gitpath"
	"github.com/halvorsen/gitgo/internal/pathutil"
	"github.com/spf13/afero"
)

// ErrNoWorkTreeAlone is thrown when a work tree path is given without
// a git path
var ErrNoWorkTreeAlone = errors.New("cannot specify a work tree without also specifying a git dir")

// Config represents the config of a repository, whether it's from
// the various config files or from the options that can be set using
// the env https://git-scm.com/book/en/v2/Git-Internals-Environment-Variables
//
// If you decide to create a Config by yourself, make sure to set correct
// values everywhere
type Config struct {
	// FS represents the file system implementation to use to look for
	// files and directories.
	// Defaults to the regular filesystem.
	FS afero.Fs

	// fromFiles contains a reference to the config values held in
	// files
	fromFiles *FileAggregate

	// GitDirPath represents the path to the .git directory
	// Maps to $GIT_DIR if set
	// Defaults to finding a ".git" folder in the current directory,
	// going up in the tree until reaching /
	GitDirPath string
	// WorkTreePath represents the path to the working tree
	// Maps to $GIT_WORK_TREE
	// Defaults to $(GitDirPath)/.. or $(current-dir) depending on if
	// GitDirPath was set or not.
	WorkTreePath string
	// ObjectDirPath represents the path to the .git/objects directory
	// Maps to $GIT_OBJECT_DIRECTORY
	// Defaults to $(GitDirPath)/objects
	ObjectDirPath string
	// LocalConfig represents the config file to load
	// Maps to $GIT_CONFIG
	// Defaults to $(GitDirPath)/config if not set
	LocalConfig string
	// Prefix contains the base for finding the system configuration file.
	// $(prefix)/etc/gitconfig
	// Maps to $PREFIX
	// Defaults to an empty string
	Prefix string
	// SkipSystemConfig states whether we should use the system config or not
	// Maps to $GIT_CONFIG_NOSYSTEM
	// Defaults to false
	SkipSystemConfig bool
}

// LoadConfigOptions represents all the params used to set the default
// values of a Config object
type LoadConfigOptions struct {
	// FS represents the file system implementation to use to look for
	// files and directories.
	// Defaults to the regular filesystem.
	FS afero.Fs
	// WorkingDirectory represents the current working directory
	// Defaults to the current working directory
	WorkingDirectory string
	// WorkTreePath corresponds to the directory that should contain the .git.
	// Set this value to change the default behavior and overwrite
	// $GIT_WORK_TREE.
	WorkTreePath string
	// GitDirPath corresponds to the .git directory
	// Set this value to change the default behavior and overwrite
	// $GIT_DIR.
	GitDirPath string
	// IsBare defines if the repo is bare. A bare repo has no work tree.
	IsBare bool
	// SkipGitDirLookUp disables automatic lookup of the .git directory.
	// Defaults to false, meaning that if no path is provided to
	// $GitDirPath or $GIT_DIR, the method will look for a .git dir in
	// $WorkingDirectory and will go up the tree until it finds one.
	//
	// You should only set this value to true if you want to initialize a
	// new repository.
	SkipGitDirLookUp bool
}

// envOverrides mirrors the subset of Config fields that the environment
// can set, so it can be merged onto a Config using mergo instead of a
// hand-written chain of "if opts.X != '' { p.X = opts.X }" assignments.
type envOverrides struct {
	GitDirPath       string
	WorkTreePath     string
	ObjectDirPath    string
	LocalConfig      string
	Prefix           string
	SkipSystemConfig bool
}

// LoadConfig returns a new Config that fetches its defaults from the
// env. This is what you want to use to give your users some control
// over git. If you want something more direct without control, use
// LoadConfigSkipEnv().
func LoadConfig(e *env.Env, p LoadConfigOptions) (*Config, error) {
	skipSystemConfig := false
	switch strings.ToLower(e.Get("GIT_CONFIG_NOSYSTEM")) {
	case "yes", "1", "true":
		skipSystemConfig = true
	}

	overrides := envOverrides{
		GitDirPath:       e.Get("GIT_DIR"),
		WorkTreePath:     e.Get("GIT_WORK_TREE"),
		ObjectDirPath:    e.Get("GIT_OBJECT_DIRECTORY"),
		SkipSystemConfig: skipSystemConfig,
		LocalConfig:      e.Get("GIT_CONFIG"),
		Prefix:           e.Get("PREFIX"),
	}

	opts := &Config{}
	if err := mergeEnvOverrides(opts, overrides); err != nil {
		return nil, err
	}

	if err := setConfig(e, opts, p); err != nil {
		return nil, err
	}
	return opts, nil
}

// LoadConfigSkipEnv returns a new Config that skips the env
// and uses the default values
func LoadConfigSkipEnv(opts LoadConfigOptions) (*Config, error) {
	return LoadConfig(env.NewFromKVList(nil), opts)
}

func setConfig(e *env.Env, p *Config, opts LoadConfigOptions) (err error) {
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	p.FS = opts.FS

	// FIXME: Ultimately we should get this from afero, but
	// there are no methods for that
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("could not get the current directory: %w", err)
	}
	if opts.WorkingDirectory == "" {
		opts.WorkingDirectory = wd
	}
	if !filepath.IsAbs(opts.WorkingDirectory) {
		opts.WorkingDirectory = filepath.Join(wd, opts.WorkingDirectory)
	}

	// $GIT_WORK_TREE and --work-tree cannot be set if $GIT_DIR or
	// --git-dir isn't set. core.worktree isn't affected
	if opts.GitDirPath == "" && p.GitDirPath == "" && (opts.WorkTreePath != "" || p.WorkTreePath != "") {
		return ErrNoWorkTreeAlone
	}

	// GitDir rules:
	// - p.GitDirPath contains either nothing or $GIT_DIR
	// - opts.GitDirPath contains either nothing or a value used to override
	//   p.GitDirPath.
	// - If nothing set, a .git directory will be looked for by walking up
	//   the current directory.
	// - If relative, the path will be appended to the current working
	//   directory.
	if opts.GitDirPath != "" {
		p.GitDirPath = opts.GitDirPath
	}
	guessedWorkingTree := opts.WorkingDirectory
	switch p.GitDirPath {
	default:
		if !filepath.IsAbs(p.GitDirPath) {
			p.GitDirPath = filepath.Join(opts.WorkingDirectory, p.GitDirPath)
		}
	case "":
		if !opts.SkipGitDirLookUp {
			guessedWorkingTree, err = pathutil.WorkingTreeFromPath(opts.WorkingDirectory)
			if err != nil {
				return fmt.Errorf("could not find working tree: %w", err)
			}
		}
		p.GitDirPath = filepath.Join(guessedWorkingTree, gitpath.DotGitPath)
	}

	// LocalConfig rules:
	// - p.LocalConfig contains either nothing or a path to .git/config
	// - Fallback to $(GitDirPath)/config
	//
	// If relative, the path will be appended to the current working
	// directory.
	if p.LocalConfig == "" {
		p.LocalConfig = filepath.Join(p.GitDirPath, gitpath.ConfigPath)
	}
	if !filepath.IsAbs(p.LocalConfig) {
		p.LocalConfig = filepath.Join(opts.WorkingDirectory, p.LocalConfig)
	}

	// ObjectDirPath rules:
	// - p.ObjectDirPath contains either nothing or a path to .git/objects
	// - Fallback to $(GitDirPath)/objects
	//
	// If relative, the path will be appended to the current working
	// directory.
	if p.ObjectDirPath == "" {
		p.ObjectDirPath = filepath.Join(p.GitDirPath, gitpath.ObjectsPath)
	}
	if !filepath.IsAbs(p.ObjectDirPath) {
		p.ObjectDirPath = filepath.Join(opts.WorkingDirectory, p.ObjectDirPath)
	}

	p.fromFiles, err = NewFileAggregate(e, p)
	if err != nil {
		return fmt.Errorf("could not load config files: %w", err)
	}

	// Worktree rules:
	//
	// - core.worktree contains either nothing or the default path to
	//   the working tree.
	// - p.WorkTreePath contains either nothing or $GIT_WORK_TREE.
	//   It overrides core.worktree
	// - opts.WorkTreePath contains either nothing or a path to the
	//   working tree.
	//   It overrides p.WorkTreePath
	// - guessedWorkingTree contains either nothing or the path containing
	//   the .git directory.
	//   It's used as fallback for opts.WorkTreePath
	// - Fallback on the current working directory
	//
	// If any path is relative, it will be relative to the current
	// working directory
	if path, ok := p.fromFiles.WorkTree(); ok {
		p.WorkTreePath = path
	}
	if opts.WorkTreePath != "" {
		p.WorkTreePath = opts.WorkTreePath
	}
	// if the repo is bare then we don't automatically set a working tree
	// if none are provided
	if p.WorkTreePath == "" && !opts.IsBare {
		p.WorkTreePath = guessedWorkingTree
	}
	if p.WorkTreePath != "" && !filepath.IsAbs(p.WorkTreePath) {
		p.WorkTreePath = filepath.Join(opts.WorkingDirectory, p.WorkTreePath)
	}

	return nil
}

// UserName returns the user.name value used to sign commits, reading
// local config first and falling back to global config.
func (cfg *Config) UserName() (string, bool) {
	if cfg.fromFiles == nil {
		return "", false
	}
	return cfg.fromFiles.UserName()
}

// UserEmail returns the user.email value used to sign commits, reading
// local config first and falling back to global config.
func (cfg *Config) UserEmail() (string, bool) {
	if cfg.fromFiles == nil {
		return "", false
	}
	return cfg.fromFiles.UserEmail()
}

// UpdateUserName updates the local user.name option.
func (cfg *Config) UpdateUserName(name string) {
	if cfg.fromFiles != nil {
		cfg.fromFiles.UpdateUserName(name)
	}
}

// UpdateUserEmail updates the local user.email option.
func (cfg *Config) UpdateUserEmail(email string) {
	if cfg.fromFiles != nil {
		cfg.fromFiles.UpdateUserEmail(email)
	}
}

// Remote returns the remote named name, if one is configured.
func (cfg *Config) Remote(name string) (RemoteConfig, bool) {
	if cfg.fromFiles == nil {
		return RemoteConfig{}, false
	}
	return cfg.fromFiles.Remote(name)
}

// SetRemote creates or updates the remote named name, merging the
// provided fields onto whatever is already configured for it.
func (cfg *Config) SetRemote(name string, update RemoteConfig) error {
	if cfg.fromFiles == nil {
		return errors.New("config: no file aggregate loaded")
	}
	return cfg.fromFiles.SetRemote(name, update)
}

// RemoveRemote deletes the remote named name.
func (cfg *Config) RemoveRemote(name string) {
	if cfg.fromFiles == nil {
		return
	}
	cfg.fromFiles.RemoveRemote(name)
}

// List returns every key set in the local config file as
// "section.key=value" lines.
func (cfg *Config) List() []string {
	if cfg.fromFiles == nil {
		return nil
	}
	return cfg.fromFiles.List()
}

// Save persists any local changes (remotes, core.bare, etc.) back to
// LocalConfig.
func (cfg *Config) Save() error {
	if cfg.fromFiles == nil {
		return errors.New("config: no file aggregate loaded")
	}
	return cfg.fromFiles.Save()
}

// RepoFormatVersion returns the version of the format of the repo
func (cfg *Config) RepoFormatVersion() (version int, ok bool) {
	if cfg.fromFiles == nil {
		return 0, false
	}
	return cfg.fromFiles.RepoFormatVersion()
}

// UpdateRepoFormatVersion updates the version of the format of the repo.
func (cfg *Config) UpdateRepoFormatVersion(ver string) {
	if cfg.fromFiles != nil {
		cfg.fromFiles.UpdateRepoFormatVersion(ver)
	}
}

// IsBare returns whether the repository is bare or not.
func (cfg *Config) IsBare() (isBare, ok bool) {
	if cfg.fromFiles == nil {
		return false, false
	}
	return cfg.fromFiles.IsBare()
}

// UpdateIsBare updates the core.bare option.
func (cfg *Config) UpdateIsBare(isBare bool) {
	if cfg.fromFiles != nil {
		cfg.fromFiles.UpdateIsBare(isBare)
	}
}

// DefaultBranch returns the branch name to use when creating a new
// repository.
func (cfg *Config) DefaultBranch() (name string, ok bool) {
	if cfg.fromFiles == nil {
		return "", false
	}
	return cfg.fromFiles.DefaultBranch()
}
