package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"github.com/halvorsen/gitgo/internal/env"
	"gopkg.in/ini.v1"
)

// defaultLoadOption contains the params used to load the config files.
// Treat this as a const, don't ever change it from a method, even for
// testing.
var defaultLoadOption = ini.LoadOptions{ //nolint:gochecknoglobals
	SkipUnrecognizableLines: true,
}

// defaultConfig generates a basic default git config using the
// most common options
func defaultConfig() (*ini.File, error) {
	cfg := ini.Empty(defaultLoadOption)

	core := cfg.Section("core")
	coreCfg := map[string]string{
		"repositoryformatversion": "0",
		"filemode":                "true",
		"logallrefupdates":        "true",
		"ignorecase":              "true",
		"precomposeunicode":       "true",
	}
	for k, v := range coreCfg {
		if _, err := core.NewKey(k, v); err != nil {
			return nil, fmt.Errorf("could not set core.%s: %w", k, err)
		}
	}

	return cfg, nil
}

// RemoteConfig represents the subset of a [remote "<name>"] section
// relevant to fetch/push: its URL and the refspec used to map remote
// branches into the local refs namespace.
type RemoteConfig struct {
	URL   string
	Fetch string
	Push  string
}

// FileAggregate represents the aggregate of all the config files
// impacting a repository
type FileAggregate struct {
	cfg    *Config
	global *ini.File
	local  *ini.File
}

// Save persists the changes made to the config files
func (cfg *FileAggregate) Save() error {
	f, err := cfg.cfg.FS.Create(cfg.cfg.LocalConfig)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", cfg.cfg.LocalConfig, err)
	}
	if _, err := cfg.local.WriteTo(f); err != nil {
		f.Close() //nolint:errcheck // the write error is the one worth reporting
		return fmt.Errorf("could not write %s: %w", cfg.cfg.LocalConfig, err)
	}
	return f.Close()
}

// RepoFormatVersion returns the version of the format of the repo
func (cfg *FileAggregate) RepoFormatVersion() (version int, ok bool) {
	source := cfg.global
	if cfg.local.Section("core").HasKey("repositoryformatversion") {
		source = cfg.local
	}

	v, err := source.Section("core").Key("repositoryformatversion").Int()
	if err != nil {
		return 0, false
	}
	return v, true
}

// UpdateRepoFormatVersion updates the version of the format of the repo.
func (cfg *FileAggregate) UpdateRepoFormatVersion(ver string) {
	cfg.local.Section("core").Key("repositoryformatversion").SetValue(ver)
}

// DefaultBranch returns the branch name to use when creating a new
// repository.
// The branch name isn't checked and may be an invalid value
func (cfg *FileAggregate) DefaultBranch() (name string, ok bool) {
	source := cfg.global
	if cfg.local.Section("init").HasKey("defaultBranch") {
		source = cfg.local
	}

	v := source.Section("init").Key("defaultBranch").String()
	if v == "" {
		return "", false
	}
	return v, true
}

// WorkTree returns the path of the work-tree.
func (cfg *FileAggregate) WorkTree() (workTree string, ok bool) {
	source := cfg.global
	if cfg.local.Section("core").HasKey("worktree") {
		source = cfg.local
	}

	v := source.Section("core").Key("worktree").String()
	return v, v != ""
}

// IsBare returns whether the repository is bare or not.
func (cfg *FileAggregate) IsBare() (isBare, ok bool) {
	source := cfg.global
	if cfg.local.Section("core").HasKey("bare") {
		source = cfg.local
	}

	v, err := source.Section("core").Key("bare").Bool()
	if err != nil {
		return false, false
	}
	return v, true
}

// UpdateIsBare updates the core.bare option.
func (cfg *FileAggregate) UpdateIsBare(isBare bool) {
	cfg.local.Section("core").Key("bare").SetValue(strconv.FormatBool(isBare))
}

// UserName returns the user.name value used to sign commits.
func (cfg *FileAggregate) UserName() (name string, ok bool) {
	source := cfg.global
	if cfg.local.Section("user").HasKey("name") {
		source = cfg.local
	}
	v := source.Section("user").Key("name").String()
	return v, v != ""
}

// UserEmail returns the user.email value used to sign commits.
func (cfg *FileAggregate) UserEmail() (email string, ok bool) {
	source := cfg.global
	if cfg.local.Section("user").HasKey("email") {
		source = cfg.local
	}
	v := source.Section("user").Key("email").String()
	return v, v != ""
}

// UpdateUserName updates the local user.name option.
func (cfg *FileAggregate) UpdateUserName(name string) {
	cfg.local.Section("user").Key("name").SetValue(name)
}

// UpdateUserEmail updates the local user.email option.
func (cfg *FileAggregate) UpdateUserEmail(email string) {
	cfg.local.Section("user").Key("email").SetValue(email)
}

func remoteSectionName(name string) string {
	return fmt.Sprintf(`remote "%s"`, name)
}

// Remote returns the remote named name, reading from local config
// only: remotes aren't the kind of setting one expects to inherit
// from a global gitconfig.
func (cfg *FileAggregate) Remote(name string) (RemoteConfig, bool) {
	sectionName := remoteSectionName(name)
	if !cfg.local.HasSection(sectionName) {
		return RemoteConfig{}, false
	}
	sec := cfg.local.Section(sectionName)
	if !sec.HasKey("url") {
		return RemoteConfig{}, false
	}
	return RemoteConfig{
		URL:   sec.Key("url").String(),
		Fetch: sec.Key("fetch").String(),
		Push:  sec.Key("push").String(),
	}, true
}

// SetRemote creates or updates the [remote "name"] section, merging
// update onto whatever is already configured: a partially-filled
// RemoteConfig (e.g. just a new Push refspec) leaves the other fields
// untouched instead of blanking them out.
func (cfg *FileAggregate) SetRemote(name string, update RemoteConfig) error {
	existing, _ := cfg.Remote(name)
	if err := mergo.Merge(&existing, update, mergo.WithOverride); err != nil {
		return fmt.Errorf("could not merge remote %q: %w", name, err)
	}
	if existing.Fetch == "" {
		existing.Fetch = fmt.Sprintf("+refs/heads/*:refs/remotes/%s/*", name)
	}

	sec := cfg.local.Section(remoteSectionName(name))
	sec.Key("url").SetValue(existing.URL)
	sec.Key("fetch").SetValue(existing.Fetch)
	if existing.Push != "" {
		sec.Key("push").SetValue(existing.Push)
	}
	return nil
}

// RemoveRemote deletes the remote named name.
func (cfg *FileAggregate) RemoveRemote(name string) {
	cfg.local.DeleteSection(remoteSectionName(name))
}

// List returns every key set in the local config file as
// "section.key=value" lines. Subsection names render the way git
// prints them: [remote "origin"] becomes remote.origin.
func (cfg *FileAggregate) List() []string {
	var out []string
	for _, sec := range cfg.local.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		name := sec.Name()
		if i := strings.Index(name, ` "`); i >= 0 && strings.HasSuffix(name, `"`) {
			name = name[:i] + "." + name[i+2:len(name)-1]
		}
		for _, k := range sec.Keys() {
			out = append(out, fmt.Sprintf("%s.%s=%s", name, k.Name(), k.Value()))
		}
	}
	return out
}

// NewFileAggregate loads all the available config files and returns an object
// with accessor
func NewFileAggregate(e *env.Env, cfg *Config) (confFile *FileAggregate, err error) {
	confFile = &FileAggregate{
		cfg: cfg,
	}
	configPaths := getPaths(e, cfg)

	// Because we want to use afero instead of the file system, we cannot
	// just provide the file paths to ini.Load. Instead we need to open
	// all the files ourselves, provide the files to ini, and close everything.
	// We use []interface{} because "ini.Load" wants a slice of interfaces
	files := make([]interface{}, 0, len(configPaths))
	for _, p := range configPaths {
		_, sErr := cfg.FS.Stat(p)
		if sErr != nil {
			// not every config file is expected to exist on disk
			// so we skip all the ones that don't
			if errors.Is(sErr, os.ErrNotExist) {
				continue
			}
			err = fmt.Errorf("could not check file %s: %w", p, sErr)
			break
		}

		f, fErr := cfg.FS.Open(p)
		if fErr != nil {
			err = fmt.Errorf("could not open file %s: %w", p, fErr)
			break
		}
		files = append(files, f)
	}
	defer func() {
		// we need to cleanup the file descriptors to avoid a leak
		for _, f := range files {
			//nolint:errcheck // go-ini closes the files for us; this is
			// only here to prevent a FD leak if that behavior changes.
			f.(io.ReadCloser).Close()
		}
	}()
	if err != nil {
		return nil, err
	}

	confFile.global = ini.Empty(defaultLoadOption)
	switch len(files) {
	case 0:
		if confFile.local, err = defaultConfig(); err != nil {
			return nil, fmt.Errorf("could not create default local config: %w", err)
		}
	default:
		if len(files) > 1 {
			// ini.Load wants the config file separated over 2 args, the
			// second arg being a spreadable.
			// The files are ordered in a way that the first one will be
			// overwritten by the second, which will be overwritten by
			// the third, etc.
			confFile.global, err = ini.LoadSources(defaultLoadOption, files[0], files[1:len(files)-1]...)
			if err != nil {
				return nil, fmt.Errorf("could not aggregate config file: %w", err)
			}
		}
		confFile.local, err = ini.LoadSources(defaultLoadOption, files[len(files)-1])
		if err != nil {
			return nil, fmt.Errorf("could not load config file: %w", err)
		}
	}
	return confFile, nil
}

func appendIfValid(array *[]string, envVar string, p ...string) {
	if envVar != "" {
		*array = append(*array, filepath.Join(envVar, filepath.Join(p...)))
	}
}

func getPaths(e *env.Env, cfg *Config) []string {
	configPaths := []string{}

	// system
	// git looks for a file located at $(prefix)/etc/gitconfig, which is
	// a value provided at compile time or through the env ($PREFIX).
	// Since we often don't have this value set, we'll do a
	// system-specific brute-force later on if $PREFIX isn't set.
	if !cfg.SkipSystemConfig && cfg.Prefix != "" {
		configPaths = append(configPaths, filepath.Join(cfg.Prefix, "etc", "gitconfig"))
	}

	switch runtime.GOOS {
	case "windows":
		// system
		if !cfg.SkipSystemConfig && cfg.Prefix == "" {
			appendIfValid(&configPaths, e.Get("ALLUSERSPROFILE"), "Application Data", "Git", "config")
			appendIfValid(&configPaths, e.Get("ProgramFiles(x86)"), "Git", "etc", "gitconfig")
			appendIfValid(&configPaths, e.Get("ProgramFiles"), "Git", "mingw64", "etc", "gitconfig")
		}
		// global
		appendIfValid(&configPaths, e.Get("USERPROFILE"), ".gitconfig")
	default:
		// system
		if !cfg.SkipSystemConfig && cfg.Prefix == "" {
			configPaths = append(configPaths,
				"/etc/gitconfig",
				"/usr/local/etc/gitconfig",
				"/opt/homebrew/etc/gitconfig",
			)
		}
		// global
		if e.Get("XDG_CONFIG_HOME") != "" {
			configPaths = append(configPaths, filepath.Join(e.Get("XDG_CONFIG_HOME"), "git", ".gitconfig"))
		} else {
			appendIfValid(&configPaths, e.Get("HOME"), ".config", ".git", ".gitconfig")
		}
	}
	// shared global
	appendIfValid(&configPaths, e.Get("HOME"), ".gitconfig")
	// local
	configPaths = append(configPaths, cfg.LocalConfig)
	return configPaths
}
