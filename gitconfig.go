package gitgo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/halvorsen/gitgo/config"
)

// ErrConfigUnknownKey is returned by ConfigGet/ConfigSet for a
// "section.key" this implementation doesn't model.
var ErrConfigUnknownKey = errors.New("unknown config key")

// ConfigGet returns the value of a "section.key" config variable.
func (r *Repository) ConfigGet(key string) (string, bool) {
	if name, ok := remoteKey(key); ok {
		remote, exists := r.Config.Remote(name.remote)
		if !exists {
			return "", false
		}
		switch name.field {
		case "url":
			return remote.URL, remote.URL != ""
		case "fetch":
			return remote.Fetch, remote.Fetch != ""
		case "push":
			return remote.Push, remote.Push != ""
		}
		return "", false
	}

	switch key {
	case "user.name":
		return r.Config.UserName()
	case "user.email":
		return r.Config.UserEmail()
	case "core.bare":
		bare, ok := r.Config.IsBare()
		return strconv.FormatBool(bare), ok
	case "init.defaultbranch":
		return r.Config.DefaultBranch()
	}
	return "", false
}

// ConfigSet sets a "section.key" config variable and persists it to
// the repository's local config file.
func (r *Repository) ConfigSet(key, value string) error {
	if name, ok := remoteKey(key); ok {
		existing, _ := r.Config.Remote(name.remote)
		switch name.field {
		case "url":
			existing.URL = value
		case "fetch":
			existing.Fetch = value
		case "push":
			existing.Push = value
		default:
			return ErrConfigUnknownKey
		}
		if err := r.Config.SetRemote(name.remote, existing); err != nil {
			return err
		}
		return r.Config.Save()
	}

	switch key {
	case "core.bare":
		bare, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		r.Config.UpdateIsBare(bare)
	case "user.name":
		r.Config.UpdateUserName(value)
	case "user.email":
		r.Config.UpdateUserEmail(value)
	default:
		return ErrConfigUnknownKey
	}
	return r.Config.Save()
}

// ConfigList returns every configured "section.key=value" line from
// the repository's local config file.
func (r *Repository) ConfigList() []string {
	return r.Config.List()
}

// ConfigUnset removes a remote entirely (the only unset this
// implementation supports: user.* and core.* are never removed, only
// overwritten).
func (r *Repository) ConfigUnset(key string) error {
	name, ok := remoteKey(key)
	if !ok {
		return ErrConfigUnknownKey
	}
	r.Config.RemoveRemote(name.remote)
	return r.Config.Save()
}

// Remote adds or updates a remote named name pointing at url.
func (r *Repository) Remote(name, url string) error {
	if err := r.Config.SetRemote(name, config.RemoteConfig{
		URL:   url,
		Fetch: "+refs/heads/*:refs/remotes/" + name + "/*",
	}); err != nil {
		return err
	}
	return r.Config.Save()
}

// RemoteRemove deletes the remote named name.
func (r *Repository) RemoteRemove(name string) error {
	r.Config.RemoveRemote(name)
	return r.Config.Save()
}

type remoteKeyName struct {
	remote string
	field  string
}

// remoteKey parses "remote.<name>.<field>" into its parts.
func remoteKey(key string) (remoteKeyName, bool) {
	if !strings.HasPrefix(key, "remote.") {
		return remoteKeyName{}, false
	}
	rest := strings.TrimPrefix(key, "remote.")
	i := strings.LastIndex(rest, ".")
	if i <= 0 || i == len(rest)-1 {
		return remoteKeyName{}, false
	}
	return remoteKeyName{remote: rest[:i], field: rest[i+1:]}, true
}
