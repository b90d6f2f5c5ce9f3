// Package refs implements git's reference namespace: the name
// resolution rules for HEAD, branches, tags, and special refs such as
// FETCH_HEAD and MERGE_HEAD.
// https://git-scm.com/book/en/v2/Git-Internals-Git-References
package refs

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/halvorsen/gitgo/githash"
)

// Well-known reference names.
const (
	Head           = "HEAD"
	OrigHead       = "ORIG_HEAD"
	FetchHead      = "FETCH_HEAD"
	MergeHead      = "MERGE_HEAD"
	CherryPickHead = "CHERRY_PICK_HEAD"
	DefaultBranch  = "master"
)

// maxResolutionDepth bounds how many symbolic hops Resolve will follow
// before giving up. HEAD -> refs/heads/x is one hop; anything beyond a
// handful of indirections is either a misconfigured repository or a
// cycle, and either way should fail fast rather than recurse
// indefinitely.
const maxResolutionDepth = 5

var (
	// ErrNotFound is returned when a reference does not exist.
	ErrNotFound = errors.New("reference not found")

	// ErrExists is returned when a reference that should not exist does.
	ErrExists = errors.New("reference already exists")

	// ErrInvalidName is returned when a reference's name fails validation.
	ErrInvalidName = errors.New("reference name is not valid")

	// ErrInvalid is returned when a reference's content cannot be parsed.
	ErrInvalid = errors.New("reference is not valid")

	// ErrTooManyRedirects is returned when resolving a symbolic reference
	// exceeds maxResolutionDepth hops.
	ErrTooManyRedirects = errors.New("too many levels of symbolic references")
)

// Type represents the kind of target a Reference points to.
type Type int8

const (
	// OidRef targets an object id directly.
	OidRef Type = 1
	// SymbolicRef targets another reference by name.
	SymbolicRef Type = 2
)

// Reference represents a single git reference: a name bound either to
// an object id or, symbolically, to another reference name.
type Reference struct {
	name   string
	target string
	id     githash.Oid
	typ    Type
}

// NewReference returns a reference named name that targets an object id.
func NewReference(name string, target githash.Oid) *Reference {
	return &Reference{typ: OidRef, name: name, id: target}
}

// NewSymbolicReference returns a reference named name that targets
// another reference by name (e.g. HEAD targeting refs/heads/main).
func NewSymbolicReference(name, target string) *Reference {
	return &Reference{typ: SymbolicRef, name: name, target: target}
}

// Name returns the reference's full name, e.g. "refs/heads/main".
func (r *Reference) Name() string { return r.name }

// Target returns the object id the reference ultimately resolves to.
func (r *Reference) Target() githash.Oid { return r.id }

// Type returns whether the reference is symbolic or points directly at
// an object id.
func (r *Reference) Type() Type { return r.typ }

// SymbolicTarget returns the name this reference points to, if it is
// symbolic.
func (r *Reference) SymbolicTarget() string { return r.target }

// Content is a function that returns the raw, on-disk bytes of a named
// reference. Resolve is written against this interface rather than a
// concrete storage type so it has no dependency on the backend package
// that implements it.
type Content func(name string) ([]byte, error)

// Resolve follows a named reference to its final object id, walking
// through any chain of symbolic references (bounded by
// maxResolutionDepth).
func Resolve(name string, read Content) (*Reference, error) {
	return resolve(name, read, 0)
}

func resolve(name string, read Content, depth int) (*Reference, error) {
	if depth > maxResolutionDepth {
		return nil, fmt.Errorf("%s: %w", name, ErrTooManyRedirects)
	}
	if !IsNameValid(name) {
		return nil, fmt.Errorf("%q: %w", name, ErrInvalidName)
	}

	data, err := read(name)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)

	if bytes.HasPrefix(data, []byte("ref: ")) {
		target := string(data[len("ref: "):])
		resolved, err := resolve(target, read, depth+1)
		if err != nil {
			return nil, err
		}
		return &Reference{
			typ:    SymbolicRef,
			name:   name,
			target: target,
			id:     resolved.id,
		}, nil
	}

	// FETCH_HEAD's format is "{40hex}\tbranch '{name}' of {url}", not a
	// bare oid; every other ref is exactly the 40 hex chars with
	// nothing else on the line. Taking the leading whitespace-delimited
	// field handles both without a name-specific branch.
	if i := bytes.IndexAny(data, " \t"); i >= 0 {
		data = data[:i]
	}
	id, err := githash.FromChars(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, ErrInvalid)
	}
	return &Reference{typ: OidRef, name: name, id: id}, nil
}

// LocalBranchFullName returns the full ref name of a branch, e.g.
// "main" -> "refs/heads/main".
func LocalBranchFullName(shortName string) string {
	return "refs/heads/" + shortName
}

// LocalBranchShortName strips the refs/heads/ prefix off a full branch
// ref name.
func LocalBranchShortName(fullName string) string {
	return strings.TrimPrefix(fullName, "refs/heads/")
}

// LocalTagFullName returns the full ref name of a tag, e.g.
// "v1.0" -> "refs/tags/v1.0".
func LocalTagFullName(shortName string) string {
	return "refs/tags/" + shortName
}

// RemoteBranchFullName returns the full ref name of a remote-tracking
// branch, e.g. ("origin", "main") -> "refs/remotes/origin/main".
func RemoteBranchFullName(remote, shortName string) string {
	return "refs/remotes/" + remote + "/" + shortName
}

// IsBranch reports whether name is a local branch ref.
func IsBranch(name string) bool {
	return strings.HasPrefix(name, "refs/heads/")
}

// IsNameValid reports whether name is a syntactically valid reference
// name. https://stackoverflow.com/a/12093994/382879
func IsNameValid(name string) bool {
	if name == "" || name == "/" || name[len(name)-1] == '/' || name[len(name)-1] == '.' {
		return false
	}

	for i, c := range name {
		if c < 32 || c == 127 {
			return false
		}
		if c == '*' || c == '?' || c == '!' || c == '^' {
			return false
		}
		if c == ' ' || c == '[' || c == '\\' || c == ':' {
			return false
		}
		if i < len(name)-1 {
			switch name[i : i+2] {
			case "@{", "..":
				return false
			}
		}
	}

	for _, segment := range strings.Split(name, "/") {
		if segment == "" || segment[0] == '.' || segment[len(segment)-1] == '.' || strings.HasSuffix(segment, ".lock") {
			return false
		}
	}
	return true
}
