// Package backend contains interfaces and implementations to store and
// retrieve data from the object database and reference store.
package backend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/object"
	"github.com/halvorsen/gitgo/refs"
)

// Backend represents an object that can store and retrieve data
// from and to the object database.
type Backend interface {
	// Close frees the resources held by the backend.
	Close() error

	// Init initializes a repository.
	Init() error

	// Reference returns a stored reference from its name.
	Reference(name string) (*refs.Reference, error)
	// WriteReference writes the given reference in the db. If the
	// reference already exists it will be overwritten.
	WriteReference(ref *refs.Reference) error
	// WriteReferenceSafe writes the given reference in the db.
	// ErrExists is returned if the reference already exists.
	WriteReferenceSafe(ref *refs.Reference) error
	// WalkReferences runs the provided method on all the references.
	WalkReferences(f RefWalkFunc) error

	// Object returns the object that has the given oid.
	Object(githash.Oid) (*object.Object, error)
	// HasObject returns whether an object exists in the odb.
	HasObject(githash.Oid) (bool, error)
	// WriteObject adds an object to the odb.
	WriteObject(*object.Object) (githash.Oid, error)
	// WalkLooseObjectIDs runs the provided method on all the loose ids.
	WalkLooseObjectIDs(f OidWalkFunc) error
}

// RefWalkFunc represents a function applied to every reference found
// by WalkReferences.
type RefWalkFunc = func(ref *refs.Reference) error

// OidWalkFunc represents a function applied to every object id found
// by WalkLooseObjectIDs.
type OidWalkFunc = func(id githash.Oid) error

// WalkStop is a sentinel error a RefWalkFunc/OidWalkFunc can return to
// stop the walk early without it being reported as a failure.
var WalkStop = errors.New("stop walking") //nolint:errname // intentionally not Err-prefixed: it signals control flow, not failure

// ErrAmbiguous is returned by ResolveOid when a prefix matches more
// than one object.
var ErrAmbiguous = errors.New("ambiguous object prefix")

// ErrShortOid is returned by ResolveOid when a prefix is shorter than
// the minimum 2 hex characters git requires to disambiguate.
var ErrShortOid = errors.New("object prefix too short")

// ResolveOid resolves a hex prefix (at least 2 characters) to the
// single loose object id it uniquely identifies. A full 40-character
// id is resolved directly without a walk; anything shorter walks the
// loose object ids in store and looks for exactly one match.
func ResolveOid(store Backend, prefix string) (githash.Oid, error) {
	if len(prefix) < 2 {
		return githash.NullOid, fmt.Errorf("%q: %w", prefix, ErrShortOid)
	}
	if id, err := githash.FromHex(prefix); err == nil {
		return id, nil
	}

	prefix = strings.ToLower(prefix)
	var match githash.Oid
	found := false
	err := store.WalkLooseObjectIDs(func(id githash.Oid) error {
		if strings.HasPrefix(id.String(), prefix) {
			if found {
				return fmt.Errorf("%q: %w", prefix, ErrAmbiguous)
			}
			found = true
			match = id
		}
		return nil
	})
	if err != nil {
		return githash.NullOid, err
	}
	if !found {
		return githash.NullOid, fmt.Errorf("%q: %w", prefix, githash.ErrInvalidOid)
	}
	return match, nil
}
