package gitgo

import (
	"fmt"

	"github.com/halvorsen/gitgo/backend"
	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/object"
)

// HashObjectOptions controls HashObject.
type HashObjectOptions struct {
	// Type is the object type to frame content as. Defaults to
	// object.TypeBlob.
	Type object.Type
	// Write persists the object to the store. When false, HashObject
	// only computes the id it would have.
	Write bool
}

// HashObject computes the id of content framed as an object of the
// given type, optionally persisting it to the store.
func (r *Repository) HashObject(content []byte, opts HashObjectOptions) (githash.Oid, error) {
	typ := opts.Type
	if typ == 0 {
		typ = object.TypeBlob
	}
	o := object.New(typ, content)
	if !opts.Write {
		return o.ID(), nil
	}
	return r.Store.WriteObject(o)
}

// CatFile returns the object matching a hex oid or unambiguous prefix.
func (r *Repository) CatFile(idOrPrefix string) (*object.Object, error) {
	id, err := backend.ResolveOid(r.Store, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %q: %w", idOrPrefix, err)
	}
	return r.Store.Object(id)
}
