// Package object contains methods and types to work with git objects:
// blobs, trees, and commits. An object is identified by the SHA-1 of
// its framed bytes (type, size, NUL, content) and is stored zlib
// compressed in the loose object store.
// https://git-scm.com/book/en/v2/Git-Internals-Git-Objects
package object

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/halvorsen/gitgo/codec"
	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/internal/readutil"
	"golang.org/x/xerrors"
)

var (
	// ErrObjectUnknown is returned when encountering an unknown object type.
	ErrObjectUnknown = errors.New("invalid object type")

	// ErrObjectInvalid is returned when an object contains unexpected
	// data, or the wrong object kind is handed to a method (ex. asking
	// for AsCommit() on a tree object).
	ErrObjectInvalid = errors.New("invalid object")

	// ErrTreeInvalid is returned when parsing an invalid tree object.
	ErrTreeInvalid = errors.New("invalid tree")

	// ErrCommitInvalid is returned when parsing an invalid commit object.
	ErrCommitInvalid = errors.New("invalid commit")
)

// Type represents the type of a git object.
type Type int8

// The object types this implementation persists and parses. Git also
// defines delta types for packfile storage and a Tag type for
// annotated tags; neither packfiles nor annotated tags are supported
// here, so those values are not represented.
const (
	TypeCommit Type = 1
	TypeTree   Type = 2
	TypeBlob   Type = 3
)

func (t Type) String() string {
	switch t {
	case TypeCommit:
		return "commit"
	case TypeTree:
		return "tree"
	case TypeBlob:
		return "blob"
	default:
		panic(fmt.Sprintf("unknown object type %d", t))
	}
}

// IsValid reports whether t is one of the supported object types.
func (t Type) IsValid() bool {
	switch t {
	case TypeCommit, TypeTree, TypeBlob:
		return true
	default:
		return false
	}
}

// NewTypeFromString returns a Type from its string representation, as
// found in an object's header or a tree entry's computed object type.
func NewTypeFromString(t string) (Type, error) {
	switch t {
	case "commit":
		return TypeCommit, nil
	case "tree":
		return TypeTree, nil
	case "blob":
		return TypeBlob, nil
	default:
		return 0, ErrObjectUnknown
	}
}

// Object represents a git object. Blob, Tree, and Commit all wrap one:
// they share the same on-disk framing and differ only in how their
// content bytes are interpreted.
type Object struct {
	id      githash.Oid
	typ     Type
	content []byte

	idOnce sync.Once
}

// New creates a new git object of the given type around content. The
// object's id is computed lazily from content, the same way git's own
// objects are addressed by the hash of their framed bytes.
func New(typ Type, content []byte) *Object {
	return &Object{typ: typ, content: content}
}

// ID returns the object's id, computing it on first use.
func (o *Object) ID() githash.Oid {
	o.idOnce.Do(func() {
		o.id, _ = o.frame()
	})
	return o.id
}

// Size returns the size, in bytes, of the object's content.
func (o *Object) Size() int {
	return len(o.content)
}

// Type returns the object's type.
func (o *Object) Type() Type {
	return o.typ
}

// Bytes returns the object's content, excluding the type/size header.
func (o *Object) Bytes() []byte {
	return o.content
}

// frame returns the object's id and its framed bytes:
// "{type} {size}\0{content}".
func (o *Object) frame() (githash.Oid, []byte) {
	w := new(bytes.Buffer)
	w.WriteString(o.Type().String())
	w.WriteByte(' ')
	w.WriteString(strconv.Itoa(o.Size()))
	w.WriteByte(0)
	w.Write(o.Bytes())

	data := w.Bytes()
	return githash.Sum(data), data
}

// Compress returns the object's zlib-compressed framed bytes, the form
// it is persisted in under .git/objects.
func (o *Object) Compress() []byte {
	_, framed := o.frame()
	return codec.Encode(framed)
}

// Parse decompresses a loose object's on-disk bytes and parses its
// header, returning the Object it frames.
func Parse(compressed []byte) (*Object, error) {
	framed, err := codec.Decode(compressed)
	if err != nil {
		return nil, xerrors.Errorf("object: could not inflate: %w", err)
	}
	return ParseFramed(framed)
}

// ParseFramed parses already-decompressed framed bytes
// ("{type} {size}\0{content}") into an Object.
func ParseFramed(framed []byte) (*Object, error) {
	typeBytes := readutil.ReadTo(framed, ' ')
	if typeBytes == nil {
		return nil, xerrors.Errorf("%w: missing type", ErrObjectInvalid)
	}
	typ, err := NewTypeFromString(string(typeBytes))
	if err != nil {
		return nil, xerrors.Errorf("could not parse object type: %w", err)
	}

	rest := framed[len(typeBytes)+1:]
	sizeBytes := readutil.ReadTo(rest, 0)
	if sizeBytes == nil {
		return nil, xerrors.Errorf("%w: missing size", ErrObjectInvalid)
	}
	size, err := strconv.Atoi(string(sizeBytes))
	if err != nil {
		return nil, xerrors.Errorf("could not parse object size: %w", err)
	}

	content := rest[len(sizeBytes)+1:]
	if len(content) != size {
		return nil, xerrors.Errorf("%w: size mismatch (header says %d, got %d)", ErrObjectInvalid, size, len(content))
	}

	return New(typ, content), nil
}

// AsBlob returns o as a Blob.
func (o *Object) AsBlob() *Blob {
	return NewBlob(o)
}

// AsTree parses o as a Tree.
func (o *Object) AsTree() (*Tree, error) {
	return NewTreeFromObject(o)
}

// AsCommit parses o as a Commit.
func (o *Object) AsCommit() (*Commit, error) {
	return NewCommitFromObject(o)
}
