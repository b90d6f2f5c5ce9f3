package object

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/internal/readutil"
)

// Mode represents the mode of an entry inside a tree. Non-standard
// modes are not supported.
type Mode int32

const (
	// ModeFile is the mode of a regular, non-executable file.
	ModeFile Mode = 0o100644
	// ModeExecutable is the mode of an executable file.
	ModeExecutable Mode = 0o100755
	// ModeDirectory is the mode of a subtree.
	ModeDirectory Mode = 0o040000
	// ModeSymlink is the mode of a symbolic link.
	ModeSymlink Mode = 0o120000
	// ModeGitlink is the mode of a submodule reference.
	ModeGitlink Mode = 0o160000
)

// IsValid reports whether m is one of the supported modes.
func (m Mode) IsValid() bool {
	switch m {
	case ModeFile, ModeExecutable, ModeDirectory, ModeSymlink, ModeGitlink:
		return true
	default:
		return false
	}
}

// ObjectType returns the object type an entry with this mode points to.
func (m Mode) ObjectType() Type {
	switch m {
	case ModeDirectory:
		return TypeTree
	case ModeGitlink:
		return TypeCommit
	default:
		return TypeBlob
	}
}

// Tree represents a git tree object: a flat, sorted list of entries,
// each naming an immediate child blob, subtree, or submodule pointer.
type Tree struct {
	rawObject *Object
	entries   []Entry
}

// Entry represents one entry inside a git tree.
type Entry struct {
	Path string
	ID   githash.Oid
	Mode Mode
}

// NewTree returns a new Tree from the given entries. Entries are
// written out in the order given; callers constructing a tree to
// persist must pass them already sorted by path, as git requires.
func NewTree(entries []Entry) *Tree {
	t := &Tree{entries: entries}
	t.rawObject = t.toObject()
	return t
}

// NewTreeFromObject parses o as a Tree.
//
// A tree is a sequence of entries of the form:
//
//	{octal_mode} {path}\0{20-byte id}
func NewTreeFromObject(o *Object) (*Tree, error) {
	if o.Type() != TypeTree {
		return nil, fmt.Errorf("type %s is not a tree: %w", o.typ, ErrObjectInvalid)
	}

	var entries []Entry
	data := o.Bytes()
	offset := 0
	for offset < len(data) {
		modeBytes := readutil.ReadTo(data[offset:], ' ')
		if modeBytes == nil {
			return nil, fmt.Errorf("could not retrieve entry mode at offset %d: %w", offset, ErrTreeInvalid)
		}
		offset += len(modeBytes) + 1

		mode, err := strconv.ParseInt(string(modeBytes), 8, 32)
		if err != nil {
			return nil, fmt.Errorf("could not parse entry mode: %w: %w", err, ErrTreeInvalid)
		}

		pathBytes := readutil.ReadTo(data[offset:], 0)
		if pathBytes == nil {
			return nil, fmt.Errorf("could not retrieve entry path at offset %d: %w", offset, ErrTreeInvalid)
		}
		offset += len(pathBytes) + 1

		if offset+githash.Size > len(data) {
			return nil, fmt.Errorf("not enough bytes for entry id at offset %d: %w", offset, ErrTreeInvalid)
		}
		id, err := githash.FromBytes(data[offset : offset+githash.Size])
		if err != nil {
			return nil, fmt.Errorf("invalid entry id: %w: %w", err, ErrTreeInvalid)
		}
		offset += githash.Size

		entries = append(entries, Entry{
			Mode: Mode(mode),
			Path: string(pathBytes),
			ID:   id,
		})
	}

	return &Tree{rawObject: o, entries: entries}, nil
}

// Entries returns a copy of the tree's entries.
func (t *Tree) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// ID returns the tree's id.
func (t *Tree) ID() githash.Oid {
	return t.rawObject.ID()
}

// ToObject returns the Tree's underlying Object.
func (t *Tree) ToObject() *Object {
	return t.rawObject
}

func (t *Tree) toObject() *Object {
	buf := new(bytes.Buffer)
	for _, e := range t.entries {
		buf.WriteString(strconv.FormatInt(int64(e.Mode), 8))
		buf.WriteByte(' ')
		buf.WriteString(e.Path)
		buf.WriteByte(0)
		buf.Write(e.ID.Bytes())
	}
	return New(TypeTree, buf.Bytes())
}
