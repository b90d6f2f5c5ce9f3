// Package index implements the git index (a.k.a. the staging area):
// the binary file at .git/index that records, for every staged path,
// the blob it resolves to plus enough filesystem metadata to detect
// whether the working tree copy has changed without rehashing it.
//
// The format is version 2 of git's on-disk index:
//
//	"DIRC" magic, 4-byte version (2), 4-byte entry count
//	for each entry:
//	  10 big-endian uint32 fields (ctime/mtime secs+nsecs, dev, ino,
//	  mode, uid, gid, size), a 20-byte object id, a 2-byte flags field,
//	  a NUL-terminated path, then NUL padding so the entry's total
//	  length (62 fixed bytes + path + padding) is a multiple of 8
//	a trailing 20-byte SHA-1 of everything before it
package index

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/halvorsen/gitgo/githash"
)

// signature is the magic 4 bytes every version of the index format starts with.
const signature = "DIRC"

// version is the only index format version this implementation reads or writes.
const version = 2

// fixedEntrySize is the size, in bytes, of an entry's fields before its
// variable-length path: 10 uint32 fields (40 bytes) + a 20-byte oid +
// a 2-byte flags field.
const fixedEntrySize = 10*4 + githash.Size + 2

var (
	// ErrBadSignature is returned when the index doesn't start with "DIRC".
	ErrBadSignature = errors.New("index: bad header signature")

	// ErrUnsupportedVersion is returned for any index format version
	// other than 2.
	ErrUnsupportedVersion = errors.New("index: unsupported version")

	// ErrChecksumMismatch is returned when the trailing SHA-1 doesn't
	// match the rest of the file.
	ErrChecksumMismatch = errors.New("index: checksum mismatch")

	// ErrTruncated is returned when the index ends before an entry or
	// the trailing checksum is fully read.
	ErrTruncated = errors.New("index: truncated file")

	// ErrMissingPathTerminator is returned when an entry's path isn't
	// NUL-terminated before the data runs out.
	ErrMissingPathTerminator = errors.New("index: entry missing NUL-terminated path")
)

// Entry is a single staged path: the object id it resolves to, plus
// the filesystem metadata captured the last time it was added.
type Entry struct {
	CtimeSec  uint32
	CtimeNsec uint32
	MtimeSec  uint32
	MtimeNsec uint32
	Dev       uint32
	Ino       uint32
	Mode      uint32
	UID       uint32
	GID       uint32
	Size      uint32
	Hash      githash.Oid
	// Flags packs assume-valid/stage/name-length per git's format; this
	// implementation only ever sets it to the path's length, as every
	// entry in this index namespace stays unmerged-free (stage 0).
	Flags uint16
	Path  string
}

// Read parses a version-2 index file.
func Read(data []byte) ([]Entry, error) {
	if len(data) < 12+githash.Size {
		return nil, ErrTruncated
	}
	if string(data[0:4]) != signature {
		return nil, ErrBadSignature
	}
	ver := binary.BigEndian.Uint32(data[4:8])
	if ver != version {
		return nil, fmt.Errorf("%w: got version %d", ErrUnsupportedVersion, ver)
	}
	count := binary.BigEndian.Uint32(data[8:12])

	entries := make([]Entry, 0, count)
	offset := 12
	for i := uint32(0); i < count; i++ {
		entry, consumed, err := readEntry(data[offset:])
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, entry)
		offset += consumed
	}

	if offset+githash.Size > len(data) {
		return nil, ErrTruncated
	}
	wantChecksum, err := githash.FromBytes(data[offset : offset+githash.Size])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrChecksumMismatch, err)
	}
	if githash.Sum(data[:offset]) != wantChecksum {
		return nil, ErrChecksumMismatch
	}

	return entries, nil
}

func readEntry(data []byte) (Entry, int, error) {
	if len(data) < fixedEntrySize {
		return Entry{}, 0, ErrTruncated
	}

	var fields [10]uint32
	for i := range fields {
		fields[i] = binary.BigEndian.Uint32(data[i*4 : i*4+4])
	}
	offset := 10 * 4

	hash, err := githash.FromBytes(data[offset : offset+githash.Size])
	if err != nil {
		return Entry{}, 0, fmt.Errorf("invalid hash: %w", err)
	}
	offset += githash.Size

	flags := binary.BigEndian.Uint16(data[offset : offset+2])
	offset += 2

	nul := bytes.IndexByte(data[offset:], 0)
	if nul < 0 {
		return Entry{}, 0, ErrMissingPathTerminator
	}
	path := string(data[offset : offset+nul])

	entryLen := fixedEntrySize + len(path)
	padding := paddingFor(entryLen)
	consumed := entryLen + padding

	return Entry{
		CtimeSec:  fields[0],
		CtimeNsec: fields[1],
		MtimeSec:  fields[2],
		MtimeNsec: fields[3],
		Dev:       fields[4],
		Ino:       fields[5],
		Mode:      fields[6],
		UID:       fields[7],
		GID:       fields[8],
		Size:      fields[9],
		Hash:      hash,
		Flags:     flags,
		Path:      path,
	}, consumed, nil
}

// paddingFor returns the number of NUL bytes (including the path's own
// terminator) needed after entryLen fixed+path bytes so the entry's
// total length is a multiple of 8, with at least one such byte always
// present.
func paddingFor(entryLen int) int {
	return ((entryLen+8)/8)*8 - entryLen
}

// Write serializes entries into a version-2 index file. Entries are
// sorted by path first, as git requires; the slice passed in is not
// mutated.
func Write(entries []Entry) []byte {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	var buf bytes.Buffer
	buf.WriteString(signature)
	writeUint32(&buf, version)
	writeUint32(&buf, uint32(len(sorted)))

	for _, e := range sorted {
		writeUint32(&buf, e.CtimeSec)
		writeUint32(&buf, e.CtimeNsec)
		writeUint32(&buf, e.MtimeSec)
		writeUint32(&buf, e.MtimeNsec)
		writeUint32(&buf, e.Dev)
		writeUint32(&buf, e.Ino)
		writeUint32(&buf, e.Mode)
		writeUint32(&buf, e.UID)
		writeUint32(&buf, e.GID)
		writeUint32(&buf, e.Size)
		buf.Write(e.Hash.Bytes())
		writeUint16(&buf, e.Flags)
		buf.WriteString(e.Path)

		entryLen := fixedEntrySize + len(e.Path)
		buf.Write(make([]byte, paddingFor(entryLen)))
	}

	checksum := githash.Sum(buf.Bytes())
	buf.Write(checksum.Bytes())
	return buf.Bytes()
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}
